package inventory

import (
	"context"

	"github.com/jhoicas/AgroOrdenes-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad del ledger: stock, movimiento y alertas se confirman juntos o no se confirman.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
		alertRepo repository.AlertRepository,
	) error) error
}

// OrderReferences consulta si un insumo está referenciado por órdenes vigentes (no anuladas).
type OrderReferences interface {
	CountOpenByItem(ctx context.Context, itemID string) (int, error)
}
