package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
)

// MovementFilter filtros del listado de movimientos.
type MovementFilter struct {
	ItemID string
	Type   *entity.MovementType
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// MovementRepository puerto append-only: no existen Update ni Delete.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	List(ctx context.Context, f MovementFilter) ([]*entity.Movement, error)
	CountByItem(ctx context.Context, itemID string) (int, error)
	// ConsumptionByItem suma las cantidades de SALIDA por insumo con fecha en [from, to].
	ConsumptionByItem(ctx context.Context, from, to time.Time) (map[string]decimal.Decimal, error)
}
