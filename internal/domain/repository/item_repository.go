package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
)

// ItemFilter filtros de listado de insumos (nil = sin filtrar).
type ItemFilter struct {
	Active   *bool
	Category string
	Status   *entity.ItemStatus
	Limit    int
	Offset   int
}

// StatusCount cantidad de insumos por estado derivado.
type StatusCount struct {
	Status entity.ItemStatus
	Count  int
}

// ItemRepository puerto de persistencia de insumos (usable con pool o dentro de una tx).
// GetByID devuelve (nil, nil) si no existe, igual que el resto de repositorios.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
	GetByCode(ctx context.Context, code string) (*entity.InventoryItem, error)
	// GetForUpdate bloquea la fila del insumo hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error)
	GetMany(ctx context.Context, ids []string) (map[string]*entity.InventoryItem, error)
	// Update persiste todos los campos, incluidos stock y derivados; solo el ledger lo invoca.
	Update(ctx context.Context, item *entity.InventoryItem) error
	List(ctx context.Context, f ItemFilter) ([]*entity.InventoryItem, error)
	Search(ctx context.Context, searchKey string, limit int) ([]*entity.InventoryItem, error)
	ListActiveIDs(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error

	CountByStatus(ctx context.Context) ([]StatusCount, error)
	// Totals devuelve cantidad total, activos y valor total del inventario.
	Totals(ctx context.Context) (total, active int, value decimal.Decimal, err error)
}
