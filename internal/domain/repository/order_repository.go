package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
)

// OrderFilter filtros del listado de órdenes. Las fechas filtran por fecha de creación.
type OrderFilter struct {
	ParcelID   string
	RecipeID   string
	State      *entity.OrderState
	From       *time.Time
	To         *time.Time
	SearchText string
	Limit      int
	Offset     int
}

// StateAggregate agregado de órdenes por estado en un rango de fecha de aplicación.
type StateAggregate struct {
	State     entity.OrderState
	Count     int
	TotalCost decimal.Decimal
	TotalArea decimal.Decimal
}

// OrderRepository puerto de persistencia de órdenes de aplicación y sus detalles.
type OrderRepository interface {
	// Create persiste la cabecera y todos sus detalles.
	Create(ctx context.Context, order *entity.Order) error
	// GetByID carga la orden con detalles; (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate carga y bloquea la cabecera hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	// Update persiste solo los campos de cabecera; los detalles son inmutables.
	Update(ctx context.Context, order *entity.Order) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f OrderFilter) ([]*entity.Order, error)
	ListAppliedByParcel(ctx context.Context, parcelID string) ([]*entity.Order, error)
	AggregateByState(ctx context.Context, from, to time.Time) ([]StateAggregate, error)
	// CountOpenByItem cuenta órdenes no anuladas que referencian el insumo.
	CountOpenByItem(ctx context.Context, itemID string) (int, error)
}
