package orders

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	appinventory "github.com/jhoicas/AgroOrdenes-api/internal/application/inventory"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/inventory"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/repository"
)

// OrderTxRunner ejecuta una función dentro de una transacción que incluye repos de inventario y órdenes.
type OrderTxRunner interface {
	RunOrder(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
		alertRepo repository.AlertRepository,
		orderRepo repository.OrderRepository,
	) error) error
}

// InventoryLedger integra órdenes con inventario.
// ApplyInTx registra un movimiento usando los repositorios del caller (misma transacción).
// Si retorna error (ej: stock insuficiente), el caller debe hacer rollback.
type InventoryLedger interface {
	ApplyInTx(
		ctx context.Context,
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
		alertRepo repository.AlertRepository,
		in appinventory.MovementInput,
		now time.Time,
	) (*entity.Movement, error)
}

// StockChecker valida cantidades requeridas contra el stock actual, sin efectos.
type StockChecker interface {
	Check(ctx context.Context, reqs []inventory.Requirement) (inventory.StockCheck, map[string]*entity.InventoryItem, error)
}

// SheetGenerator genera la hoja de aplicación (PDF) de una orden.
type SheetGenerator interface {
	GenerateOrderSheet(ctx context.Context, sheet OrderSheet) ([]byte, error)
}

// OrderSheet datos ya resueltos para imprimir la hoja de aplicación.
type OrderSheet struct {
	Order    *entity.Order
	Parcel   *entity.Parcel
	Recipe   *entity.Recipe
	Operator *entity.User // nil si la orden no tiene operario asignado
	Lines    []SheetLine
}

// SheetLine una línea por detalle de la receta, en orden de secuencia.
type SheetLine struct {
	Sequence  int
	ItemCode  string
	ItemName  string
	Unit      string
	Dose      decimal.Decimal
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
	TotalCost decimal.Decimal
}
