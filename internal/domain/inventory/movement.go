package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/AgroOrdenes-api/internal/domain"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
)

// ApplyMovement calcula el stock resultante de aplicar un movimiento sobre stockBefore.
// ENTRADA/DEVOLUCION suman; SALIDA/MERMA/TRASLADO restan; AJUSTE fija el valor absoluto.
// Nunca devuelve un stock negativo: en ese caso retorna un *domain.InsufficientStockError.
func ApplyMovement(item *entity.InventoryItem, t entity.MovementType, quantity decimal.Decimal) (decimal.Decimal, error) {
	stockBefore := item.StockCurrent
	switch t {
	case entity.MovementEntry, entity.MovementReturn:
		if !quantity.GreaterThan(decimal.Zero) {
			return decimal.Zero, domain.ErrInvalidInput
		}
		return stockBefore.Add(quantity), nil
	case entity.MovementExit, entity.MovementWaste, entity.MovementTransfer:
		if !quantity.GreaterThan(decimal.Zero) {
			return decimal.Zero, domain.ErrInvalidInput
		}
		after := stockBefore.Sub(quantity)
		if after.IsNegative() {
			return decimal.Zero, &domain.InsufficientStockError{Shortfalls: []domain.Shortfall{{
				ItemID:    item.ID,
				ItemName:  item.Name,
				Unit:      item.Unit,
				Required:  quantity,
				Available: stockBefore,
				Deficit:   after.Neg(),
			}}}
		}
		return after, nil
	case entity.MovementAdjustment:
		if quantity.IsNegative() {
			return decimal.Zero, domain.ErrInvalidInput
		}
		return quantity, nil
	default:
		return decimal.Zero, domain.ErrInvalidInput
	}
}

// WeightedAverageCost costo unitario tras una ENTRADA valorizada:
// (stock*costo + cantidad*costoEntrada) / (stock + cantidad), redondeado a 4 decimales.
// Sin existencias previas el costo es el de la entrada.
func WeightedAverageCost(stock, cost, quantity, entryCost decimal.Decimal) decimal.Decimal {
	total := stock.Add(quantity)
	if !total.IsPositive() {
		return entryCost
	}
	return stock.Mul(cost).Add(quantity.Mul(entryCost)).Div(total).Round(4)
}
