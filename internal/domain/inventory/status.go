package inventory

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
)

// SoonExpireDays umbral (días) para considerar un insumo próximo a vencer.
const SoonExpireDays = 30

var half = decimal.NewFromFloat(0.5)

// DeriveStatus calcula el estado del insumo. Las reglas de vencimiento tienen prioridad
// sobre las de stock: un insumo vencido nunca se reporta como disponible.
func DeriveStatus(item *entity.InventoryItem, now time.Time) entity.ItemStatus {
	if days, ok := item.DaysToExpire(now); ok {
		if days < 0 {
			return entity.ItemStatusExpired
		}
		if days <= SoonExpireDays {
			return entity.ItemStatusSoonExpire
		}
	}
	return stockStatus(item)
}

// stockStatus evalúa solo las reglas de cantidad.
func stockStatus(item *entity.InventoryItem) entity.ItemStatus {
	switch {
	case item.StockCurrent.IsZero():
		return entity.ItemStatusDepleted
	case item.StockCurrent.LessThanOrEqual(item.StockMin.Mul(half)):
		return entity.ItemStatusCritical
	case item.StockCurrent.LessThanOrEqual(item.StockMin):
		return entity.ItemStatusLow
	default:
		return entity.ItemStatusAvailable
	}
}

// Recompute actualiza los campos derivados (TotalValue, Status) del insumo.
func Recompute(item *entity.InventoryItem, now time.Time) {
	item.TotalValue = item.StockCurrent.Mul(item.UnitCost)
	item.Status = DeriveStatus(item, now)
}
