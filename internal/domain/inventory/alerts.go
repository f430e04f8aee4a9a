package inventory

import (
	"fmt"
	"time"

	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
)

// UrgentExpireDays por debajo de este umbral una alerta de vencimiento es de prioridad alta.
const UrgentExpireDays = 7

// DeriveAlerts sintetiza las alertas vigentes del insumo, en el mismo orden de prioridad que DeriveStatus:
// primero vencimiento y luego stock. Un insumo puede tener a la vez alerta de vencimiento y de stock.
// Los insumos inactivos no generan alertas. Función pura: mismo insumo y fecha, mismas alertas.
func DeriveAlerts(item *entity.InventoryItem, now time.Time) []entity.Alert {
	if !item.Active {
		return nil
	}
	var out []entity.Alert
	add := func(t entity.AlertType, priority, msg string) {
		out = append(out, entity.Alert{
			ItemID:    item.ID,
			Type:      t,
			Message:   msg,
			Priority:  priority,
			CreatedAt: now,
		})
	}

	if days, ok := item.DaysToExpire(now); ok {
		switch {
		case days < 0:
			add(entity.AlertExpired, entity.PriorityHigh,
				fmt.Sprintf("Producto Vencido: %s venció hace %d día(s)", item.Name, -days))
		case days <= SoonExpireDays:
			priority := entity.PriorityMedium
			if days <= UrgentExpireDays {
				priority = entity.PriorityHigh
			}
			add(entity.AlertSoonExpire, priority,
				fmt.Sprintf("Próximo a Vencer: %s vence en %d día(s)", item.Name, days))
		}
	}

	switch stockStatus(item) {
	case entity.ItemStatusDepleted:
		add(entity.AlertDepleted, entity.PriorityHigh,
			fmt.Sprintf("Stock Agotado: %s no tiene existencias", item.Name))
	case entity.ItemStatusCritical:
		add(entity.AlertCriticalStock, entity.PriorityHigh,
			fmt.Sprintf("Stock Crítico: %s tiene %s %s (mínimo %s)",
				item.Name, item.StockCurrent.String(), item.Unit, item.StockMin.String()))
	case entity.ItemStatusLow:
		add(entity.AlertLowStock, entity.PriorityMedium,
			fmt.Sprintf("Stock Bajo: %s tiene %s %s (mínimo %s)",
				item.Name, item.StockCurrent.String(), item.Unit, item.StockMin.String()))
	}
	return out
}
