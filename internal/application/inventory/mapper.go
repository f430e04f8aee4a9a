package inventory

import (
	"time"

	"github.com/jhoicas/AgroOrdenes-api/internal/application/dto"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
)

// ToItemResponse mapea el insumo a su DTO calculando los días a vencimiento respecto a now.
func ToItemResponse(item *entity.InventoryItem, now time.Time) dto.ItemResponse {
	out := dto.ItemResponse{
		ID:             item.ID,
		Code:           item.Code,
		Name:           item.Name,
		Category:       item.Category,
		Unit:           item.Unit,
		StockCurrent:   item.StockCurrent,
		StockMin:       item.StockMin,
		StockMax:       item.StockMax,
		UnitCost:       item.UnitCost,
		TotalValue:     item.TotalValue,
		ExpirationDate: item.ExpirationDate,
		Status:         item.Status.String(),
		Active:         item.Active,
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}
	if days, ok := item.DaysToExpire(now); ok {
		out.DaysToExpire = &days
	}
	return out
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          m.ID,
		ItemID:      m.ItemID,
		Type:        m.Type.String(),
		Quantity:    m.Quantity,
		UnitCost:    m.UnitCost,
		TotalCost:   m.TotalCost,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		Reason:      m.Reason,
		Reference:   m.Reference,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}

func toAlertResponse(a *entity.Alert) dto.AlertResponse {
	return dto.AlertResponse{
		ID:        a.ID,
		ItemID:    a.ItemID,
		Type:      a.Type.String(),
		Message:   a.Message,
		Priority:  a.Priority,
		Read:      a.Read,
		CreatedAt: a.CreatedAt,
	}
}
