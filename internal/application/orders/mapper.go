package orders

import (
	"github.com/jhoicas/AgroOrdenes-api/internal/application/dto"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
)

// toOrderResponse mapea la orden; items (opcional) aporta el nombre de cada insumo.
func toOrderResponse(o *entity.Order, items map[string]*entity.InventoryItem) *dto.OrderResponse {
	out := &dto.OrderResponse{
		ID:              o.ID,
		ParcelID:        o.ParcelID,
		RecipeID:        o.RecipeID,
		AreaApplied:     o.AreaApplied,
		CreatedAt:       o.CreatedAt,
		ApplicationDate: o.ApplicationDate,
		OperatorID:      o.OperatorID,
		State:           o.State.String(),
		Observations:    o.Observations,
		TotalCost:       o.TotalCost,
		UpdatedAt:       o.UpdatedAt,
		Details:         make([]dto.OrderDetailResponse, 0, len(o.Details)),
	}
	for _, d := range o.Details {
		line := dto.OrderDetailResponse{
			ID:               d.ID,
			ItemID:           d.ItemID,
			ComputedQuantity: d.ComputedQuantity,
			Unit:             d.Unit,
			UnitCost:         d.UnitCost,
			TotalCost:        d.TotalCost,
		}
		if it, ok := items[d.ItemID]; ok {
			line.ItemName = it.Name
		}
		out.Details = append(out.Details, line)
	}
	return out
}
