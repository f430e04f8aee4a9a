package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/AgroOrdenes-api/internal/application/dto"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición de insumos bajo su stock mínimo.
// Combina el estado del insumo con el consumo reciente para priorizar.
type ReplenishmentUseCase struct {
	itemRepo repository.ItemRepository
	movRepo  repository.MovementRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(itemRepo repository.ItemRepository, movRepo repository.MovementRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{itemRepo: itemRepo, movRepo: movRepo}
}

var severity = map[entity.ItemStatus]int{
	entity.ItemStatusDepleted: 0,
	entity.ItemStatusCritical: 1,
	entity.ItemStatusLow:      2,
}

// GenerateReplenishmentList devuelve los insumos activos AGOTADO, CRITICO o BAJO con la cantidad
// sugerida para llegar al stock máximo (o al doble del mínimo si no tiene máximo).
// Orden: severidad, luego mayor consumo en 90 días, luego mayor déficit frente al mínimo.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	active := true
	var candidates []*entity.InventoryItem
	for st := range severity {
		status := st
		list, err := uc.itemRepo.List(ctx, repository.ItemFilter{Active: &active, Status: &status, Limit: 1000})
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, list...)
	}
	if len(candidates) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	end := time.Now()
	consumed, err := uc.movRepo.ConsumptionByItem(ctx, end.AddDate(0, 0, -90), end)
	if err != nil {
		return nil, err
	}

	two := decimal.NewFromInt(2)
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(candidates))
	for _, it := range candidates {
		target := it.StockMax
		if !target.IsPositive() {
			target = it.StockMin.Mul(two)
		}
		qty := target.Sub(it.StockCurrent)
		if qty.IsNegative() {
			qty = decimal.Zero
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ItemID:             it.ID,
			Code:               it.Code,
			Name:               it.Name,
			Unit:               it.Unit,
			Status:             it.Status.String(),
			CurrentStock:       it.StockCurrent,
			StockMin:           it.StockMin,
			TargetStock:        target,
			SuggestedOrderQty:  qty,
			UnitCost:           it.UnitCost,
			EstimatedOrderCost: qty.Mul(it.UnitCost),
			ConsumedLast90Days: consumed[it.ID],
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		sa, _ := entity.ParseItemStatus(a.Status)
		sb, _ := entity.ParseItemStatus(b.Status)
		if severity[sa] != severity[sb] {
			return severity[sa] < severity[sb]
		}
		if !a.ConsumedLast90Days.Equal(b.ConsumedLast90Days) {
			return a.ConsumedLast90Days.GreaterThan(b.ConsumedLast90Days)
		}
		if defA, defB := a.StockMin.Sub(a.CurrentStock), b.StockMin.Sub(b.CurrentStock); !defA.Equal(defB) {
			return defA.GreaterThan(defB)
		}
		return a.Code < b.Code
	})

	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
