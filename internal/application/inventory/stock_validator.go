package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/inventory"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/repository"
	"github.com/jhoicas/AgroOrdenes-api/pkg/metrics"
)

// StockValidator compara cantidades requeridas contra el stock actual sin modificar nada.
type StockValidator struct {
	itemRepo repository.ItemRepository
	metrics  *metrics.Metrics
}

func NewStockValidator(itemRepo repository.ItemRepository, m *metrics.Metrics) *StockValidator {
	return &StockValidator{itemRepo: itemRepo, metrics: m}
}

// Check carga los insumos requeridos y devuelve el resultado con la lista completa de faltantes.
// También devuelve los insumos cargados para que el caller arme su respuesta.
func (v *StockValidator) Check(ctx context.Context, reqs []inventory.Requirement) (inventory.StockCheck, map[string]*entity.InventoryItem, error) {
	ids := make([]string, 0, len(reqs))
	for _, r := range inventory.MergeRequirements(reqs) {
		ids = append(ids, r.ItemID)
	}
	items, err := v.itemRepo.GetMany(ctx, ids)
	if err != nil {
		return inventory.StockCheck{}, nil, fmt.Errorf("cargar insumos: %w", err)
	}
	res := inventory.CheckStock(reqs, items)
	v.metrics.Shortfalls(len(res.Shortfalls))
	return res, items, nil
}
