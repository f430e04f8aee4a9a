package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/AgroOrdenes-api/internal/domain"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
)

// Requirement cantidad requerida de un insumo.
type Requirement struct {
	ItemID   string
	Quantity decimal.Decimal
}

// StockCheck resultado de comparar requerimientos contra existencias.
type StockCheck struct {
	Valid      bool
	Shortfalls []domain.Shortfall
}

// MergeRequirements suma los requerimientos del mismo insumo y los ordena por ItemID
// (orden estable para bloquear filas siempre en la misma secuencia).
func MergeRequirements(reqs []Requirement) []Requirement {
	byItem := make(map[string]decimal.Decimal, len(reqs))
	for _, r := range reqs {
		byItem[r.ItemID] = byItem[r.ItemID].Add(r.Quantity)
	}
	out := make([]Requirement, 0, len(byItem))
	for id, q := range byItem {
		out = append(out, Requirement{ItemID: id, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out
}

// CheckStock compara cada requerimiento con el stock actual del insumo. Función pura.
// Un insumo ausente de items cuenta con disponible cero.
func CheckStock(reqs []Requirement, items map[string]*entity.InventoryItem) StockCheck {
	res := StockCheck{Valid: true}
	for _, r := range MergeRequirements(reqs) {
		available := decimal.Zero
		name, unit := r.ItemID, ""
		if it, ok := items[r.ItemID]; ok && it != nil {
			available = it.StockCurrent
			name, unit = it.Name, it.Unit
		}
		if r.Quantity.GreaterThan(available) {
			res.Valid = false
			res.Shortfalls = append(res.Shortfalls, domain.Shortfall{
				ItemID:    r.ItemID,
				ItemName:  name,
				Unit:      unit,
				Required:  r.Quantity,
				Available: available,
				Deficit:   r.Quantity.Sub(available),
			})
		}
	}
	return res
}
