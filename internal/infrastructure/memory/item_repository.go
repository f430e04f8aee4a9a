package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/AgroOrdenes-api/internal/domain"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/repository"
)

// ItemRepo implementación en memoria de ItemRepository.
type ItemRepo struct {
	s  *Store
	tx *state
}

var _ repository.ItemRepository = (*ItemRepo)(nil)

func (r *ItemRepo) Create(_ context.Context, item *entity.InventoryItem) error {
	return r.s.update(r.tx, func(st *state) error {
		if _, ok := st.items[item.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, it := range st.items {
			if it.Code == item.Code {
				return domain.ErrDuplicate
			}
		}
		st.items[item.ID] = item.Clone()
		return nil
	})
}

func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	var out *entity.InventoryItem
	r.s.view(r.tx, func(st *state) {
		if it, ok := st.items[id]; ok {
			out = it.Clone()
		}
	})
	return out, nil
}

func (r *ItemRepo) GetByCode(_ context.Context, code string) (*entity.InventoryItem, error) {
	var out *entity.InventoryItem
	r.s.view(r.tx, func(st *state) {
		for _, it := range st.items {
			if it.Code == code {
				out = it.Clone()
				return
			}
		}
	})
	return out, nil
}

// GetForUpdate dentro de Run ya se tiene acceso exclusivo al estado.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.GetByID(ctx, id)
}

func (r *ItemRepo) GetMany(_ context.Context, ids []string) (map[string]*entity.InventoryItem, error) {
	out := make(map[string]*entity.InventoryItem, len(ids))
	r.s.view(r.tx, func(st *state) {
		for _, id := range ids {
			if it, ok := st.items[id]; ok {
				out[id] = it.Clone()
			}
		}
	})
	return out, nil
}

func (r *ItemRepo) Update(_ context.Context, item *entity.InventoryItem) error {
	return r.s.update(r.tx, func(st *state) error {
		if _, ok := st.items[item.ID]; !ok {
			return domain.ErrNotFound
		}
		st.items[item.ID] = item.Clone()
		return nil
	})
}

func (r *ItemRepo) List(_ context.Context, f repository.ItemFilter) ([]*entity.InventoryItem, error) {
	var out []*entity.InventoryItem
	r.s.view(r.tx, func(st *state) {
		for _, it := range sortedItems(st) {
			if f.Active != nil && it.Active != *f.Active {
				continue
			}
			if f.Category != "" && !strings.EqualFold(it.Category, f.Category) {
				continue
			}
			if f.Status != nil && it.Status != *f.Status {
				continue
			}
			out = append(out, it.Clone())
		}
	})
	return paginate(out, f.Limit, f.Offset), nil
}

func (r *ItemRepo) Search(_ context.Context, searchKey string, limit int) ([]*entity.InventoryItem, error) {
	var out []*entity.InventoryItem
	r.s.view(r.tx, func(st *state) {
		for _, it := range sortedItems(st) {
			if strings.Contains(it.SearchKey, searchKey) {
				out = append(out, it.Clone())
			}
		}
	})
	return paginate(out, limit, 0), nil
}

func (r *ItemRepo) ListActiveIDs(_ context.Context) ([]string, error) {
	var out []string
	r.s.view(r.tx, func(st *state) {
		for _, it := range sortedItems(st) {
			if it.Active {
				out = append(out, it.ID)
			}
		}
	})
	return out, nil
}

// Delete replica las restricciones de la BD: movimientos y detalles de órdenes impiden el borrado;
// las alertas se eliminan en cascada.
func (r *ItemRepo) Delete(_ context.Context, id string) error {
	return r.s.update(r.tx, func(st *state) error {
		if _, ok := st.items[id]; !ok {
			return domain.ErrNotFound
		}
		for _, m := range st.movements {
			if m.ItemID == id {
				return domain.ErrConflict
			}
		}
		for _, o := range st.orders {
			for _, d := range o.Details {
				if d.ItemID == id {
					return domain.ErrConflict
				}
			}
		}
		delete(st.items, id)
		kept := st.alerts[:0]
		for _, a := range st.alerts {
			if a.ItemID != id {
				kept = append(kept, a)
			}
		}
		st.alerts = kept
		return nil
	})
}

func (r *ItemRepo) CountByStatus(_ context.Context) ([]repository.StatusCount, error) {
	counts := map[entity.ItemStatus]int{}
	r.s.view(r.tx, func(st *state) {
		for _, it := range st.items {
			if it.Active {
				counts[it.Status]++
			}
		}
	})
	out := make([]repository.StatusCount, 0, len(counts))
	for s, c := range counts {
		out = append(out, repository.StatusCount{Status: s, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out, nil
}

func (r *ItemRepo) Totals(_ context.Context) (total, active int, value decimal.Decimal, err error) {
	r.s.view(r.tx, func(st *state) {
		for _, it := range st.items {
			total++
			if it.Active {
				active++
				value = value.Add(it.TotalValue)
			}
		}
	})
	return total, active, value, nil
}

func sortedItems(st *state) []*entity.InventoryItem {
	out := make([]*entity.InventoryItem, 0, len(st.items))
	for _, it := range st.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset > len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
