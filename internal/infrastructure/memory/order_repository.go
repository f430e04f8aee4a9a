package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/AgroOrdenes-api/internal/domain"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/repository"
	"github.com/jhoicas/AgroOrdenes-api/pkg/textnorm"
)

// OrderRepo implementación en memoria de OrderRepository.
type OrderRepo struct {
	s  *Store
	tx *state
}

var _ repository.OrderRepository = (*OrderRepo)(nil)

func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	return r.s.update(r.tx, func(st *state) error {
		if _, ok := st.orders[o.ID]; ok {
			return domain.ErrDuplicate
		}
		st.orders[o.ID] = o.Clone()
		return nil
	})
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	r.s.view(r.tx, func(st *state) {
		if o, ok := st.orders[id]; ok {
			out = o.Clone()
		}
	})
	return out, nil
}

func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

// Update solo cabecera: los detalles almacenados se conservan.
func (r *OrderRepo) Update(_ context.Context, o *entity.Order) error {
	return r.s.update(r.tx, func(st *state) error {
		cur, ok := st.orders[o.ID]
		if !ok {
			return domain.ErrNotFound
		}
		next := o.Clone()
		next.Details = cur.Details
		next.CreatedAt = cur.CreatedAt
		st.orders[o.ID] = next
		return nil
	})
}

func (r *OrderRepo) Delete(_ context.Context, id string) error {
	return r.s.update(r.tx, func(st *state) error {
		if _, ok := st.orders[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.orders, id)
		return nil
	})
}

// List más recientes primero; From/To filtran por fecha de creación.
func (r *OrderRepo) List(_ context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	text := textnorm.Fold(f.SearchText)
	var out []*entity.Order
	r.s.view(r.tx, func(st *state) {
		for _, o := range st.orders {
			if f.ParcelID != "" && o.ParcelID != f.ParcelID {
				continue
			}
			if f.RecipeID != "" && o.RecipeID != f.RecipeID {
				continue
			}
			if f.State != nil && o.State != *f.State {
				continue
			}
			if f.From != nil && o.CreatedAt.Before(*f.From) {
				continue
			}
			if f.To != nil && o.CreatedAt.After(*f.To) {
				continue
			}
			if text != "" && !strings.Contains(searchText(st, o), text) {
				continue
			}
			out = append(out, o.Clone())
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, f.Limit, f.Offset), nil
}

// searchText texto buscable de la orden: observaciones, lote y receta.
func searchText(st *state, o *entity.Order) string {
	parts := []string{o.Observations}
	if p, ok := st.parcels[o.ParcelID]; ok {
		parts = append(parts, p.Name)
	}
	if rc, ok := st.recipes[o.RecipeID]; ok {
		parts = append(parts, rc.Name)
	}
	return textnorm.Fold(strings.Join(parts, " "))
}

func (r *OrderRepo) ListAppliedByParcel(_ context.Context, parcelID string) ([]*entity.Order, error) {
	var out []*entity.Order
	r.s.view(r.tx, func(st *state) {
		for _, o := range st.orders {
			if o.ParcelID == parcelID && o.State == entity.OrderApplied {
				out = append(out, o.Clone())
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return appDate(out[i]).After(appDate(out[j])) })
	return out, nil
}

func (r *OrderRepo) AggregateByState(_ context.Context, from, to time.Time) ([]repository.StateAggregate, error) {
	agg := map[entity.OrderState]*repository.StateAggregate{}
	r.s.view(r.tx, func(st *state) {
		for _, o := range st.orders {
			if o.ApplicationDate == nil || o.ApplicationDate.Before(from) || o.ApplicationDate.After(to) {
				continue
			}
			a, ok := agg[o.State]
			if !ok {
				a = &repository.StateAggregate{State: o.State, TotalCost: decimal.Zero, TotalArea: decimal.Zero}
				agg[o.State] = a
			}
			a.Count++
			a.TotalCost = a.TotalCost.Add(o.TotalCost)
			a.TotalArea = a.TotalArea.Add(o.AreaApplied)
		}
	})
	out := make([]repository.StateAggregate, 0, len(agg))
	for _, a := range agg {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].State < out[j].State })
	return out, nil
}

func (r *OrderRepo) CountOpenByItem(_ context.Context, itemID string) (int, error) {
	n := 0
	r.s.view(r.tx, func(st *state) {
		for _, o := range st.orders {
			if o.State == entity.OrderCancelled {
				continue
			}
			for _, d := range o.Details {
				if d.ItemID == itemID {
					n++
					break
				}
			}
		}
	})
	return n, nil
}

func appDate(o *entity.Order) time.Time {
	if o.ApplicationDate != nil {
		return *o.ApplicationDate
	}
	return o.CreatedAt
}
