package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/repository"
)

// MovementRepo implementación en memoria, append-only.
type MovementRepo struct {
	s  *Store
	tx *state
}

var _ repository.MovementRepository = (*MovementRepo)(nil)

func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	return r.s.update(r.tx, func(st *state) error {
		cp := *m
		st.movements = append(st.movements, &cp)
		return nil
	})
}

func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	var out *entity.Movement
	r.s.view(r.tx, func(st *state) {
		for _, m := range st.movements {
			if m.ID == id {
				cp := *m
				out = &cp
				return
			}
		}
	})
	return out, nil
}

// List más recientes primero.
func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	r.s.view(r.tx, func(st *state) {
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if f.ItemID != "" && m.ItemID != f.ItemID {
				continue
			}
			if f.Type != nil && m.Type != *f.Type {
				continue
			}
			if f.From != nil && m.CreatedAt.Before(*f.From) {
				continue
			}
			if f.To != nil && m.CreatedAt.After(*f.To) {
				continue
			}
			cp := *m
			out = append(out, &cp)
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, f.Limit, f.Offset), nil
}

func (r *MovementRepo) CountByItem(_ context.Context, itemID string) (int, error) {
	n := 0
	r.s.view(r.tx, func(st *state) {
		for _, m := range st.movements {
			if m.ItemID == itemID {
				n++
			}
		}
	})
	return n, nil
}

func (r *MovementRepo) ConsumptionByItem(_ context.Context, from, to time.Time) (map[string]decimal.Decimal, error) {
	out := map[string]decimal.Decimal{}
	r.s.view(r.tx, func(st *state) {
		for _, m := range st.movements {
			if m.Type != entity.MovementExit || m.CreatedAt.Before(from) || m.CreatedAt.After(to) {
				continue
			}
			out[m.ItemID] = out[m.ItemID].Add(m.Quantity)
		}
	})
	return out, nil
}
