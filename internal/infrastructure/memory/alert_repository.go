package memory

import (
	"context"

	"github.com/jhoicas/AgroOrdenes-api/internal/domain"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/repository"
)

// AlertRepo implementación en memoria de AlertRepository.
type AlertRepo struct {
	s  *Store
	tx *state
}

var _ repository.AlertRepository = (*AlertRepo)(nil)

func (r *AlertRepo) ReplaceForItem(_ context.Context, itemID string, alerts []entity.Alert) error {
	return r.s.update(r.tx, func(st *state) error {
		kept := make([]*entity.Alert, 0, len(st.alerts)+len(alerts))
		for _, a := range st.alerts {
			if a.ItemID != itemID {
				kept = append(kept, a)
			}
		}
		for i := range alerts {
			a := alerts[i]
			kept = append(kept, &a)
		}
		st.alerts = kept
		return nil
	})
}

// List más recientes primero.
func (r *AlertRepo) List(_ context.Context, read *bool, limit, offset int) ([]*entity.Alert, error) {
	var out []*entity.Alert
	r.s.view(r.tx, func(st *state) {
		for i := len(st.alerts) - 1; i >= 0; i-- {
			a := st.alerts[i]
			if read != nil && a.Read != *read {
				continue
			}
			cp := *a
			out = append(out, &cp)
		}
	})
	return paginate(out, limit, offset), nil
}

func (r *AlertRepo) ListByItem(_ context.Context, itemID string) ([]*entity.Alert, error) {
	var out []*entity.Alert
	r.s.view(r.tx, func(st *state) {
		for _, a := range st.alerts {
			if a.ItemID == itemID {
				cp := *a
				out = append(out, &cp)
			}
		}
	})
	return out, nil
}

func (r *AlertRepo) MarkRead(_ context.Context, id string) error {
	return r.s.update(r.tx, func(st *state) error {
		for _, a := range st.alerts {
			if a.ID == id {
				a.Read = true
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

func (r *AlertRepo) CountUnread(_ context.Context) (int, error) {
	n := 0
	r.s.view(r.tx, func(st *state) {
		for _, a := range st.alerts {
			if !a.Read {
				n++
			}
		}
	})
	return n, nil
}
