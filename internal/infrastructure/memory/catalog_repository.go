package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/repository"
)

var (
	_ repository.RecipeRepository = (*RecipeReader)(nil)
	_ repository.ParcelRepository = (*ParcelReader)(nil)
	_ repository.UserRepository   = (*UserReader)(nil)
)

// Lectores del catálogo externo: recetas, lotes y usuarios.
type (
	RecipeReader struct{ s *Store }
	ParcelReader struct{ s *Store }
	UserReader   struct{ s *Store }
)

func (r *RecipeReader) GetByID(_ context.Context, id string) (*entity.Recipe, error) {
	var out *entity.Recipe
	r.s.view(nil, func(st *state) {
		if rc, ok := st.recipes[id]; ok {
			cp := *rc
			cp.Details = append([]entity.RecipeDetail(nil), rc.Details...)
			sort.SliceStable(cp.Details, func(i, j int) bool { return cp.Details[i].Sequence < cp.Details[j].Sequence })
			out = &cp
		}
	})
	return out, nil
}

func (r *ParcelReader) GetByID(_ context.Context, id string) (*entity.Parcel, error) {
	var out *entity.Parcel
	r.s.view(nil, func(st *state) {
		if p, ok := st.parcels[id]; ok {
			cp := *p
			out = &cp
		}
	})
	return out, nil
}

func (r *UserReader) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	r.s.view(nil, func(st *state) {
		if u, ok := st.users[id]; ok {
			cp := *u
			out = &cp
		}
	})
	return out, nil
}
