package repository

import (
	"context"

	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
)

// RecipeRepository catálogo de recetas (solo lectura para el núcleo).
type RecipeRepository interface {
	// GetByID devuelve la receta con sus detalles ordenados por secuencia; (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Recipe, error)
}

// ParcelRepository registro de lotes (solo lectura).
type ParcelRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Parcel, error)
}
