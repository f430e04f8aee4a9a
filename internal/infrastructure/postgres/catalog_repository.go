package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/repository"
)

var (
	_ repository.RecipeRepository = (*RecipeRepo)(nil)
	_ repository.ParcelRepository = (*ParcelRepo)(nil)
)

// RecipeRepo lectura del catálogo de recetas.
type RecipeRepo struct{ q Querier }

func NewRecipeRepository(q Querier) *RecipeRepo { return &RecipeRepo{q: q} }

// GetByID devuelve la receta con sus detalles ordenados por secuencia.
func (r *RecipeRepo) GetByID(ctx context.Context, id string) (*entity.Recipe, error) {
	var rc entity.Recipe
	err := r.q.QueryRow(ctx, `SELECT id, crop_id, name, stage, active, created_at FROM recipes WHERE id = $1`, id).
		Scan(&rc.ID, &rc.CropID, &rc.Name, &rc.Stage, &rc.Active, &rc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, recipe_id, item_id, dose_per_area_unit, unit, sequence
		FROM recipe_details WHERE recipe_id = $1 ORDER BY sequence, id`, id)
	if err != nil {
		return nil, fmt.Errorf("list recipe details: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d entity.RecipeDetail
		if err := rows.Scan(&d.ID, &d.RecipeID, &d.ItemID, &d.DosePerAreaUnit, &d.Unit, &d.Sequence); err != nil {
			return nil, fmt.Errorf("scan recipe detail: %w", err)
		}
		rc.Details = append(rc.Details, d)
	}
	return &rc, rows.Err()
}

// ParcelRepo lectura del registro de lotes.
type ParcelRepo struct{ q Querier }

func NewParcelRepository(q Querier) *ParcelRepo { return &ParcelRepo{q: q} }

func (r *ParcelRepo) GetByID(ctx context.Context, id string) (*entity.Parcel, error) {
	var p entity.Parcel
	err := r.q.QueryRow(ctx, `SELECT id, name, area_ha, active FROM parcels WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.AreaHa, &p.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get parcel: %w", err)
	}
	return &p, nil
}
