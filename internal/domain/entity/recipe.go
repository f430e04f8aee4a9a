package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe receta de tratamiento para un cultivo en una etapa (catálogo externo, solo lectura).
type Recipe struct {
	ID        string
	CropID    string
	Name      string
	Stage     string
	Active    bool
	Details   []RecipeDetail // ordenados por Sequence
	CreatedAt time.Time
}

// RecipeDetail dosis de un insumo por unidad de área (p. ej. kg/ha).
type RecipeDetail struct {
	ID              string
	RecipeID        string
	ItemID          string
	DosePerAreaUnit decimal.Decimal
	Unit            string
	Sequence        int
}
