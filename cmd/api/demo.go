package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/AgroOrdenes-api/internal/application/dto"
	"github.com/jhoicas/AgroOrdenes-api/internal/application/inventory"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
	"github.com/jhoicas/AgroOrdenes-api/internal/infrastructure/memory"
)

type demoItem struct {
	code, name, category, unit string
	stock, min, max, cost      int64
}

var demoItems = []demoItem{
	{"FER-UREA", "Urea 46%", "Fertilizantes", "kg", 500, 100, 1000, 3200},
	{"FER-DAP", "Fosfato diamónico", "Fertilizantes", "kg", 300, 80, 600, 4100},
	{"FUN-MANC", "Mancozeb 80 WP", "Fungicidas", "kg", 40, 10, 80, 28000},
	{"INS-CLOR", "Clorpirifos 48 EC", "Insecticidas", "L", 12, 5, 30, 46000},
}

// seedDemo carga lotes, usuarios, insumos y recetas de ejemplo en el store en memoria.
// Los insumos se crean con el caso de uso para que el stock inicial quede como ENTRADA.
func seedDemo(ctx context.Context, mem *memory.Store, items *inventory.ItemUseCase) error {
	mem.PutParcel(&entity.Parcel{ID: "lote-norte", Name: "Lote Norte", AreaHa: decimal.NewFromInt(12), Active: true})
	mem.PutParcel(&entity.Parcel{ID: "lote-sur", Name: "Lote Sur", AreaHa: decimal.RequireFromString("8.5"), Active: true})
	mem.PutUser(&entity.User{ID: "u-admin", Name: "Administrador", Role: entity.RoleAdmin, Active: true})
	mem.PutUser(&entity.User{ID: "u-agro", Name: "Laura Gómez", Role: entity.RoleAgronomo, Active: true})
	mem.PutUser(&entity.User{ID: "u-bodega", Name: "Carlos Ruiz", Role: entity.RoleBodeguero, Active: true})
	mem.PutUser(&entity.User{ID: "u-oper", Name: "Pedro Díaz", Role: entity.RoleOperario, Active: true})

	ids := make(map[string]string, len(demoItems))
	for _, d := range demoItems {
		out, err := items.Create(ctx, "u-bodega", dto.CreateItemRequest{
			Code:         d.code,
			Name:         d.name,
			Category:     d.category,
			Unit:         d.unit,
			InitialStock: decimal.NewFromInt(d.stock),
			StockMin:     decimal.NewFromInt(d.min),
			StockMax:     decimal.NewFromInt(d.max),
			UnitCost:     decimal.NewFromInt(d.cost),
		})
		if err != nil {
			return fmt.Errorf("insumo %s: %w", d.code, err)
		}
		ids[d.code] = out.ID
	}

	mem.PutRecipe(demoRecipe("rec-fertilizacion", "Fertilización de mantenimiento", "desarrollo", ids, []demoDose{
		{"FER-UREA", "25", "kg/ha"},
		{"FER-DAP", "15", "kg/ha"},
	}))
	mem.PutRecipe(demoRecipe("rec-sanidad", "Control preventivo de hongos", "floración", ids, []demoDose{
		{"FUN-MANC", "2.5", "kg/ha"},
		{"INS-CLOR", "0.8", "L/ha"},
	}))
	return nil
}

type demoDose struct {
	code, dose, unit string
}

func demoRecipe(id, name, stage string, ids map[string]string, doses []demoDose) *entity.Recipe {
	r := &entity.Recipe{ID: id, Name: name, Stage: stage, Active: true}
	for i, d := range doses {
		r.Details = append(r.Details, entity.RecipeDetail{
			ID:              fmt.Sprintf("%s-%d", id, i+1),
			RecipeID:        id,
			ItemID:          ids[d.code],
			DosePerAreaUnit: decimal.RequireFromString(d.dose),
			Unit:            d.unit,
			Sequence:        i + 1,
		})
	}
	return r
}
