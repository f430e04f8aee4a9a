package orders

import (
	"context"
	"fmt"

	"github.com/jhoicas/AgroOrdenes-api/internal/domain"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/repository"
)

// SheetUseCase genera la hoja de aplicación (PDF) que el operario lleva a campo.
type SheetUseCase struct {
	orderRepo  repository.OrderRepository
	itemRepo   repository.ItemRepository
	recipeRepo repository.RecipeRepository
	parcelRepo repository.ParcelRepository
	userRepo   repository.UserRepository
	generator  SheetGenerator
}

// NewSheetUseCase construye el caso de uso inyectando todas sus dependencias.
func NewSheetUseCase(
	orderRepo repository.OrderRepository,
	itemRepo repository.ItemRepository,
	recipeRepo repository.RecipeRepository,
	parcelRepo repository.ParcelRepository,
	userRepo repository.UserRepository,
	generator SheetGenerator,
) *SheetUseCase {
	return &SheetUseCase{
		orderRepo:  orderRepo,
		itemRepo:   itemRepo,
		recipeRepo: recipeRepo,
		parcelRepo: parcelRepo,
		userRepo:   userRepo,
		generator:  generator,
	}
}

// DownloadOrderSheet arma los datos de la orden, lote, receta y operario y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound        si la orden no existe.
func (uc *SheetUseCase) DownloadOrderSheet(ctx context.Context, orderID string) (pdfBytes []byte, filename string, err error) {
	// ── 1. Cargar orden ───────────────────────────────────────────────────────
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, "", fmt.Errorf("hoja: obtener orden: %w", err)
	}
	if order == nil {
		return nil, "", domain.ErrNotFound
	}

	// ── 2. Lote y receta ──────────────────────────────────────────────────────
	parcel, err := uc.parcelRepo.GetByID(ctx, order.ParcelID)
	if err != nil {
		return nil, "", fmt.Errorf("hoja: obtener lote: %w", err)
	}
	recipe, err := uc.recipeRepo.GetByID(ctx, order.RecipeID)
	if err != nil {
		return nil, "", fmt.Errorf("hoja: obtener receta: %w", err)
	}
	if parcel == nil || recipe == nil {
		return nil, "", fmt.Errorf("%w: lote o receta de la orden", domain.ErrNotFound)
	}

	// ── 3. Operario (opcional) ────────────────────────────────────────────────
	sheet := OrderSheet{Order: order, Parcel: parcel, Recipe: recipe}
	if order.OperatorID != "" {
		if sheet.Operator, err = uc.userRepo.GetByID(ctx, order.OperatorID); err != nil {
			return nil, "", fmt.Errorf("hoja: obtener operario: %w", err)
		}
	}

	// ── 4. Líneas: detalle de la orden + dosis de la receta ───────────────────
	ids := make([]string, 0, len(order.Details))
	for _, d := range order.Details {
		ids = append(ids, d.ItemID)
	}
	items, err := uc.itemRepo.GetMany(ctx, ids)
	if err != nil {
		return nil, "", fmt.Errorf("hoja: obtener insumos: %w", err)
	}
	used := make(map[int]bool, len(recipe.Details))
	for i, d := range order.Details {
		line := SheetLine{
			Sequence:  i + 1,
			ItemCode:  d.ItemID,
			ItemName:  d.ItemID,
			Unit:      d.Unit,
			Quantity:  d.ComputedQuantity,
			UnitCost:  d.UnitCost,
			TotalCost: d.TotalCost,
		}
		if it, ok := items[d.ItemID]; ok {
			line.ItemCode, line.ItemName = it.Code, it.Name
		}
		for j, rd := range recipe.Details {
			if rd.ItemID == d.ItemID && !used[j] {
				used[j] = true
				line.Sequence, line.Dose = rd.Sequence, rd.DosePerAreaUnit
				break
			}
		}
		sheet.Lines = append(sheet.Lines, line)
	}

	// ── 5. Generar PDF ────────────────────────────────────────────────────────
	pdfBytes, err = uc.generator.GenerateOrderSheet(ctx, sheet)
	if err != nil {
		return nil, "", fmt.Errorf("hoja: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("orden_%s.pdf", shortID(order.ID)), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
