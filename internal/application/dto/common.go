package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/AgroOrdenes-api/internal/domain"
)

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=0,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP. Details lista los faltantes cuando el error es de stock.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details []ShortfallDTO `json:"details,omitempty"`
}

// ShortfallDTO faltante de un insumo.
type ShortfallDTO struct {
	ItemID    string          `json:"item_id"`
	ItemName  string          `json:"item_name"`
	Unit      string          `json:"unit,omitempty"`
	Required  decimal.Decimal `json:"required"`
	Available decimal.Decimal `json:"available"`
	Deficit   decimal.Decimal `json:"deficit"`
}

// ShortfallsFrom mapea los faltantes del dominio; nunca devuelve nil.
func ShortfallsFrom(list []domain.Shortfall) []ShortfallDTO {
	out := make([]ShortfallDTO, 0, len(list))
	for _, s := range list {
		out = append(out, ShortfallDTO{
			ItemID:    s.ItemID,
			ItemName:  s.ItemName,
			Unit:      s.Unit,
			Required:  s.Required,
			Available: s.Available,
			Deficit:   s.Deficit,
		})
	}
	return out
}
