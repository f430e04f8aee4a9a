package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest entrada para crear una orden de aplicación a partir de una receta.
type CreateOrderRequest struct {
	ParcelID        string          `json:"parcel_id" validate:"required"`
	RecipeID        string          `json:"recipe_id" validate:"required"`
	AreaApplied     decimal.Decimal `json:"area_applied"`
	OperatorID      string          `json:"operator_id,omitempty"`
	ApplicationDate *time.Time      `json:"application_date,omitempty"`
	Observations    string          `json:"observations,omitempty" validate:"max=1000"`
}

// UpdateOrderRequest cambios permitidos sobre una orden PENDIENTE.
// State solo acepta ANULADA; el paso a APLICADA se hace exclusivamente con el cierre.
type UpdateOrderRequest struct {
	AreaApplied     *decimal.Decimal `json:"area_applied"`
	ApplicationDate *time.Time       `json:"application_date"`
	OperatorID      *string          `json:"operator_id"`
	Observations    *string          `json:"observations" validate:"omitempty,max=1000"`
	State           *string          `json:"state" validate:"omitempty,oneof=PENDIENTE APLICADA ANULADA"`
}

// CancelOrderRequest motivo opcional de anulación; se agrega a las observaciones.
type CancelOrderRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// ValidateStockRequest consulta de disponibilidad para aplicar una receta sobre un área.
type ValidateStockRequest struct {
	RecipeID    string          `json:"recipe_id" validate:"required"`
	AreaApplied decimal.Decimal `json:"area_applied"`
}

// OrderDetailResponse línea de consumo de la orden.
type OrderDetailResponse struct {
	ID               string          `json:"id"`
	ItemID           string          `json:"item_id"`
	ItemName         string          `json:"item_name,omitempty"`
	ComputedQuantity decimal.Decimal `json:"computed_quantity"`
	Unit             string          `json:"unit"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	TotalCost        decimal.Decimal `json:"total_cost"`
}

// OrderResponse salida de una orden con sus detalles.
type OrderResponse struct {
	ID              string                `json:"id"`
	ParcelID        string                `json:"parcel_id"`
	RecipeID        string                `json:"recipe_id"`
	AreaApplied     decimal.Decimal       `json:"area_applied"`
	CreatedAt       time.Time             `json:"created_at"`
	ApplicationDate *time.Time            `json:"application_date,omitempty"`
	OperatorID      string                `json:"operator_id,omitempty"`
	State           string                `json:"state"`
	Observations    string                `json:"observations,omitempty"`
	TotalCost       decimal.Decimal       `json:"total_cost"`
	UpdatedAt       time.Time             `json:"updated_at"`
	Details         []OrderDetailResponse `json:"details"`
}

// OrderListResponse lista paginada de órdenes.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// RequirementDTO cantidad requerida de un insumo para una receta y área.
type RequirementDTO struct {
	ItemID    string          `json:"item_id"`
	ItemName  string          `json:"item_name"`
	Unit      string          `json:"unit"`
	Required  decimal.Decimal `json:"required"`
	Available decimal.Decimal `json:"available"`
}

// StockValidationResponse resultado de validar stock. Valid es false si hay al menos un faltante.
type StockValidationResponse struct {
	Valid        bool             `json:"valid"`
	Requirements []RequirementDTO `json:"requirements"`
	Shortfalls   []ShortfallDTO   `json:"shortfalls"`
}

// OrderStatsResponse estadísticas de órdenes por fecha de aplicación.
type OrderStatsResponse struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	Total        int             `json:"total"`
	CountByState map[string]int  `json:"count_by_state"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	TotalArea    decimal.Decimal `json:"total_area"`
	CostPerArea  decimal.Decimal `json:"cost_per_area"`
}

// ListOrdersQuery filtros del listado de órdenes. From/To filtran por fecha de creación;
// Text busca en observaciones, nombre del lote y nombre de la receta.
type ListOrdersQuery struct {
	ParcelID string
	RecipeID string
	State    string
	From     *time.Time
	To       *time.Time
	Text     string
	Page     PageRequest
}
