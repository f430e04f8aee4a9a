package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un insumo. InitialStock se registra como movimiento de ENTRADA.
type CreateItemRequest struct {
	Code           string          `json:"code" validate:"required,min=1,max=50"`
	Name           string          `json:"name" validate:"required,min=1,max=200"`
	Category       string          `json:"category" validate:"max=100"`
	Unit           string          `json:"unit" validate:"required,max=20"`
	InitialStock   decimal.Decimal `json:"initial_stock"`
	StockMin       decimal.Decimal `json:"stock_min"`
	StockMax       decimal.Decimal `json:"stock_max"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
}

// UpdateItemRequest entrada para actualizar un insumo. El stock no se modifica aquí (solo vía movimientos).
type UpdateItemRequest struct {
	Name            *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Category        *string          `json:"category" validate:"omitempty,max=100"`
	Unit            *string          `json:"unit" validate:"omitempty,min=1,max=20"`
	StockMin        *decimal.Decimal `json:"stock_min"`
	StockMax        *decimal.Decimal `json:"stock_max"`
	UnitCost        *decimal.Decimal `json:"unit_cost"`
	ExpirationDate  *time.Time       `json:"expiration_date"`
	ClearExpiration bool             `json:"clear_expiration"`
	Active          *bool            `json:"active"`
}

// ItemResponse salida de un insumo con sus campos derivados.
type ItemResponse struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Unit           string          `json:"unit"`
	StockCurrent   decimal.Decimal `json:"stock_current"`
	StockMin       decimal.Decimal `json:"stock_min"`
	StockMax       decimal.Decimal `json:"stock_max"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	TotalValue     decimal.Decimal `json:"total_value"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
	DaysToExpire   *int            `json:"days_to_expire,omitempty"`
	Status         string          `json:"status"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ItemDetailResponse insumo con sus movimientos recientes y alertas vigentes.
type ItemDetailResponse struct {
	ItemResponse
	RecentMovements []MovementResponse `json:"recent_movements"`
	Alerts          []AlertResponse    `json:"alerts"`
}

// ItemListResponse lista paginada de insumos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// RegisterMovementRequest body para POST /api/inventory/movements.
// UnitCost solo aplica a ENTRADA (recalcula el costo promedio ponderado).
type RegisterMovementRequest struct {
	ItemID    string           `json:"item_id" validate:"required"`
	Type      string           `json:"type" validate:"required,oneof=ENTRADA SALIDA AJUSTE DEVOLUCION MERMA TRASLADO"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason    string           `json:"reason" validate:"max=500"`
	Reference string           `json:"reference" validate:"max=200"`
}

// MovementResponse salida de un movimiento de inventario.
type MovementResponse struct {
	ID          string          `json:"id"`
	ItemID      string          `json:"item_id"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	StockBefore decimal.Decimal `json:"stock_before"`
	StockAfter  decimal.Decimal `json:"stock_after"`
	Reason      string          `json:"reason,omitempty"`
	Reference   string          `json:"reference,omitempty"`
	CreatedBy   string          `json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// AlertResponse salida de una alerta.
type AlertResponse struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Priority  string    `json:"priority"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// AlertListResponse lista paginada de alertas.
type AlertListResponse struct {
	Items []AlertResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// InventoryStatsResponse resumen del inventario.
type InventoryStatsResponse struct {
	TotalItems   int             `json:"total_items"`
	ActiveItems  int             `json:"active_items"`
	TotalValue   decimal.Decimal `json:"total_value"`
	ByStatus     map[string]int  `json:"by_status"`
	UnreadAlerts int             `json:"unread_alerts"`
	ExpiringSoon int             `json:"expiring_soon"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un insumo bajo su mínimo.
type ReplenishmentSuggestionDTO struct {
	ItemID             string          `json:"item_id"`
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	Unit               string          `json:"unit"`
	Status             string          `json:"status"`
	CurrentStock       decimal.Decimal `json:"current_stock"`
	StockMin           decimal.Decimal `json:"stock_min"`
	TargetStock        decimal.Decimal `json:"target_stock"`         // StockMax, o 2 × StockMin si no hay máximo
	SuggestedOrderQty  decimal.Decimal `json:"suggested_order_qty"`  // TargetStock - CurrentStock
	UnitCost           decimal.Decimal `json:"unit_cost"`            // costo promedio ponderado
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	ConsumedLast90Days decimal.Decimal `json:"consumed_last_90d"`
	Priority           int             `json:"priority"` // 1 = más urgente
}
