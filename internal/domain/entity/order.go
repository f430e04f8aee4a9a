package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderState estado de una orden de aplicación.
// Transiciones válidas: PENDIENTE → APLICADA y PENDIENTE → ANULADA. Los estados finales no tienen salida.
type OrderState uint8

const (
	OrderPending OrderState = iota + 1
	OrderApplied
	OrderCancelled
)

var orderStateNames = map[OrderState]string{
	OrderPending:   "PENDIENTE",
	OrderApplied:   "APLICADA",
	OrderCancelled: "ANULADA",
}

func (s OrderState) String() string {
	if n, ok := orderStateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("OrderState(%d)", uint8(s))
}

// ParseOrderState convierte el nombre (API o BD) al enum.
func ParseOrderState(s string) (OrderState, error) {
	for k, v := range orderStateNames {
		if v == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("estado de orden desconocido: %q", s)
}

func (s OrderState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *OrderState) UnmarshalText(b []byte) error {
	v, err := ParseOrderState(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// CanTransitionTo indica si la transición s → next es válida.
func (s OrderState) CanTransitionTo(next OrderState) bool {
	switch s {
	case OrderPending:
		return next == OrderApplied || next == OrderCancelled
	case OrderApplied, OrderCancelled:
		return false
	default:
		return false
	}
}

// Order orden de aplicación de una receta sobre un lote.
// TotalCost = Σ Details[i].TotalCost; los detalles son una instantánea inmutable tomada al crear la orden.
type Order struct {
	ID              string
	ParcelID        string
	RecipeID        string
	AreaApplied     decimal.Decimal
	CreatedAt       time.Time
	ApplicationDate *time.Time // fecha programada; al cerrar se fija a la fecha real
	OperatorID      string
	State           OrderState
	Observations    string
	TotalCost       decimal.Decimal
	UpdatedAt       time.Time
	Details         []OrderDetail
}

// OrderDetail línea de consumo de un insumo en la orden.
type OrderDetail struct {
	ID               string
	OrderID          string
	ItemID           string
	ComputedQuantity decimal.Decimal // dosis × área
	Unit             string
	UnitCost         decimal.Decimal // costo del insumo al crear la orden
	TotalCost        decimal.Decimal
}

// Clone copia profunda de la orden y sus detalles.
func (o *Order) Clone() *Order {
	c := *o
	if o.ApplicationDate != nil {
		d := *o.ApplicationDate
		c.ApplicationDate = &d
	}
	c.Details = append([]OrderDetail(nil), o.Details...)
	return &c
}
