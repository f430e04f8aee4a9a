package entity

import "github.com/shopspring/decimal"

// Parcel lote de la finca (registro externo; el núcleo solo verifica existencia y estado activo).
type Parcel struct {
	ID     string
	Name   string
	AreaHa decimal.Decimal
	Active bool
}
