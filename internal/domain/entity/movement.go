package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento de inventario (conjunto cerrado).
type MovementType uint8

const (
	MovementEntry MovementType = iota + 1 // entrada (compra)
	MovementExit                          // salida (consumo, aplicación de orden)
	MovementAdjustment                    // ajuste a valor absoluto (conteo físico)
	MovementReturn                        // devolución a bodega
	MovementWaste                         // merma
	MovementTransfer                      // traslado saliente a otra bodega/finca
)

var movementTypeNames = map[MovementType]string{
	MovementEntry:      "ENTRADA",
	MovementExit:       "SALIDA",
	MovementAdjustment: "AJUSTE",
	MovementReturn:     "DEVOLUCION",
	MovementWaste:      "MERMA",
	MovementTransfer:   "TRASLADO",
}

func (t MovementType) String() string {
	if n, ok := movementTypeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("MovementType(%d)", uint8(t))
}

// ParseMovementType convierte el nombre (API o BD) al enum; nombres desconocidos son error.
func ParseMovementType(s string) (MovementType, error) {
	for k, v := range movementTypeNames {
		if v == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("tipo de movimiento desconocido: %q", s)
}

func (t MovementType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *MovementType) UnmarshalText(b []byte) error {
	v, err := ParseMovementType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Movement registro inmutable de un cambio de stock (auditoría append-only).
type Movement struct {
	ID          string
	ItemID      string
	Type        MovementType
	Quantity    decimal.Decimal // siempre positiva; para AJUSTE es el valor absoluto contado
	UnitCost    decimal.Decimal // costo unitario vigente al momento del movimiento
	TotalCost   decimal.Decimal
	StockBefore decimal.Decimal
	StockAfter  decimal.Decimal
	Reason      string
	Reference   string // p. ej. ID de la orden de aplicación o destino del traslado
	CreatedBy   string
	CreatedAt   time.Time
}
