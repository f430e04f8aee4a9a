package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ItemStatus estado derivado de un insumo (stock y vencimiento).
type ItemStatus uint8

const (
	ItemStatusAvailable ItemStatus = iota + 1
	ItemStatusLow
	ItemStatusCritical
	ItemStatusDepleted
	ItemStatusSoonExpire
	ItemStatusExpired
)

var itemStatusNames = map[ItemStatus]string{
	ItemStatusAvailable:  "DISPONIBLE",
	ItemStatusLow:        "BAJO",
	ItemStatusCritical:   "CRITICO",
	ItemStatusDepleted:   "AGOTADO",
	ItemStatusSoonExpire: "PROXIMO_VENCER",
	ItemStatusExpired:    "VENCIDO",
}

func (s ItemStatus) String() string {
	if n, ok := itemStatusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("ItemStatus(%d)", uint8(s))
}

// ParseItemStatus convierte el nombre persistido al enum.
func ParseItemStatus(s string) (ItemStatus, error) {
	for k, v := range itemStatusNames {
		if v == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("estado de insumo desconocido: %q", s)
}

func (s ItemStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *ItemStatus) UnmarshalText(b []byte) error {
	v, err := ParseItemStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// InventoryItem insumo agrícola en bodega (agroquímico, fertilizante, semilla...).
// StockCurrent solo cambia a través del registro de movimientos; Status y TotalValue son derivados.
type InventoryItem struct {
	ID             string
	Code           string // único
	Name           string
	Category       string
	Unit           string
	StockCurrent   decimal.Decimal
	StockMin       decimal.Decimal
	StockMax       decimal.Decimal
	UnitCost       decimal.Decimal
	TotalValue     decimal.Decimal
	ExpirationDate *time.Time
	Status         ItemStatus
	Active         bool
	SearchKey      string // code + name normalizados para búsqueda sin acentos
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DaysToExpire días calendario hasta el vencimiento (negativo si ya venció).
// ok es false cuando el insumo no tiene fecha de vencimiento.
func (i *InventoryItem) DaysToExpire(now time.Time) (days int, ok bool) {
	if i.ExpirationDate == nil {
		return 0, false
	}
	exp := i.ExpirationDate.In(now.Location())
	expDay := time.Date(exp.Year(), exp.Month(), exp.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(expDay.Sub(today).Hours() / 24), true
}

// Clone copia profunda (la fecha de vencimiento es puntero).
func (i *InventoryItem) Clone() *InventoryItem {
	c := *i
	if i.ExpirationDate != nil {
		d := *i.ExpirationDate
		c.ExpirationDate = &d
	}
	return &c
}
