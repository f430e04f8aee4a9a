package entity

import (
	"fmt"
	"time"
)

// AlertType tipo de alerta derivada del estado del insumo.
type AlertType uint8

const (
	AlertLowStock AlertType = iota + 1
	AlertCriticalStock
	AlertDepleted
	AlertSoonExpire
	AlertExpired
)

var alertTypeNames = map[AlertType]string{
	AlertLowStock:      "STOCK_BAJO",
	AlertCriticalStock: "STOCK_CRITICO",
	AlertDepleted:      "AGOTADO",
	AlertSoonExpire:    "PROXIMO_VENCER",
	AlertExpired:       "VENCIDO",
}

func (t AlertType) String() string {
	if n, ok := alertTypeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("AlertType(%d)", uint8(t))
}

func ParseAlertType(s string) (AlertType, error) {
	for k, v := range alertTypeNames {
		if v == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("tipo de alerta desconocido: %q", s)
}

func (t AlertType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Prioridades de alerta.
const (
	PriorityHigh   = "ALTA"
	PriorityMedium = "MEDIA"
	PriorityLow    = "BAJA"
)

// Alert aviso vigente sobre un insumo. No es auditoría: se regenera en cada recálculo de estado.
type Alert struct {
	ID        string
	ItemID    string
	Type      AlertType
	Message   string
	Priority  string
	Read      bool
	CreatedAt time.Time
}
