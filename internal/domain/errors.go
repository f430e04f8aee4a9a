package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrInvalidStateTransition = errors.New("transición de estado inválida")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrConcurrencyConflict    = errors.New("conflicto de concurrencia")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrConflict               = errors.New("conflicto con el estado actual")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
)

// Shortfall faltante de un insumo frente a la cantidad requerida.
type Shortfall struct {
	ItemID    string
	ItemName  string
	Unit      string
	Required  decimal.Decimal
	Available decimal.Decimal
	Deficit   decimal.Decimal
}

// InsufficientStockError lleva la lista completa de faltantes.
// Concurrent indica que el faltante apareció al re-verificar dentro de la transacción
// (el stock cambió entre la validación previa y el commit).
type InsufficientStockError struct {
	Shortfalls []Shortfall
	Concurrent bool
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		parts = append(parts, fmt.Sprintf("%s (requerido %s, disponible %s, déficit %s)",
			s.ItemName, s.Required.String(), s.Available.String(), s.Deficit.String()))
	}
	msg := ErrInsufficientStock.Error()
	if e.Concurrent {
		msg = ErrConcurrencyConflict.Error() + ": " + msg
	}
	if len(parts) == 0 {
		return msg
	}
	return msg + ": " + strings.Join(parts, "; ")
}

// Is permite errors.Is(err, ErrInsufficientStock) y, si es concurrente, errors.Is(err, ErrConcurrencyConflict).
func (e *InsufficientStockError) Is(target error) bool {
	if target == ErrInsufficientStock {
		return true
	}
	return e.Concurrent && target == ErrConcurrencyConflict
}

// ShortfallsOf extrae los faltantes si err es (o envuelve) un InsufficientStockError.
func ShortfallsOf(err error) []Shortfall {
	var se *InsufficientStockError
	if errors.As(err, &se) {
		return se.Shortfalls
	}
	return nil
}
