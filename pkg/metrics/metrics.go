// Package metrics expone las métricas Prometheus del motor de órdenes e inventario.
//
// Todas las operaciones son seguras para uso concurrente. Un *Metrics nil es válido
// y no registra nada, de modo que los casos de uso no dependen de su presencia.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "agro"

// Resultados posibles al cerrar una orden.
const (
	CloseApplied      = "applied"
	CloseInsufficient = "insufficient_stock"
	CloseConflict     = "concurrency_conflict"
	CloseInvalidState = "invalid_state"
	CloseError        = "error"
)

// Metrics agrupa contadores e histogramas del dominio.
type Metrics struct {
	// OrdersClosedTotal cierres de órdenes por resultado.
	// Labels: result (applied, insufficient_stock, concurrency_conflict, invalid_state, error)
	OrdersClosedTotal *prometheus.CounterVec

	// OrdersCreatedTotal órdenes creadas.
	OrdersCreatedTotal prometheus.Counter

	// OrdersCancelledTotal órdenes anuladas.
	OrdersCancelledTotal prometheus.Counter

	// MovementsTotal movimientos registrados por tipo (ENTRADA, SALIDA, ...).
	MovementsTotal *prometheus.CounterVec

	// ShortfallsTotal insumos faltantes detectados en validaciones de stock.
	ShortfallsTotal prometheus.Counter

	// CloseDurationSeconds latencia del cierre de órdenes.
	CloseDurationSeconds prometheus.Histogram

	// StatusRefreshItems insumos recalculados en la última corrida del refresco de estados.
	StatusRefreshItems prometheus.Gauge
}

// New crea las métricas y las registra en reg. Con reg nil usa un registro propio sin exponer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OrdersClosedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "closed_total",
			Help:      "Cierres de órdenes de aplicación por resultado.",
		}, []string{"result"}),
		OrdersCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "created_total",
			Help:      "Órdenes de aplicación creadas.",
		}),
		OrdersCancelledTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "cancelled_total",
			Help:      "Órdenes de aplicación anuladas.",
		}),
		MovementsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "movements_total",
			Help:      "Movimientos de inventario registrados por tipo.",
		}, []string{"type"}),
		ShortfallsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "shortfalls_total",
			Help:      "Insumos con faltante detectados al validar stock.",
		}),
		CloseDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "close_duration_seconds",
			Help:      "Duración del cierre de una orden.",
			Buckets:   prometheus.DefBuckets,
		}),
		StatusRefreshItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "status_refresh_items",
			Help:      "Insumos recalculados en la última corrida del refresco de estados.",
		}),
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	reg.MustRegister(
		m.OrdersClosedTotal,
		m.OrdersCreatedTotal,
		m.OrdersCancelledTotal,
		m.MovementsTotal,
		m.ShortfallsTotal,
		m.CloseDurationSeconds,
		m.StatusRefreshItems,
	)
	return m
}

// ObserveClose registra el resultado y la duración de un cierre.
func (m *Metrics) ObserveClose(result string, started time.Time) {
	if m == nil {
		return
	}
	m.OrdersClosedTotal.WithLabelValues(result).Inc()
	m.CloseDurationSeconds.Observe(time.Since(started).Seconds())
}

func (m *Metrics) OrderCreated() {
	if m == nil {
		return
	}
	m.OrdersCreatedTotal.Inc()
}

func (m *Metrics) OrderCancelled() {
	if m == nil {
		return
	}
	m.OrdersCancelledTotal.Inc()
}

// MovementRegistered cuenta un movimiento del tipo dado.
func (m *Metrics) MovementRegistered(movementType string) {
	if m == nil {
		return
	}
	m.MovementsTotal.WithLabelValues(movementType).Inc()
}

// Shortfalls suma n faltantes detectados.
func (m *Metrics) Shortfalls(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ShortfallsTotal.Add(float64(n))
}

func (m *Metrics) StatusRefreshed(items int) {
	if m == nil {
		return
	}
	m.StatusRefreshItems.Set(float64(items))
}
