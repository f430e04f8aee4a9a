package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/AgroOrdenes-api/pkg/metrics"
)

func TestMetrics_Contadores(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.ObserveClose(metrics.CloseApplied, time.Now())
	m.ObserveClose(metrics.CloseApplied, time.Now())
	m.ObserveClose(metrics.CloseInsufficient, time.Now())
	m.MovementRegistered("SALIDA")
	m.Shortfalls(3)
	m.Shortfalls(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.OrdersClosedTotal.WithLabelValues(metrics.CloseApplied)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersClosedTotal.WithLabelValues(metrics.CloseInsufficient)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MovementsTotal.WithLabelValues("SALIDA")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ShortfallsTotal))
	assert.Equal(t, 1, testutil.CollectAndCount(m.CloseDurationSeconds))
}

func TestMetrics_NilEsSeguro(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveClose(metrics.CloseError, time.Now())
		m.OrderCreated()
		m.OrderCancelled()
		m.MovementRegistered("ENTRADA")
		m.Shortfalls(1)
		m.StatusRefreshed(5)
	})
}
