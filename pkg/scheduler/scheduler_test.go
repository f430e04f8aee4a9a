package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/AgroOrdenes-api/pkg/logger"
	"github.com/jhoicas/AgroOrdenes-api/pkg/scheduler"
)

func nextDaily(t *testing.T, hour, min int, now time.Time) time.Time {
	t.Helper()
	sched, err := cron.ParseStandard(scheduler.DailySpec(hour, min))
	require.NoError(t, err)
	return sched.Next(now)
}

func TestDailySpec_MismoDia(t *testing.T) {
	now := time.Date(2026, 3, 15, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 15, 2, 0, 0, 0, time.UTC), nextDaily(t, 2, 0, now))
}

func TestDailySpec_DiaSiguiente(t *testing.T) {
	now := time.Date(2026, 3, 15, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 16, 2, 0, 0, 0, time.UTC), nextDaily(t, 2, 0, now),
		"a la hora exacta se programa para mañana")

	endOfMonth := time.Date(2026, 3, 31, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 4, 1, 2, 0, 0, 0, time.UTC), nextDaily(t, 2, 0, endOfMonth))
}

func TestDaily_HoraInvalida(t *testing.T) {
	s := scheduler.New(logger.Nop(), time.UTC)
	assert.Error(t, s.Daily("x", 24, 0, func(context.Context) error { return nil }))
	assert.Error(t, s.Daily("x", 3, 60, func(context.Context) error { return nil }))
	assert.NoError(t, s.Daily("x", 3, 0, func(context.Context) error { return nil }))
}

func TestRunOnce_PropagaError(t *testing.T) {
	boom := errors.New("boom")
	err := scheduler.RunOnce(context.Background(), logger.Nop(), "x", func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestRunOnce_PanicSeDevuelveComoError(t *testing.T) {
	var err error
	assert.NotPanics(t, func() {
		err = scheduler.RunOnce(context.Background(), logger.Nop(), "x", func(context.Context) error { panic("fallo") })
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fallo")
}

func TestRun_TerminaAlCancelar(t *testing.T) {
	s := scheduler.New(logger.Nop(), nil)
	require.NoError(t, s.Daily("x", 3, 0, func(context.Context) error { return nil }))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run no terminó tras cancelar el contexto")
	}
}
