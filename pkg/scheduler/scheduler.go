// Package scheduler ejecuta tareas diarias a una hora fija sobre robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/AgroOrdenes-api/pkg/logger"
)

// Task tarea programada; recibe el contexto del scheduler.
type Task func(ctx context.Context) error

// Scheduler agenda tareas con expresiones cron estándar (minuto hora día mes díaSemana).
type Scheduler struct {
	cron *cron.Cron
	log  *logger.Logger
	ctx  context.Context
}

// New crea un scheduler en la zona horaria loc (nil = hora local).
func New(log *logger.Logger, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron: cron.New(cron.WithLocation(loc)),
		log:  log.Component("scheduler"),
		ctx:  context.Background(),
	}
}

// DailySpec expresión cron para todos los días a hour:min.
func DailySpec(hour, min int) string {
	return fmt.Sprintf("%d %d * * *", min, hour)
}

// Daily registra task todos los días a hour:min.
func (s *Scheduler) Daily(name string, hour, min int, task Task) error {
	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return fmt.Errorf("scheduler: hora inválida %02d:%02d para %s", hour, min, name)
	}
	_, err := s.cron.AddFunc(DailySpec(hour, min), func() {
		_ = RunOnce(s.ctx, s.log, name, task)
	})
	if err != nil {
		return fmt.Errorf("scheduler: agendar %s: %w", name, err)
	}
	s.log.Info().Str("task", name).Str("spec", DailySpec(hour, min)).Msg("tarea programada")
	return nil
}

// Run arranca el cron y bloquea hasta que ctx se cancele; luego espera las tareas en curso.
func (s *Scheduler) Run(ctx context.Context) {
	s.ctx = ctx
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
}

// RunOnce ejecuta la tarea registrando duración y error. Un panic de la tarea se devuelve como error.
func RunOnce(ctx context.Context, log *logger.Logger, name string, task Task) (err error) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			log.Error().Str("task", name).Interface("panic", r).Msg("tarea abortada")
		}
	}()
	if err = task(ctx); err != nil {
		log.Error().Err(err).Str("task", name).Dur("duration", time.Since(started)).Msg("tarea fallida")
		return err
	}
	log.Info().Str("task", name).Dur("duration", time.Since(started)).Msg("tarea completada")
	return nil
}
