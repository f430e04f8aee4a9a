package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/AgroOrdenes-api/internal/domain/repository"
	"github.com/jhoicas/AgroOrdenes-api/pkg/logger"
	"github.com/jhoicas/AgroOrdenes-api/pkg/metrics"
)

// StatusRefresher recalcula estado y alertas de todos los insumos activos.
// El estado por vencimiento depende de la fecha, así que se ejecuta a diario aunque no haya movimientos.
type StatusRefresher struct {
	itemRepo repository.ItemRepository
	txRunner TxRunner
	log      *logger.Logger
	metrics  *metrics.Metrics
}

func NewStatusRefresher(itemRepo repository.ItemRepository, txRunner TxRunner, log *logger.Logger, m *metrics.Metrics) *StatusRefresher {
	return &StatusRefresher{itemRepo: itemRepo, txRunner: txRunner, log: log.Component("status-refresh"), metrics: m}
}

// RefreshAll recalcula cada insumo en su propia transacción. Un fallo no detiene el resto;
// los errores se devuelven agregados. Retorna la cantidad de insumos recalculados.
func (r *StatusRefresher) RefreshAll(ctx context.Context) (int, error) {
	ids, err := r.itemRepo.ListActiveIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("listar insumos activos: %w", err)
	}
	now := time.Now()
	var (
		refreshed int
		errs      []error
	)
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		err := r.txRunner.Run(ctx, func(
			itemRepo repository.ItemRepository,
			_ repository.MovementRepository,
			alertRepo repository.AlertRepository,
		) error {
			item, err := itemRepo.GetForUpdate(ctx, id)
			if err != nil || item == nil {
				return err
			}
			return refreshItem(ctx, itemRepo, alertRepo, item, now)
		})
		if err != nil {
			r.log.Error().Err(err).Str("item_id", id).Msg("no se pudo recalcular el insumo")
			errs = append(errs, fmt.Errorf("insumo %s: %w", id, err))
			continue
		}
		refreshed++
	}
	r.metrics.StatusRefreshed(refreshed)
	r.log.Info().Int("items", refreshed).Int("errors", len(errs)).Msg("estados recalculados")
	return refreshed, errors.Join(errs...)
}
