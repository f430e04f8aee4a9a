package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/AgroOrdenes-api/internal/application/dto"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/inventory"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/repository"
	"github.com/jhoicas/AgroOrdenes-api/pkg/logger"
	"github.com/jhoicas/AgroOrdenes-api/pkg/metrics"
)

// Ledger es el único camino de escritura del stock: cada cambio deja un movimiento,
// recalcula valor y estado del insumo y regenera sus alertas, todo en la misma transacción.
type Ledger struct {
	txRunner TxRunner
	log      *logger.Logger
	metrics  *metrics.Metrics
}

// NewLedger construye el ledger. m puede ser nil.
func NewLedger(txRunner TxRunner, log *logger.Logger, m *metrics.Metrics) *Ledger {
	return &Ledger{txRunner: txRunner, log: log.Component("ledger"), metrics: m}
}

// MovementInput entrada para registrar un movimiento.
// UnitCost solo se considera en ENTRADA; si viene, recalcula el costo promedio ponderado.
type MovementInput struct {
	ItemID    string
	Type      entity.MovementType
	Quantity  decimal.Decimal
	UnitCost  *decimal.Decimal
	Reason    string
	Reference string
	UserID    string
}

// RegisterMovement abre una transacción, bloquea el insumo y aplica el movimiento.
func (l *Ledger) RegisterMovement(ctx context.Context, in MovementInput) (*entity.Movement, error) {
	if in.ItemID == "" {
		return nil, domain.ErrInvalidInput
	}
	var mov *entity.Movement
	err := l.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
		alertRepo repository.AlertRepository,
	) error {
		var err error
		mov, err = l.ApplyInTx(ctx, itemRepo, movRepo, alertRepo, in, time.Now())
		return err
	})
	if err != nil {
		l.log.Warn().Err(err).Str("item_id", in.ItemID).Str("type", in.Type.String()).
			Str("quantity", in.Quantity.String()).Msg("movimiento rechazado")
		return nil, err
	}
	return mov, nil
}

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement.
func (l *Ledger) RegisterMovementFromRequest(ctx context.Context, userID string, in dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	t, err := entity.ParseMovementType(in.Type)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	mov, err := l.RegisterMovement(ctx, MovementInput{
		ItemID:    in.ItemID,
		Type:      t,
		Quantity:  in.Quantity,
		UnitCost:  in.UnitCost,
		Reason:    in.Reason,
		Reference: in.Reference,
		UserID:    userID,
	})
	if err != nil {
		return nil, err
	}
	out := toMovementResponse(mov)
	return &out, nil
}

// ApplyInTx aplica un movimiento usando los repositorios de la transacción del caller
// (el cierre de órdenes lo invoca una vez por detalle dentro de su propia tx).
// Bloquea la fila del insumo (SELECT FOR UPDATE), calcula el stock resultante, persiste el
// movimiento con stock antes/después y refresca estado y alertas.
func (l *Ledger) ApplyInTx(
	ctx context.Context,
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
	alertRepo repository.AlertRepository,
	in MovementInput,
	now time.Time,
) (*entity.Movement, error) {
	item, err := itemRepo.GetForUpdate(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	before := item.StockCurrent
	after, err := inventory.ApplyMovement(item, in.Type, in.Quantity)
	if err != nil {
		return nil, err
	}

	unitCost := item.UnitCost
	if in.Type == entity.MovementEntry && in.UnitCost != nil {
		if in.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		unitCost = *in.UnitCost
		item.UnitCost = inventory.WeightedAverageCost(before, item.UnitCost, in.Quantity, unitCost)
	}

	// En AJUSTE el costo se valora sobre la diferencia (con signo) y no sobre el valor absoluto.
	valued := in.Quantity
	if in.Type == entity.MovementAdjustment {
		valued = after.Sub(before)
	}

	mov := &entity.Movement{
		ID:          uuid.New().String(),
		ItemID:      item.ID,
		Type:        in.Type,
		Quantity:    in.Quantity,
		UnitCost:    unitCost,
		TotalCost:   valued.Mul(unitCost),
		StockBefore: before,
		StockAfter:  after,
		Reason:      in.Reason,
		Reference:   in.Reference,
		CreatedBy:   in.UserID,
		CreatedAt:   now,
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, fmt.Errorf("registrar movimiento: %w", err)
	}

	item.StockCurrent = after
	if err := refreshItem(ctx, itemRepo, alertRepo, item, now); err != nil {
		return nil, err
	}

	l.metrics.MovementRegistered(in.Type.String())
	l.log.Info().Str("item_id", item.ID).Str("type", in.Type.String()).
		Str("quantity", in.Quantity.String()).Str("stock_after", after.String()).
		Str("reference", in.Reference).Msg("movimiento registrado")
	return mov, nil
}

// refreshItem recalcula valor y estado, persiste el insumo y reemplaza sus alertas.
func refreshItem(
	ctx context.Context,
	itemRepo repository.ItemRepository,
	alertRepo repository.AlertRepository,
	item *entity.InventoryItem,
	now time.Time,
) error {
	inventory.Recompute(item, now)
	item.UpdatedAt = now
	if err := itemRepo.Update(ctx, item); err != nil {
		return fmt.Errorf("actualizar insumo: %w", err)
	}
	alerts := inventory.DeriveAlerts(item, now)
	for i := range alerts {
		alerts[i].ID = uuid.New().String()
	}
	if err := alertRepo.ReplaceForItem(ctx, item.ID, alerts); err != nil {
		return fmt.Errorf("regenerar alertas: %w", err)
	}
	return nil
}
