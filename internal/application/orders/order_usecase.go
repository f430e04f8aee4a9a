package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/AgroOrdenes-api/internal/application/dto"
	appinventory "github.com/jhoicas/AgroOrdenes-api/internal/application/inventory"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/inventory"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/repository"
	"github.com/jhoicas/AgroOrdenes-api/pkg/logger"
	"github.com/jhoicas/AgroOrdenes-api/pkg/metrics"
)

// OrderUseCase ciclo de vida de las órdenes de aplicación: PENDIENTE → APLICADA | ANULADA.
// El cierre consume inventario a través del ledger en una única transacción.
type OrderUseCase struct {
	orderRepo  repository.OrderRepository
	itemRepo   repository.ItemRepository
	recipeRepo repository.RecipeRepository
	parcelRepo repository.ParcelRepository
	userRepo   repository.UserRepository
	txRunner   OrderTxRunner
	ledger     InventoryLedger
	stock      StockChecker
	log        *logger.Logger
	metrics    *metrics.Metrics
}

// NewOrderUseCase construye el caso de uso inyectando todas sus dependencias. m puede ser nil.
func NewOrderUseCase(
	orderRepo repository.OrderRepository,
	itemRepo repository.ItemRepository,
	recipeRepo repository.RecipeRepository,
	parcelRepo repository.ParcelRepository,
	userRepo repository.UserRepository,
	txRunner OrderTxRunner,
	ledger InventoryLedger,
	stock StockChecker,
	log *logger.Logger,
	m *metrics.Metrics,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:  orderRepo,
		itemRepo:   itemRepo,
		recipeRepo: recipeRepo,
		parcelRepo: parcelRepo,
		userRepo:   userRepo,
		txRunner:   txRunner,
		ledger:     ledger,
		stock:      stock,
		log:        log.Component("orders"),
		metrics:    m,
	}
}

// snapshotScale decimales de cantidades y costos de los detalles de una orden.
const snapshotScale = 4

// Create genera una orden PENDIENTE a partir de la receta: cada detalle toma la dosis × área
// y el costo actual del insumo. No verifica stock.
func (uc *OrderUseCase) Create(ctx context.Context, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if !in.AreaApplied.IsPositive() {
		return nil, fmt.Errorf("%w: el área aplicada debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if err := uc.checkParcel(ctx, in.ParcelID); err != nil {
		return nil, err
	}
	if err := uc.checkOperator(ctx, in.OperatorID); err != nil {
		return nil, err
	}
	recipe, err := uc.loadRecipe(ctx, in.RecipeID)
	if err != nil {
		return nil, err
	}
	items, err := uc.itemRepo.GetMany(ctx, recipeItemIDs(recipe))
	if err != nil {
		return nil, fmt.Errorf("cargar insumos: %w", err)
	}

	now := time.Now()
	order := &entity.Order{
		ID:              uuid.New().String(),
		ParcelID:        in.ParcelID,
		RecipeID:        recipe.ID,
		AreaApplied:     in.AreaApplied,
		CreatedAt:       now,
		ApplicationDate: in.ApplicationDate,
		OperatorID:      in.OperatorID,
		State:           entity.OrderPending,
		Observations:    strings.TrimSpace(in.Observations),
		TotalCost:       decimal.Zero,
		UpdatedAt:       now,
	}
	for _, d := range recipe.Details {
		item, ok := items[d.ItemID]
		if !ok {
			return nil, fmt.Errorf("%w: insumo %s de la receta", domain.ErrNotFound, d.ItemID)
		}
		// misma escala que application_order_details para que ambos stores guarden el mismo snapshot
		qty := d.DosePerAreaUnit.Mul(in.AreaApplied).Round(snapshotScale)
		if !qty.IsPositive() {
			return nil, fmt.Errorf("%w: la cantidad de %s redondea a cero para el área indicada", domain.ErrInvalidInput, item.Name)
		}
		total := qty.Mul(item.UnitCost).Round(snapshotScale)
		order.Details = append(order.Details, entity.OrderDetail{
			ID:               uuid.New().String(),
			OrderID:          order.ID,
			ItemID:           item.ID,
			ComputedQuantity: qty,
			Unit:             item.Unit,
			UnitCost:         item.UnitCost,
			TotalCost:        total,
		})
		order.TotalCost = order.TotalCost.Add(total)
	}

	err = uc.txRunner.RunOrder(ctx, func(
		_ repository.ItemRepository,
		_ repository.MovementRepository,
		_ repository.AlertRepository,
		orderRepo repository.OrderRepository,
	) error {
		return orderRepo.Create(ctx, order)
	})
	if err != nil {
		return nil, fmt.Errorf("crear orden: %w", err)
	}
	uc.metrics.OrderCreated()
	uc.log.Info().Str("order_id", order.ID).Str("recipe_id", recipe.ID).Str("parcel_id", order.ParcelID).
		Str("area", order.AreaApplied.String()).Str("total_cost", order.TotalCost.String()).Msg("orden creada")
	return toOrderResponse(order, items), nil
}

// Update modifica una orden PENDIENTE. Los detalles no se recalculan aunque cambie el área.
// El único cambio de estado permitido aquí es a ANULADA; APLICADA solo se alcanza con Close.
func (uc *OrderUseCase) Update(ctx context.Context, id string, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	var next *entity.OrderState
	if in.State != nil {
		st, err := entity.ParseOrderState(*in.State)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		if st == entity.OrderApplied {
			return nil, fmt.Errorf("%w: use el cierre de la orden para aplicarla", domain.ErrInvalidStateTransition)
		}
		next = &st
	}
	if in.AreaApplied != nil && !in.AreaApplied.IsPositive() {
		return nil, fmt.Errorf("%w: el área aplicada debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if in.OperatorID != nil {
		if err := uc.checkOperator(ctx, *in.OperatorID); err != nil {
			return nil, err
		}
	}

	var updated *entity.Order
	err := uc.txRunner.RunOrder(ctx, func(
		_ repository.ItemRepository,
		_ repository.MovementRepository,
		_ repository.AlertRepository,
		orderRepo repository.OrderRepository,
	) error {
		order, err := lockPending(ctx, orderRepo, id)
		if err != nil {
			return err
		}
		if in.AreaApplied != nil {
			order.AreaApplied = *in.AreaApplied
		}
		if in.ApplicationDate != nil {
			d := *in.ApplicationDate
			order.ApplicationDate = &d
		}
		if in.OperatorID != nil {
			order.OperatorID = *in.OperatorID
		}
		if in.Observations != nil {
			order.Observations = strings.TrimSpace(*in.Observations)
		}
		if next != nil && *next != order.State {
			order.State = *next
		}
		order.UpdatedAt = time.Now()
		if err := orderRepo.Update(ctx, order); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	if updated.State == entity.OrderCancelled {
		uc.metrics.OrderCancelled()
		uc.log.Info().Str("order_id", id).Msg("orden anulada")
	}
	return uc.withItemNames(ctx, updated)
}

// Delete elimina una orden que no haya sido aplicada.
func (uc *OrderUseCase) Delete(ctx context.Context, id string) error {
	err := uc.txRunner.RunOrder(ctx, func(
		_ repository.ItemRepository,
		_ repository.MovementRepository,
		_ repository.AlertRepository,
		orderRepo repository.OrderRepository,
	) error {
		order, err := orderRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.State == entity.OrderApplied {
			return fmt.Errorf("%w: una orden aplicada no se puede eliminar", domain.ErrInvalidStateTransition)
		}
		return orderRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("order_id", id).Msg("orden eliminada")
	return nil
}

// GetByID devuelve la orden con sus detalles.
func (uc *OrderUseCase) GetByID(ctx context.Context, id string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return uc.withItemNames(ctx, order)
}

// List lista órdenes con filtros opcionales, más recientes primero.
func (uc *OrderUseCase) List(ctx context.Context, q dto.ListOrdersQuery) (*dto.OrderListResponse, error) {
	q.Page.DefaultPage()
	f := repository.OrderFilter{
		ParcelID:   q.ParcelID,
		RecipeID:   q.RecipeID,
		From:       q.From,
		To:         q.To,
		SearchText: strings.TrimSpace(q.Text),
		Limit:      q.Page.Limit,
		Offset:     q.Page.Offset,
	}
	if q.State != "" {
		st, err := entity.ParseOrderState(q.State)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		f.State = &st
	}
	list, err := uc.orderRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &dto.OrderListResponse{
		Items: make([]dto.OrderResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: q.Page.Limit, Offset: q.Page.Offset},
	}
	for _, o := range list {
		out.Items = append(out.Items, *toOrderResponse(o, nil))
	}
	return out, nil
}

// ValidateStock calcula los requerimientos de la receta para el área y los compara con el stock actual.
func (uc *OrderUseCase) ValidateStock(ctx context.Context, recipeID string, area decimal.Decimal) (*dto.StockValidationResponse, error) {
	if !area.IsPositive() {
		return nil, fmt.Errorf("%w: el área aplicada debe ser mayor que cero", domain.ErrInvalidInput)
	}
	recipe, err := uc.loadRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	reqs := make([]inventory.Requirement, 0, len(recipe.Details))
	for _, d := range recipe.Details {
		reqs = append(reqs, inventory.Requirement{ItemID: d.ItemID, Quantity: d.DosePerAreaUnit.Mul(area).Round(snapshotScale)})
	}
	check, items, err := uc.stock.Check(ctx, reqs)
	if err != nil {
		return nil, err
	}
	out := &dto.StockValidationResponse{
		Valid:      check.Valid,
		Shortfalls: dto.ShortfallsFrom(check.Shortfalls),
	}
	for _, r := range inventory.MergeRequirements(reqs) {
		req := dto.RequirementDTO{ItemID: r.ItemID, ItemName: r.ItemID, Required: r.Quantity, Available: decimal.Zero}
		if it, ok := items[r.ItemID]; ok {
			req.ItemName, req.Unit, req.Available = it.Name, it.Unit, it.StockCurrent
		}
		out.Requirements = append(out.Requirements, req)
	}
	return out, nil
}

// Close aplica la orden: valida stock con los detalles de la propia orden y, en una sola transacción,
// registra una SALIDA por detalle y pasa la orden a APLICADA. Dentro de la transacción se bloquean
// la orden y los insumos (en orden de ID) y se vuelve a verificar el stock: si cambió desde la
// validación previa el cierre falla con conflicto de concurrencia y no se modifica nada.
func (uc *OrderUseCase) Close(ctx context.Context, id, userID string) (*dto.OrderResponse, error) {
	started := time.Now()
	result := metrics.CloseError
	defer func() { uc.metrics.ObserveClose(result, started) }()

	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.State != entity.OrderPending {
		result = metrics.CloseInvalidState
		return nil, fmt.Errorf("%w: la orden está %s", domain.ErrInvalidStateTransition, order.State)
	}

	reqs := orderRequirements(order)
	check, _, err := uc.stock.Check(ctx, reqs)
	if err != nil {
		return nil, err
	}
	if !check.Valid {
		result = metrics.CloseInsufficient
		uc.log.Warn().Str("order_id", id).Int("shortfalls", len(check.Shortfalls)).Msg("cierre rechazado por stock insuficiente")
		return nil, &domain.InsufficientStockError{Shortfalls: check.Shortfalls}
	}

	if userID == "" {
		userID = order.OperatorID
	}
	now := time.Now()
	var closed *entity.Order
	err = uc.txRunner.RunOrder(ctx, func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
		alertRepo repository.AlertRepository,
		orderRepo repository.OrderRepository,
	) error {
		locked, err := orderRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if locked == nil || locked.State != entity.OrderPending {
			return fmt.Errorf("%w: la orden cambió durante el cierre", domain.ErrConcurrencyConflict)
		}

		current := make(map[string]*entity.InventoryItem, len(reqs))
		for _, r := range inventory.MergeRequirements(reqs) {
			it, err := itemRepo.GetForUpdate(ctx, r.ItemID)
			if err != nil {
				return err
			}
			if it != nil {
				current[r.ItemID] = it
			}
		}
		if recheck := inventory.CheckStock(reqs, current); !recheck.Valid {
			return &domain.InsufficientStockError{Shortfalls: recheck.Shortfalls, Concurrent: true}
		}

		for _, d := range locked.Details {
			if _, err := uc.ledger.ApplyInTx(ctx, itemRepo, movRepo, alertRepo, appinventory.MovementInput{
				ItemID:    d.ItemID,
				Type:      entity.MovementExit,
				Quantity:  d.ComputedQuantity,
				Reason:    "Aplicación de orden",
				Reference: locked.ID,
				UserID:    userID,
			}, now); err != nil {
				return err
			}
		}

		locked.State = entity.OrderApplied
		locked.ApplicationDate = &now
		locked.UpdatedAt = now
		if err := orderRepo.Update(ctx, locked); err != nil {
			return err
		}
		closed = locked
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConcurrencyConflict):
			result = metrics.CloseConflict
		case errors.Is(err, domain.ErrInsufficientStock):
			result = metrics.CloseInsufficient
		}
		uc.log.Warn().Err(err).Str("order_id", id).Msg("cierre revertido")
		return nil, err
	}

	result = metrics.CloseApplied
	uc.log.Info().Str("order_id", id).Int("details", len(closed.Details)).
		Str("total_cost", closed.TotalCost.String()).Msg("orden aplicada")
	return uc.withItemNames(ctx, closed)
}

// Cancel anula una orden PENDIENTE. El motivo, si viene, se agrega a las observaciones.
func (uc *OrderUseCase) Cancel(ctx context.Context, id, reason string) (*dto.OrderResponse, error) {
	var cancelled *entity.Order
	err := uc.txRunner.RunOrder(ctx, func(
		_ repository.ItemRepository,
		_ repository.MovementRepository,
		_ repository.AlertRepository,
		orderRepo repository.OrderRepository,
	) error {
		order, err := lockPending(ctx, orderRepo, id)
		if err != nil {
			return err
		}
		order.State = entity.OrderCancelled
		if reason = strings.TrimSpace(reason); reason != "" {
			note := "Motivo de anulación: " + reason
			if order.Observations != "" {
				note = order.Observations + "\n" + note
			}
			order.Observations = note
		}
		order.UpdatedAt = time.Now()
		if err := orderRepo.Update(ctx, order); err != nil {
			return err
		}
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.OrderCancelled()
	uc.log.Info().Str("order_id", id).Str("reason", reason).Msg("orden anulada")
	return uc.withItemNames(ctx, cancelled)
}

// History órdenes aplicadas de un lote, por fecha de aplicación descendente.
func (uc *OrderUseCase) History(ctx context.Context, parcelID string) ([]dto.OrderResponse, error) {
	parcel, err := uc.parcelRepo.GetByID(ctx, parcelID)
	if err != nil {
		return nil, err
	}
	if parcel == nil {
		return nil, fmt.Errorf("%w: lote %s", domain.ErrNotFound, parcelID)
	}
	list, err := uc.orderRepo.ListAppliedByParcel(ctx, parcelID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *toOrderResponse(o, nil))
	}
	return out, nil
}

// Statistics cuenta órdenes por estado con fecha de aplicación en [from, to].
// Costo y área totales se calculan sobre las órdenes APLICADAS.
func (uc *OrderUseCase) Statistics(ctx context.Context, from, to time.Time) (*dto.OrderStatsResponse, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: la fecha inicial es posterior a la final", domain.ErrInvalidInput)
	}
	aggs, err := uc.orderRepo.AggregateByState(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := &dto.OrderStatsResponse{
		From: from,
		To:   to,
		CountByState: map[string]int{
			entity.OrderPending.String():   0,
			entity.OrderApplied.String():   0,
			entity.OrderCancelled.String(): 0,
		},
		TotalCost:   decimal.Zero,
		TotalArea:   decimal.Zero,
		CostPerArea: decimal.Zero,
	}
	for _, a := range aggs {
		out.CountByState[a.State.String()] = a.Count
		out.Total += a.Count
		if a.State == entity.OrderApplied {
			out.TotalCost = a.TotalCost
			out.TotalArea = a.TotalArea
		}
	}
	if out.TotalArea.IsPositive() {
		out.CostPerArea = out.TotalCost.Div(out.TotalArea).Round(2)
	}
	return out, nil
}

// ── helpers ───────────────────────────────────────────────────────────────────

// lockPending bloquea la orden y exige estado PENDIENTE.
func lockPending(ctx context.Context, orderRepo repository.OrderRepository, id string) (*entity.Order, error) {
	order, err := orderRepo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.State != entity.OrderPending {
		return nil, fmt.Errorf("%w: la orden está %s", domain.ErrInvalidStateTransition, order.State)
	}
	return order, nil
}

func (uc *OrderUseCase) loadRecipe(ctx context.Context, id string) (*entity.Recipe, error) {
	recipe, err := uc.recipeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("cargar receta: %w", err)
	}
	if recipe == nil {
		return nil, fmt.Errorf("%w: receta %s", domain.ErrNotFound, id)
	}
	if !recipe.Active {
		return nil, fmt.Errorf("%w: la receta %s está inactiva", domain.ErrInvalidInput, recipe.Name)
	}
	if len(recipe.Details) == 0 {
		return nil, fmt.Errorf("%w: la receta %s no tiene insumos", domain.ErrInvalidInput, recipe.Name)
	}
	for _, d := range recipe.Details {
		if !d.DosePerAreaUnit.IsPositive() {
			return nil, fmt.Errorf("%w: la receta %s tiene una dosis no positiva para %s",
				domain.ErrInvalidInput, recipe.Name, d.ItemID)
		}
	}
	return recipe, nil
}

func (uc *OrderUseCase) checkParcel(ctx context.Context, id string) error {
	parcel, err := uc.parcelRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("cargar lote: %w", err)
	}
	if parcel == nil {
		return fmt.Errorf("%w: lote %s", domain.ErrNotFound, id)
	}
	if !parcel.Active {
		return fmt.Errorf("%w: el lote %s está inactivo", domain.ErrInvalidInput, parcel.Name)
	}
	return nil
}

// checkOperator valida el operario si se indicó uno.
func (uc *OrderUseCase) checkOperator(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("cargar operario: %w", err)
	}
	if user == nil {
		return fmt.Errorf("%w: operario %s", domain.ErrNotFound, id)
	}
	if !user.Active {
		return fmt.Errorf("%w: el operario %s está inactivo", domain.ErrInvalidInput, user.Name)
	}
	return nil
}

func (uc *OrderUseCase) withItemNames(ctx context.Context, order *entity.Order) (*dto.OrderResponse, error) {
	ids := make([]string, 0, len(order.Details))
	for _, d := range order.Details {
		ids = append(ids, d.ItemID)
	}
	items, err := uc.itemRepo.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order, items), nil
}

func recipeItemIDs(r *entity.Recipe) []string {
	ids := make([]string, 0, len(r.Details))
	for _, d := range r.Details {
		ids = append(ids, d.ItemID)
	}
	return ids
}

func orderRequirements(o *entity.Order) []inventory.Requirement {
	reqs := make([]inventory.Requirement, 0, len(o.Details))
	for _, d := range o.Details {
		reqs = append(reqs, inventory.Requirement{ItemID: d.ItemID, Quantity: d.ComputedQuantity})
	}
	return reqs
}
