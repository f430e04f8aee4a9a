package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/AgroOrdenes-api/internal/application/dto"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/repository"
	"github.com/jhoicas/AgroOrdenes-api/pkg/logger"
	"github.com/jhoicas/AgroOrdenes-api/pkg/textnorm"
)

// ItemUseCase CRUD y consultas de insumos. El stock solo cambia a través del Ledger.
type ItemUseCase struct {
	itemRepo        repository.ItemRepository
	movRepo         repository.MovementRepository
	alertRepo       repository.AlertRepository
	orders          OrderReferences
	txRunner        TxRunner
	ledger          *Ledger
	recentMovements int
	log             *logger.Logger
}

// NewItemUseCase construye el caso de uso. recentMovements es la cantidad de movimientos
// incluidos en el detalle de un insumo.
func NewItemUseCase(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
	alertRepo repository.AlertRepository,
	orders OrderReferences,
	txRunner TxRunner,
	ledger *Ledger,
	recentMovements int,
	log *logger.Logger,
) *ItemUseCase {
	if recentMovements <= 0 {
		recentMovements = 10
	}
	return &ItemUseCase{
		itemRepo:        itemRepo,
		movRepo:         movRepo,
		alertRepo:       alertRepo,
		orders:          orders,
		txRunner:        txRunner,
		ledger:          ledger,
		recentMovements: recentMovements,
		log:             log.Component("items"),
	}
}

// Create crea un insumo. El stock inicial entra como movimiento de ENTRADA al costo indicado.
func (uc *ItemUseCase) Create(ctx context.Context, userID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	in.Unit = strings.TrimSpace(in.Unit)
	if in.Code == "" || in.Name == "" || in.Unit == "" {
		return nil, domain.ErrInvalidInput
	}
	if anyNegative(in.InitialStock, in.StockMin, in.StockMax, in.UnitCost) {
		return nil, domain.ErrInvalidInput
	}
	if in.StockMax.IsPositive() && in.StockMax.LessThan(in.StockMin) {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.itemRepo.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	item := &entity.InventoryItem{
		ID:             uuid.New().String(),
		Code:           in.Code,
		Name:           in.Name,
		Category:       strings.TrimSpace(in.Category),
		Unit:           in.Unit,
		StockCurrent:   decimal.Zero,
		StockMin:       in.StockMin,
		StockMax:       in.StockMax,
		UnitCost:       in.UnitCost,
		ExpirationDate: in.ExpirationDate,
		Active:         true,
		SearchKey:      textnorm.SearchKey(in.Code, in.Name),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	var created *entity.InventoryItem
	err = uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
		alertRepo repository.AlertRepository,
	) error {
		if err := itemRepo.Create(ctx, item); err != nil {
			return err
		}
		if in.InitialStock.IsPositive() {
			cost := in.UnitCost
			if _, err := uc.ledger.ApplyInTx(ctx, itemRepo, movRepo, alertRepo, MovementInput{
				ItemID:    item.ID,
				Type:      entity.MovementEntry,
				Quantity:  in.InitialStock,
				UnitCost:  &cost,
				Reason:    "Stock inicial",
				Reference: item.Code,
				UserID:    userID,
			}, now); err != nil {
				return err
			}
		} else if err := refreshItem(ctx, itemRepo, alertRepo, item, now); err != nil {
			return err
		}
		var err error
		created, err = itemRepo.GetByID(ctx, item.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("item_id", created.ID).Str("code", created.Code).Msg("insumo creado")
	out := ToItemResponse(created, now)
	return &out, nil
}

// Update actualiza datos maestros y umbrales. Recalcula estado y alertas en la misma transacción.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	now := time.Now()
	var updated *entity.InventoryItem
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		_ repository.MovementRepository,
		alertRepo repository.AlertRepository,
	) error {
		item, err := itemRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		if in.Name != nil {
			item.Name = strings.TrimSpace(*in.Name)
		}
		if in.Category != nil {
			item.Category = strings.TrimSpace(*in.Category)
		}
		if in.Unit != nil {
			item.Unit = strings.TrimSpace(*in.Unit)
		}
		if in.StockMin != nil {
			item.StockMin = *in.StockMin
		}
		if in.StockMax != nil {
			item.StockMax = *in.StockMax
		}
		if in.UnitCost != nil {
			item.UnitCost = *in.UnitCost
		}
		if in.ClearExpiration {
			item.ExpirationDate = nil
		} else if in.ExpirationDate != nil {
			d := *in.ExpirationDate
			item.ExpirationDate = &d
		}
		if in.Active != nil {
			item.Active = *in.Active
		}
		if item.Name == "" || item.Unit == "" || anyNegative(item.StockMin, item.StockMax, item.UnitCost) {
			return domain.ErrInvalidInput
		}
		if item.StockMax.IsPositive() && item.StockMax.LessThan(item.StockMin) {
			return domain.ErrInvalidInput
		}
		item.SearchKey = textnorm.SearchKey(item.Code, item.Name)
		if err := refreshItem(ctx, itemRepo, alertRepo, item, now); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := ToItemResponse(updated, now)
	return &out, nil
}

// Delete elimina un insumo. Si alguna orden no anulada lo referencia retorna ErrConflict.
// Un insumo con historial de movimientos no se borra: se desactiva para conservar la auditoría.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) (deactivated bool, err error) {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if item == nil {
		return false, domain.ErrNotFound
	}
	open, err := uc.orders.CountOpenByItem(ctx, id)
	if err != nil {
		return false, err
	}
	if open > 0 {
		return false, domain.ErrConflict
	}
	history, err := uc.movRepo.CountByItem(ctx, id)
	if err != nil {
		return false, err
	}
	if history == 0 {
		err := uc.itemRepo.Delete(ctx, id)
		if err == nil {
			uc.log.Info().Str("item_id", id).Msg("insumo eliminado")
			return false, nil
		}
		// Referenciado por detalles de órdenes anuladas: se desactiva igual que con historial.
		if !errors.Is(err, domain.ErrConflict) {
			return false, err
		}
	}

	now := time.Now()
	err = uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		_ repository.MovementRepository,
		alertRepo repository.AlertRepository,
	) error {
		locked, err := itemRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		locked.Active = false
		return refreshItem(ctx, itemRepo, alertRepo, locked, now)
	})
	if err != nil {
		return false, err
	}
	uc.log.Info().Str("item_id", id).Int("movements", history).Msg("insumo desactivado")
	return true, nil
}

// GetByID devuelve el insumo con sus movimientos recientes y alertas vigentes.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemDetailResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	movs, err := uc.movRepo.List(ctx, repository.MovementFilter{ItemID: id, Limit: uc.recentMovements})
	if err != nil {
		return nil, err
	}
	alerts, err := uc.alertRepo.ListByItem(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &dto.ItemDetailResponse{
		ItemResponse:    ToItemResponse(item, time.Now()),
		RecentMovements: make([]dto.MovementResponse, 0, len(movs)),
		Alerts:          make([]dto.AlertResponse, 0, len(alerts)),
	}
	for _, m := range movs {
		out.RecentMovements = append(out.RecentMovements, toMovementResponse(m))
	}
	for _, a := range alerts {
		out.Alerts = append(out.Alerts, toAlertResponse(a))
	}
	return out, nil
}

// List lista insumos con filtros opcionales. status usa los nombres del enum (BAJO, VENCIDO...).
func (uc *ItemUseCase) List(ctx context.Context, active *bool, category, status string, page dto.PageRequest) (*dto.ItemListResponse, error) {
	page.DefaultPage()
	f := repository.ItemFilter{Active: active, Category: category, Limit: page.Limit, Offset: page.Offset}
	if status != "" {
		st, err := entity.ParseItemStatus(status)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		f.Status = &st
	}
	list, err := uc.itemRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, ToItemResponse(it, now))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Search busca por código o nombre sin distinguir tildes ni mayúsculas.
func (uc *ItemUseCase) Search(ctx context.Context, text string, limit int) ([]dto.ItemResponse, error) {
	key := textnorm.Fold(text)
	if key == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	list, err := uc.itemRepo.Search(ctx, key, limit)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	out := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		out = append(out, ToItemResponse(it, now))
	}
	return out, nil
}

// Statistics resume el inventario. Las consultas son independientes y se ejecutan en paralelo.
func (uc *ItemUseCase) Statistics(ctx context.Context) (*dto.InventoryStatsResponse, error) {
	var (
		counts        []repository.StatusCount
		total, active int
		value         decimal.Decimal
		unread        int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = uc.itemRepo.CountByStatus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		total, active, value, err = uc.itemRepo.Totals(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		unread, err = uc.alertRepo.CountUnread(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.InventoryStatsResponse{
		TotalItems:   total,
		ActiveItems:  active,
		TotalValue:   value,
		ByStatus:     make(map[string]int, len(counts)),
		UnreadAlerts: unread,
	}
	for _, c := range counts {
		out.ByStatus[c.Status.String()] = c.Count
		if c.Status == entity.ItemStatusSoonExpire {
			out.ExpiringSoon = c.Count
		}
	}
	return out, nil
}

// ListMovements lista movimientos, opcionalmente de un insumo, tipo y rango de fechas.
func (uc *ItemUseCase) ListMovements(ctx context.Context, itemID, movementType string, from, to *time.Time, page dto.PageRequest) (*dto.MovementListResponse, error) {
	page.DefaultPage()
	f := repository.MovementFilter{ItemID: itemID, From: from, To: to, Limit: page.Limit, Offset: page.Offset}
	if movementType != "" {
		t, err := entity.ParseMovementType(movementType)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		f.Type = &t
	}
	list, err := uc.movRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementResponse(m))
	}
	return &dto.MovementListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

func anyNegative(values ...decimal.Decimal) bool {
	for _, v := range values {
		if v.IsNegative() {
			return true
		}
	}
	return false
}
