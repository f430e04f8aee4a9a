package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/AgroOrdenes-api/internal/application/dto"
	appinventory "github.com/jhoicas/AgroOrdenes-api/internal/application/inventory"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
	"github.com/jhoicas/AgroOrdenes-api/pkg/logger"
)

func TestCreateItem_StockInicialComoEntrada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	item := f.createItem(t, "FUN-001", "40", "20", "12.5")
	assert.True(t, item.StockCurrent.Equal(dec("40")))
	assert.True(t, item.TotalValue.Equal(dec("500")))
	assert.Equal(t, "DISPONIBLE", item.Status)

	detail, err := f.items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, detail.RecentMovements, 1)
	assert.Equal(t, "ENTRADA", detail.RecentMovements[0].Type)
	assert.True(t, detail.RecentMovements[0].StockBefore.IsZero())
}

func TestCreateItem_SinStockQuedaAgotadoConAlerta(t *testing.T) {
	f := newFixture(t)
	item := f.createItem(t, "FUN-002", "0", "10", "3")
	assert.Equal(t, "AGOTADO", item.Status)

	detail, err := f.items.GetByID(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.RecentMovements)
	require.Len(t, detail.Alerts, 1)
	assert.Equal(t, "AGOTADO", detail.Alerts[0].Type)
}

func TestCreateItem_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createItem(t, "FUN-003", "1", "0", "1")

	_, err := f.items.Create(ctx, "u-1", dto.CreateItemRequest{Code: "FUN-003", Name: "Otro", Unit: "kg"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = f.items.Create(ctx, "u-1", dto.CreateItemRequest{Code: "X", Name: " ", Unit: "kg"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.items.Create(ctx, "u-1", dto.CreateItemRequest{Code: "Y", Name: "Y", Unit: "kg", StockMin: dec("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.items.Create(ctx, "u-1", dto.CreateItemRequest{Code: "Z", Name: "Z", Unit: "kg", StockMin: dec("10"), StockMax: dec("5")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateItem_CambioDeMinimoYVencimientoRecalculaEstado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, "INS-001", "500", "20", "1")

	min := dec("600")
	out, err := f.items.Update(ctx, item.ID, dto.UpdateItemRequest{StockMin: &min})
	require.NoError(t, err)
	assert.Equal(t, "BAJO", out.Status)

	yesterday := time.Now().AddDate(0, 0, -1)
	out, err = f.items.Update(ctx, item.ID, dto.UpdateItemRequest{ExpirationDate: &yesterday})
	require.NoError(t, err)
	assert.Equal(t, "VENCIDO", out.Status, "el vencimiento prima sobre el stock")
	require.NotNil(t, out.DaysToExpire)
	assert.Equal(t, -1, *out.DaysToExpire)

	alerts, _ := f.store.Alerts().ListByItem(ctx, item.ID)
	types := map[entity.AlertType]bool{}
	for _, a := range alerts {
		types[a.Type] = true
	}
	assert.True(t, types[entity.AlertExpired])
	assert.True(t, types[entity.AlertLowStock])

	out, err = f.items.Update(ctx, item.ID, dto.UpdateItemRequest{ClearExpiration: true})
	require.NoError(t, err)
	assert.Nil(t, out.ExpirationDate)
	assert.Equal(t, "BAJO", out.Status)

	_, err = f.items.Update(ctx, "no-existe", dto.UpdateItemRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	fresh := f.createItem(t, "DEL-001", "0", "0", "1")
	deactivated, err := f.items.Delete(ctx, fresh.ID)
	require.NoError(t, err)
	assert.False(t, deactivated)
	_, err = f.items.GetByID(ctx, fresh.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	used := f.createItem(t, "DEL-002", "10", "0", "1")
	deactivated, err = f.items.Delete(ctx, used.ID)
	require.NoError(t, err)
	assert.True(t, deactivated, "con historial de movimientos se desactiva")
	detail, err := f.items.GetByID(ctx, used.ID)
	require.NoError(t, err)
	assert.False(t, detail.Active)
	assert.Empty(t, detail.Alerts, "un insumo inactivo no genera alertas")

	_, err = f.items.Delete(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

type openOrders map[string]int

func (o openOrders) CountOpenByItem(_ context.Context, id string) (int, error) { return o[id], nil }

func TestDeleteItem_ReferenciadoPorOrdenVigente(t *testing.T) {
	f := newFixture(t)
	item := f.createItem(t, "DEL-003", "0", "0", "1")
	uc := appinventory.NewItemUseCase(f.store.Items(), f.store.Movements(), f.store.Alerts(),
		openOrders{item.ID: 1}, f.store, f.ledger, 5, logger.Nop())

	_, err := uc.Delete(context.Background(), item.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestListAndSearchItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.items.Create(ctx, "u-1", dto.CreateItemRequest{Code: "FUN-010", Name: "Fungicida Cúprico", Unit: "l", InitialStock: dec("5"), StockMin: dec("20")})
	require.NoError(t, err)
	_, err = f.items.Create(ctx, "u-1", dto.CreateItemRequest{Code: "FER-010", Name: "Urea", Unit: "kg", InitialStock: dec("100"), StockMin: dec("10")})
	require.NoError(t, err)

	found, err := f.items.Search(ctx, "CUPRICO", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "FUN-010", found[0].Code)

	_, err = f.items.Search(ctx, "   ", 10)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := f.items.List(ctx, nil, "", "CRITICO", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "FUN-010", list.Items[0].Code)

	_, err = f.items.List(ctx, nil, "", "RARO", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStatistics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createItem(t, "ST-001", "0", "10", "1")
	f.createItem(t, "ST-002", "100", "10", "2")
	soon := time.Now().AddDate(0, 0, 10)
	_, err := f.items.Create(ctx, "u-1", dto.CreateItemRequest{
		Code: "ST-003", Name: "Semilla", Unit: "kg", InitialStock: dec("50"), UnitCost: dec("1"), ExpirationDate: &soon,
	})
	require.NoError(t, err)

	stats, err := f.items.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalItems)
	assert.Equal(t, 3, stats.ActiveItems)
	assert.True(t, stats.TotalValue.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, 1, stats.ByStatus["AGOTADO"])
	assert.Equal(t, 1, stats.ByStatus["DISPONIBLE"])
	assert.Equal(t, 1, stats.ExpiringSoon)
	assert.Equal(t, 2, stats.UnreadAlerts)
}

func TestListMovements_FiltraPorTipo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	item := f.createItem(t, "MOV-001", "10", "0", "1")
	_, err := f.move(t, item.ID, entity.MovementExit, "3")
	require.NoError(t, err)

	out, err := f.items.ListMovements(ctx, item.ID, "SALIDA", nil, nil, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.True(t, out.Items[0].StockAfter.Equal(dec("7")))

	_, err = f.items.ListMovements(ctx, "", "OTRO", nil, nil, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
