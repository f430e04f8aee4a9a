package orders_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/AgroOrdenes-api/internal/application/dto"
	appinventory "github.com/jhoicas/AgroOrdenes-api/internal/application/inventory"
	"github.com/jhoicas/AgroOrdenes-api/internal/application/orders"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/repository"
	"github.com/jhoicas/AgroOrdenes-api/internal/infrastructure/memory"
	"github.com/jhoicas/AgroOrdenes-api/pkg/logger"
)

// ── helpers ──────────────────────────────────────────────────────────────────

const (
	parcelID   = "lote-1"
	operatorID = "op-1"
)

type fixture struct {
	store  *memory.Store
	ledger *appinventory.Ledger
	items  *appinventory.ItemUseCase
	orders *orders.OrderUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithRunner(t, nil)
}

// newFixtureWithRunner permite envolver el TxRunner de órdenes (p. ej. para simular concurrencia).
func newFixtureWithRunner(t *testing.T, wrap func(*memory.Store, *appinventory.Ledger) orders.OrderTxRunner) *fixture {
	t.Helper()
	store := memory.NewStore()
	log := logger.Nop()
	ledger := appinventory.NewLedger(store, log, nil)
	items := appinventory.NewItemUseCase(store.Items(), store.Movements(), store.Alerts(), store.Orders(), store, ledger, 10, log)

	var runner orders.OrderTxRunner = store
	if wrap != nil {
		runner = wrap(store, ledger)
	}
	uc := orders.NewOrderUseCase(
		store.Orders(), store.Items(), store.Recipes(), store.Parcels(), store.Users(),
		runner, ledger, appinventory.NewStockValidator(store.Items(), nil), log, nil,
	)
	store.PutParcel(&entity.Parcel{ID: parcelID, Name: "Lote Norte", AreaHa: dec("25"), Active: true})
	store.PutParcel(&entity.Parcel{ID: "lote-inactivo", Name: "Lote Viejo", Active: false})
	store.PutUser(&entity.User{ID: operatorID, Name: "Pedro", Role: entity.RoleOperario, Active: true})
	return &fixture{store: store, ledger: ledger, items: items, orders: uc}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (f *fixture) item(t *testing.T, code, stock, cost string) string {
	t.Helper()
	it, err := f.items.Create(context.Background(), "u-1", dto.CreateItemRequest{
		Code: code, Name: "Insumo " + code, Unit: "kg",
		InitialStock: dec(stock), StockMin: dec("5"), UnitCost: dec(cost),
	})
	require.NoError(t, err)
	return it.ID
}

// recipe registra una receta activa con un detalle por (itemID, dosis).
func (f *fixture) recipe(id string, doses ...any) {
	r := &entity.Recipe{ID: id, CropID: "cafe", Name: "Receta " + id, Stage: "floración", Active: true}
	for i := 0; i+1 < len(doses); i += 2 {
		r.Details = append(r.Details, entity.RecipeDetail{
			ID: fmt.Sprintf("%s-d%d", id, i/2+1), RecipeID: id, ItemID: doses[i].(string),
			DosePerAreaUnit: dec(doses[i+1].(string)), Unit: "kg/ha", Sequence: i/2 + 1,
		})
	}
	f.store.PutRecipe(r)
}

func (f *fixture) create(t *testing.T, recipeID, area string) *dto.OrderResponse {
	t.Helper()
	o, err := f.orders.Create(context.Background(), dto.CreateOrderRequest{
		ParcelID: parcelID, RecipeID: recipeID, AreaApplied: dec(area), OperatorID: operatorID,
	})
	require.NoError(t, err)
	return o
}

func (f *fixture) stock(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	it, err := f.store.Items().GetByID(context.Background(), id)
	require.NoError(t, err)
	return it.StockCurrent
}

func (f *fixture) state(t *testing.T, id string) entity.OrderState {
	t.Helper()
	o, err := f.store.Orders().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, o)
	return o.State
}

// ── Create ───────────────────────────────────────────────────────────────────

func TestCreate_CalculaCantidadesYCostos(t *testing.T) {
	f := newFixture(t)
	urea := f.item(t, "FER-001", "100", "5")
	f.recipe("R1", urea, "2")

	o := f.create(t, "R1", "10")
	assert.Equal(t, "PENDIENTE", o.State)
	require.Len(t, o.Details, 1)
	assert.True(t, o.Details[0].ComputedQuantity.Equal(dec("20")))
	assert.True(t, o.Details[0].TotalCost.Equal(dec("100")))
	assert.True(t, o.TotalCost.Equal(dec("100")))
	assert.Equal(t, "kg", o.Details[0].Unit)
	assert.Equal(t, "Insumo FER-001", o.Details[0].ItemName)
	assert.True(t, f.stock(t, urea).Equal(dec("100")), "crear una orden no consume stock")
}

func TestCreate_TotalEsSumaDeDetalles(t *testing.T) {
	f := newFixture(t)
	a := f.item(t, "A", "10", "3.35")
	b := f.item(t, "B", "10", "7.1")
	c := f.item(t, "C", "10", "0.125")
	f.recipe("R", a, "1.5", b, "0.75", c, "12")

	o := f.create(t, "R", "3.3")
	sum := decimal.Zero
	for _, d := range o.Details {
		assert.True(t, d.TotalCost.Equal(d.ComputedQuantity.Mul(d.UnitCost)))
		sum = sum.Add(d.TotalCost)
	}
	assert.True(t, o.TotalCost.Equal(sum))
}

func TestCreate_SinStockIgualSeCrea(t *testing.T) {
	f := newFixture(t)
	it := f.item(t, "FER-002", "0", "5")
	f.recipe("R", it, "2")
	o := f.create(t, "R", "10")
	assert.Equal(t, "PENDIENTE", o.State)
}

func TestCreate_Errores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	it := f.item(t, "FER-003", "10", "1")
	f.recipe("R", it, "1")
	f.recipe("R-roto", "insumo-fantasma", "1")
	f.store.PutRecipe(&entity.Recipe{ID: "R-vacia", Name: "Vacía", Active: true})

	cases := []struct {
		name string
		in   dto.CreateOrderRequest
		want error
	}{
		{"área cero", dto.CreateOrderRequest{ParcelID: parcelID, RecipeID: "R", AreaApplied: dec("0")}, domain.ErrInvalidInput},
		{"área negativa", dto.CreateOrderRequest{ParcelID: parcelID, RecipeID: "R", AreaApplied: dec("-1")}, domain.ErrInvalidInput},
		{"receta inexistente", dto.CreateOrderRequest{ParcelID: parcelID, RecipeID: "nada", AreaApplied: dec("1")}, domain.ErrNotFound},
		{"insumo inexistente", dto.CreateOrderRequest{ParcelID: parcelID, RecipeID: "R-roto", AreaApplied: dec("1")}, domain.ErrNotFound},
		{"receta sin detalles", dto.CreateOrderRequest{ParcelID: parcelID, RecipeID: "R-vacia", AreaApplied: dec("1")}, domain.ErrInvalidInput},
		{"lote inexistente", dto.CreateOrderRequest{ParcelID: "nada", RecipeID: "R", AreaApplied: dec("1")}, domain.ErrNotFound},
		{"lote inactivo", dto.CreateOrderRequest{ParcelID: "lote-inactivo", RecipeID: "R", AreaApplied: dec("1")}, domain.ErrInvalidInput},
		{"operario inexistente", dto.CreateOrderRequest{ParcelID: parcelID, RecipeID: "R", AreaApplied: dec("1"), OperatorID: "nadie"}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.orders.Create(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCreate_DosisNoPositivaSeRechaza(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	it := f.item(t, "FER-010", "10", "1")
	f.recipe("R-cero", it, "0")
	f.recipe("R-negativa", it, "-1")
	f.recipe("R-minima", it, "0.00001")

	for _, id := range []string{"R-cero", "R-negativa"} {
		_, err := f.orders.Create(ctx, dto.CreateOrderRequest{ParcelID: parcelID, RecipeID: id, AreaApplied: dec("5")})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, id)
		_, err = f.orders.ValidateStock(ctx, id, dec("5"))
		assert.ErrorIs(t, err, domain.ErrInvalidInput, id)
	}

	// 0.00001 × 2 = 0.00002, que a cuatro decimales queda en cero.
	_, err := f.orders.Create(ctx, dto.CreateOrderRequest{ParcelID: parcelID, RecipeID: "R-minima", AreaApplied: dec("2")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	orders, err := f.store.Orders().List(ctx, repository.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders, "no se persiste ninguna orden")
}

func TestCreate_CantidadYCostoACuatroDecimales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	it := f.item(t, "FER-011", "100", "2.3456")
	f.recipe("R", it, "0.123456")

	o := f.create(t, "R", "3.3333")
	require.Len(t, o.Details, 1)
	d := o.Details[0]
	// 0.123456 × 3.3333 = 0.4115158848
	assert.True(t, d.ComputedQuantity.Equal(dec("0.4115")), d.ComputedQuantity.String())
	// 0.4115 × 2.3456 = 0.96521440
	assert.True(t, d.TotalCost.Equal(dec("0.9652")), d.TotalCost.String())
	assert.True(t, o.TotalCost.Equal(dec("0.9652")))

	val, err := f.orders.ValidateStock(ctx, "R", dec("3.3333"))
	require.NoError(t, err)
	require.Len(t, val.Requirements, 1)
	assert.True(t, val.Requirements[0].Required.Equal(dec("0.4115")))

	_, err = f.orders.Close(ctx, o.ID, "u-bodega")
	require.NoError(t, err)
	assert.True(t, f.stock(t, it).Equal(dec("99.5885")), "el cierre consume la cantidad guardada")
}

// ── ValidateStock ────────────────────────────────────────────────────────────

func TestValidateStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	it := f.item(t, "FER-004", "100", "5")
	f.recipe("R", it, "2")

	ok, err := f.orders.ValidateStock(ctx, "R", dec("10"))
	require.NoError(t, err)
	assert.True(t, ok.Valid)
	assert.Empty(t, ok.Shortfalls)
	require.Len(t, ok.Requirements, 1)
	assert.True(t, ok.Requirements[0].Required.Equal(dec("20")))

	bad, err := f.orders.ValidateStock(ctx, "R", dec("60"))
	require.NoError(t, err)
	assert.False(t, bad.Valid)
	require.Len(t, bad.Shortfalls, 1)
	assert.True(t, bad.Shortfalls[0].Required.Equal(dec("120")))
	assert.True(t, bad.Shortfalls[0].Available.Equal(dec("100")))
	assert.True(t, bad.Shortfalls[0].Deficit.Equal(dec("20")))

	assert.True(t, f.stock(t, it).Equal(dec("100")), "validar no modifica nada")

	_, err = f.orders.ValidateStock(ctx, "R", dec("0"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.orders.ValidateStock(ctx, "nada", dec("1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Close ────────────────────────────────────────────────────────────────────

func TestClose_ExtremoAExtremo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	it := f.item(t, "FER-005", "100", "5")
	f.recipe("R", it, "2")
	o := f.create(t, "R", "10")

	closed, err := f.orders.Close(ctx, o.ID, "u-bodega")
	require.NoError(t, err)
	assert.Equal(t, "APLICADA", closed.State)
	require.NotNil(t, closed.ApplicationDate)
	assert.WithinDuration(t, time.Now(), *closed.ApplicationDate, time.Minute)
	assert.True(t, f.stock(t, it).Equal(dec("80")))

	exitType := entity.MovementExit
	movs, err := f.store.Movements().List(ctx, repository.MovementFilter{ItemID: it, Type: &exitType})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	exit := movs[0]
	assert.Equal(t, o.ID, exit.Reference)
	assert.Equal(t, "u-bodega", exit.CreatedBy)
	assert.True(t, exit.StockBefore.Equal(dec("100")))
	assert.True(t, exit.StockAfter.Equal(dec("80")))

	_, err = f.orders.Close(ctx, o.ID, "u-bodega")
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	assert.True(t, f.stock(t, it).Equal(dec("80")), "una orden aplicada no consume dos veces")
}

func TestClose_VariosDetallesMismoInsumo(t *testing.T) {
	f := newFixture(t)
	it := f.item(t, "FER-006", "30", "1")
	f.recipe("R", it, "1", it, "2")
	o := f.create(t, "R", "10")

	closed, err := f.orders.Close(context.Background(), o.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "APLICADA", closed.State)
	assert.True(t, f.stock(t, it).IsZero())

	f2 := newFixture(t)
	it2 := f2.item(t, "FER-007", "29", "1")
	f2.recipe("R", it2, "1", it2, "2")
	o2 := f2.create(t, "R", "10")
	_, err = f2.orders.Close(context.Background(), o2.ID, "")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	short := domain.ShortfallsOf(err)
	require.Len(t, short, 1, "los detalles del mismo insumo se suman")
	assert.True(t, short[0].Required.Equal(dec("30")))
	assert.True(t, short[0].Deficit.Equal(dec("1")))
}

func TestClose_FaltanteListaTodosYNoModificaNada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ok := f.item(t, "OK-1", "100", "1")
	short1 := f.item(t, "SH-1", "5", "1")
	short2 := f.item(t, "SH-2", "1", "1")
	f.recipe("R", ok, "1", short1, "1", short2, "1")
	o := f.create(t, "R", "10")

	_, err := f.orders.Close(ctx, o.ID, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.NotErrorIs(t, err, domain.ErrConcurrencyConflict)

	short := domain.ShortfallsOf(err)
	require.Len(t, short, 2, "se informan todos los faltantes, no solo el primero")
	byID := map[string]domain.Shortfall{}
	for _, s := range short {
		byID[s.ItemID] = s
	}
	assert.True(t, byID[short1].Deficit.Equal(dec("5")))
	assert.True(t, byID[short2].Deficit.Equal(dec("9")))

	assert.True(t, f.stock(t, ok).Equal(dec("100")))
	assert.True(t, f.stock(t, short1).Equal(dec("5")))
	assert.True(t, f.stock(t, short2).Equal(dec("1")))
	assert.Equal(t, entity.OrderPending, f.state(t, o.ID))
}

func TestClose_OrdenInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.orders.Close(context.Background(), "nada", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// drainingRunner consume stock de un insumo justo antes de abrir la transacción de cierre,
// simulando otro escritor que actúa entre la validación previa y el commit.
type drainingRunner struct {
	*memory.Store
	ledger *appinventory.Ledger
	itemID string
	qty    decimal.Decimal
	done   bool
}

func (r *drainingRunner) RunOrder(ctx context.Context, fn func(repository.ItemRepository, repository.MovementRepository, repository.AlertRepository, repository.OrderRepository) error) error {
	if !r.done && r.itemID != "" {
		r.done = true
		if _, err := r.ledger.RegisterMovement(ctx, appinventory.MovementInput{
			ItemID: r.itemID, Type: entity.MovementWaste, Quantity: r.qty, Reason: "derrame",
		}); err != nil {
			return err
		}
	}
	return r.Store.RunOrder(ctx, fn)
}

func TestClose_StockCambiaAntesDelCommit_ConflictoYRollback(t *testing.T) {
	var drain *drainingRunner
	f := newFixtureWithRunner(t, func(s *memory.Store, l *appinventory.Ledger) orders.OrderTxRunner {
		drain = &drainingRunner{Store: s, ledger: l}
		return drain
	})
	ctx := context.Background()
	a := f.item(t, "CC-1", "100", "1")
	b := f.item(t, "CC-2", "50", "1")
	f.recipe("R", a, "2", b, "3")
	o := f.create(t, "R", "10")

	drain.itemID, drain.qty = b, dec("25")

	_, err := f.orders.Close(ctx, o.ID, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	short := domain.ShortfallsOf(err)
	require.Len(t, short, 1)
	assert.True(t, short[0].Deficit.Equal(dec("5")))

	assert.True(t, f.stock(t, a).Equal(dec("100")), "ningún insumo se descuenta")
	assert.True(t, f.stock(t, b).Equal(dec("25")), "solo queda la merma concurrente")
	assert.Equal(t, entity.OrderPending, f.state(t, o.ID))

	// Con stock repuesto el cierre procede.
	_, err = f.ledger.RegisterMovement(ctx, appinventory.MovementInput{ItemID: b, Type: entity.MovementEntry, Quantity: dec("10")})
	require.NoError(t, err)
	closed, err := f.orders.Close(ctx, o.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "APLICADA", closed.State)
	assert.True(t, f.stock(t, a).Equal(dec("80")))
	assert.True(t, f.stock(t, b).Equal(dec("5")))
}

// ── Estados finales ──────────────────────────────────────────────────────────

func TestOrdenAplicada_NoAdmiteCambios(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	it := f.item(t, "FIN-1", "100", "1")
	f.recipe("R", it, "1")
	o := f.create(t, "R", "10")
	_, err := f.orders.Close(ctx, o.ID, "")
	require.NoError(t, err)

	obs := "cambio"
	_, err = f.orders.Update(ctx, o.ID, dto.UpdateOrderRequest{Observations: &obs})
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	assert.ErrorIs(t, f.orders.Delete(ctx, o.ID), domain.ErrInvalidStateTransition)
	_, err = f.orders.Cancel(ctx, o.ID, "ya no")
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	assert.Equal(t, entity.OrderApplied, f.state(t, o.ID))
	assert.True(t, f.stock(t, it).Equal(dec("90")))
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	it := f.item(t, "CAN-1", "100", "1")
	f.recipe("R", it, "1")
	o, err := f.orders.Create(ctx, dto.CreateOrderRequest{
		ParcelID: parcelID, RecipeID: "R", AreaApplied: dec("10"), Observations: "Aplicar en la mañana",
	})
	require.NoError(t, err)

	cancelled, err := f.orders.Cancel(ctx, o.ID, "lluvia")
	require.NoError(t, err)
	assert.Equal(t, "ANULADA", cancelled.State)
	assert.Equal(t, "Aplicar en la mañana\nMotivo de anulación: lluvia", cancelled.Observations)
	assert.True(t, f.stock(t, it).Equal(dec("100")), "anular no afecta inventario")

	_, err = f.orders.Close(ctx, o.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	_, err = f.orders.Cancel(ctx, o.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	_, err = f.orders.Cancel(ctx, "nada", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, f.orders.Delete(ctx, o.ID), "una orden anulada se puede eliminar")
	_, err = f.orders.GetByID(ctx, o.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Update ───────────────────────────────────────────────────────────────────

func TestUpdate_NoRecalculaDetalles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	it := f.item(t, "UP-1", "100", "5")
	f.recipe("R", it, "2")
	o := f.create(t, "R", "10")

	area := dec("20")
	date := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	obs := "revisar boquillas"
	up, err := f.orders.Update(ctx, o.ID, dto.UpdateOrderRequest{AreaApplied: &area, ApplicationDate: &date, Observations: &obs})
	require.NoError(t, err)
	assert.True(t, up.AreaApplied.Equal(area))
	assert.True(t, up.Details[0].ComputedQuantity.Equal(dec("20")), "los detalles son inmutables")
	assert.True(t, up.TotalCost.Equal(dec("100")))
	assert.Equal(t, obs, up.Observations)
	require.NotNil(t, up.ApplicationDate)
	assert.True(t, up.ApplicationDate.Equal(date))

	zero := dec("0")
	_, err = f.orders.Update(ctx, o.ID, dto.UpdateOrderRequest{AreaApplied: &zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	applied := "APLICADA"
	_, err = f.orders.Update(ctx, o.ID, dto.UpdateOrderRequest{State: &applied})
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	assert.Equal(t, entity.OrderPending, f.state(t, o.ID))

	cancelled := "ANULADA"
	up, err = f.orders.Update(ctx, o.ID, dto.UpdateOrderRequest{State: &cancelled})
	require.NoError(t, err)
	assert.Equal(t, "ANULADA", up.State)

	_, err = f.orders.Update(ctx, o.ID, dto.UpdateOrderRequest{Observations: &obs})
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

// ── Consultas ────────────────────────────────────────────────────────────────

func TestHistoryYStatistics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	it := f.item(t, "HS-1", "1000", "5")
	f.recipe("R", it, "2")

	first := f.create(t, "R", "10")
	second := f.create(t, "R", "5")
	f.create(t, "R", "1")
	_, err := f.orders.Close(ctx, first.ID, "")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	_, err = f.orders.Close(ctx, second.ID, "")
	require.NoError(t, err)

	hist, err := f.orders.History(ctx, parcelID)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, second.ID, hist[0].ID, "más reciente primero")
	assert.Equal(t, first.ID, hist[1].ID)

	_, err = f.orders.History(ctx, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	from := time.Now().Add(-time.Hour)
	to := time.Now().Add(time.Hour)
	stats, err := f.orders.Statistics(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.CountByState["APLICADA"])
	assert.Equal(t, 0, stats.CountByState["PENDIENTE"], "la pendiente no tiene fecha de aplicación")
	assert.True(t, stats.TotalCost.Equal(dec("150")))
	assert.True(t, stats.TotalArea.Equal(dec("15")))
	assert.True(t, stats.CostPerArea.Equal(dec("10")))

	_, err = f.orders.Statistics(ctx, to, from)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestList_Filtros(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	it := f.item(t, "LS-1", "1000", "1")
	f.recipe("R", it, "1")
	o1 := f.create(t, "R", "1")
	f.create(t, "R", "2")
	_, err := f.orders.Cancel(ctx, o1.ID, "")
	require.NoError(t, err)

	pending, err := f.orders.List(ctx, dto.ListOrdersQuery{State: "PENDIENTE"})
	require.NoError(t, err)
	assert.Len(t, pending.Items, 1)

	byText, err := f.orders.List(ctx, dto.ListOrdersQuery{Text: "norte"})
	require.NoError(t, err)
	assert.Len(t, byText.Items, 2, "busca por nombre del lote sin distinguir mayúsculas")

	_, err = f.orders.List(ctx, dto.ListOrdersQuery{State: "CERRADA"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeleteItem_ConOrdenPendienteEsConflicto(t *testing.T) {
	f := newFixture(t)
	it := f.item(t, "DI-1", "0", "1")
	f.recipe("R", it, "1")
	f.create(t, "R", "1")

	_, err := f.items.Delete(context.Background(), it)
	assert.ErrorIs(t, err, domain.ErrConflict)
}
