package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/AgroOrdenes-api/internal/application/dto"
	"github.com/jhoicas/AgroOrdenes-api/internal/application/inventory"
	"github.com/jhoicas/AgroOrdenes-api/internal/application/orders"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
	"github.com/jhoicas/AgroOrdenes-api/internal/infrastructure/memory"
	"github.com/jhoicas/AgroOrdenes-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/AgroOrdenes-api/internal/interfaces/http"
	"github.com/jhoicas/AgroOrdenes-api/pkg/logger"
	"github.com/jhoicas/AgroOrdenes-api/pkg/metrics"
)

// ──────────────────────────────────────────────────────────────────────────────
// API completa sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

type testAPI struct {
	app   *fiber.App
	store *memory.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := memory.NewStore()
	log := logger.Nop()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	ledger := inventory.NewLedger(store, log, m)
	items := inventory.NewItemUseCase(store.Items(), store.Movements(), store.Alerts(), store.Orders(), store, ledger, 10, log)
	orderUC := orders.NewOrderUseCase(store.Orders(), store.Items(), store.Recipes(), store.Parcels(), store.Users(),
		store, ledger, inventory.NewStockValidator(store.Items(), m), log, m)
	sheets := orders.NewSheetUseCase(store.Orders(), store.Items(), store.Recipes(), store.Parcels(), store.Users(),
		pdf.NewMarotoSheetGenerator("Finca La Esperanza"))

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ItemUC:        items,
		Ledger:        ledger,
		AlertUC:       inventory.NewAlertUseCase(store.Alerts()),
		Replenishment: inventory.NewReplenishmentUseCase(store.Items(), store.Movements()),
		OrderUC:       orderUC,
		SheetUC:       sheets,
		Gatherer:      reg,
		JWTSecret:     testJWTSecret,
		Log:           log,
	})
	store.PutParcel(&entity.Parcel{ID: "lote-1", Name: "Lote Norte", AreaHa: decimal.NewFromInt(25), Active: true})
	return &testAPI{app: app, store: store}
}

func (a *testAPI) do(t *testing.T, method, path, role string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func (a *testAPI) createItem(t *testing.T, code string, stock, cost int64) dto.ItemResponse {
	t.Helper()
	resp, raw := a.do(t, http.MethodPost, "/api/inventory/items", "bodeguero", dto.CreateItemRequest{
		Code: code, Name: "Insumo " + code, Unit: "kg",
		InitialStock: decimal.NewFromInt(stock), StockMin: decimal.NewFromInt(5), UnitCost: decimal.NewFromInt(cost),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var out dto.ItemResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func (a *testAPI) recipe(id, itemID string, dose int64) {
	a.store.PutRecipe(&entity.Recipe{ID: id, Name: "Receta " + id, Active: true, Details: []entity.RecipeDetail{
		{ID: id + "-1", RecipeID: id, ItemID: itemID, DosePerAreaUnit: decimal.NewFromInt(dose), Unit: "kg/ha", Sequence: 1},
	}})
}

func (a *testAPI) createOrder(t *testing.T, recipeID string, area int64) dto.OrderResponse {
	t.Helper()
	resp, raw := a.do(t, http.MethodPost, "/api/orders", "agronomo", dto.CreateOrderRequest{
		ParcelID: "lote-1", RecipeID: recipeID, AreaApplied: decimal.NewFromInt(area),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var out dto.OrderResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_CicloCompletoDeOrden(t *testing.T) {
	api := newTestAPI(t)
	item := api.createItem(t, "FER-001", 100, 5)
	api.recipe("R1", item.ID, 2)

	order := api.createOrder(t, "R1", 10)
	assert.Equal(t, "PENDIENTE", order.State)
	assert.True(t, order.TotalCost.Equal(decimal.NewFromInt(100)))

	resp, raw := api.do(t, http.MethodPost, "/api/orders/"+order.ID+"/close", "operario", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var closed dto.OrderResponse
	require.NoError(t, json.Unmarshal(raw, &closed))
	assert.Equal(t, "APLICADA", closed.State)

	resp, raw = api.do(t, http.MethodGet, "/api/inventory/items/"+item.ID, "operario", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var detail dto.ItemDetailResponse
	require.NoError(t, json.Unmarshal(raw, &detail))
	assert.True(t, detail.StockCurrent.Equal(decimal.NewFromInt(80)))
	assert.Len(t, detail.RecentMovements, 2)

	resp, raw = api.do(t, http.MethodPost, "/api/orders/"+order.ID+"/close", "operario", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(raw), "INVALID_STATE")

	resp, _ = api.do(t, http.MethodDelete, "/api/orders/"+order.ID, "agronomo", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, raw = api.do(t, http.MethodGet, "/api/parcels/lote-1/orders", "operario", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var hist []dto.OrderResponse
	require.NoError(t, json.Unmarshal(raw, &hist))
	assert.Len(t, hist, 1)
}

func TestAPI_CierreConFaltanteDetallaInsumos(t *testing.T) {
	api := newTestAPI(t)
	item := api.createItem(t, "FER-002", 10, 5)
	api.recipe("R1", item.ID, 2)
	order := api.createOrder(t, "R1", 10)

	resp, raw := api.do(t, http.MethodPost, "/api/orders/"+order.ID+"/close", "bodeguero", nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var body dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	require.Len(t, body.Details, 1)
	assert.Equal(t, item.ID, body.Details[0].ItemID)
	assert.True(t, body.Details[0].Deficit.Equal(decimal.NewFromInt(10)))

	resp, raw = api.do(t, http.MethodGet, "/api/orders/"+order.ID, "operario", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"state":"PENDIENTE"`)
}

func TestAPI_ValidarStock(t *testing.T) {
	api := newTestAPI(t)
	item := api.createItem(t, "FER-003", 100, 5)
	api.recipe("R1", item.ID, 2)

	resp, raw := api.do(t, http.MethodPost, "/api/orders/validate-stock", "operario",
		dto.ValidateStockRequest{RecipeID: "R1", AreaApplied: decimal.NewFromInt(60)})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var out dto.StockValidationResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.False(t, out.Valid)
	require.Len(t, out.Shortfalls, 1)
	assert.True(t, out.Shortfalls[0].Deficit.Equal(decimal.NewFromInt(20)))
}

func TestAPI_RolesYValidacion(t *testing.T) {
	api := newTestAPI(t)

	resp, _ := api.do(t, http.MethodPost, "/api/inventory/items", "operario", dto.CreateItemRequest{Code: "X", Name: "X", Unit: "kg"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = api.do(t, http.MethodGet, "/api/inventory/items", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, raw := api.do(t, http.MethodPost, "/api/inventory/items", "admin", map[string]any{"name": "Sin código"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "VALIDATION")

	resp, raw = api.do(t, http.MethodPost, "/api/inventory/movements", "bodeguero",
		map[string]any{"item_id": "x", "type": "REGALO", "quantity": "1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(raw))

	resp, _ = api.do(t, http.MethodGet, "/api/orders/nada", "operario", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = api.do(t, http.MethodGet, "/api/orders?from=ayer", "operario", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_MovimientosYAlertas(t *testing.T) {
	api := newTestAPI(t)
	item := api.createItem(t, "FER-004", 20, 5)

	resp, raw := api.do(t, http.MethodPost, "/api/inventory/movements", "bodeguero",
		dto.RegisterMovementRequest{ItemID: item.ID, Type: "SALIDA", Quantity: decimal.NewFromInt(25)})
	require.Equal(t, http.StatusConflict, resp.StatusCode, string(raw))
	assert.Contains(t, string(raw), "INSUFFICIENT_STOCK")

	resp, raw = api.do(t, http.MethodPost, "/api/inventory/movements", "bodeguero",
		dto.RegisterMovementRequest{ItemID: item.ID, Type: "SALIDA", Quantity: decimal.NewFromInt(20)})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	resp, raw = api.do(t, http.MethodGet, "/api/inventory/alerts?read=false", "operario", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var alerts dto.AlertListResponse
	require.NoError(t, json.Unmarshal(raw, &alerts))
	require.Len(t, alerts.Items, 1)
	assert.Equal(t, "AGOTADO", alerts.Items[0].Type)

	resp, _ = api.do(t, http.MethodPatch, "/api/inventory/alerts/"+alerts.Items[0].ID+"/read", "operario", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, raw = api.do(t, http.MethodGet, "/api/inventory/movements?item_id="+item.ID, "operario", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var movs dto.MovementListResponse
	require.NoError(t, json.Unmarshal(raw, &movs))
	assert.Len(t, movs.Items, 2)

	resp, raw = api.do(t, http.MethodGet, "/api/inventory/replenishment-list", "operario", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `"total":1`)
}

func TestAPI_HojaDeAplicacionYMetricas(t *testing.T) {
	api := newTestAPI(t)
	item := api.createItem(t, "FER-005", 100, 5)
	api.recipe("R1", item.ID, 2)
	order := api.createOrder(t, "R1", 10)

	resp, raw := api.do(t, http.MethodGet, "/api/orders/"+order.ID+"/sheet", "operario", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	_, _ = api.do(t, http.MethodPost, "/api/orders/"+order.ID+"/close", "operario", nil)

	resp, raw = api.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `agro_orders_closed_total{result="applied"} 1`)
}
