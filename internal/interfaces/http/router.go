package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/AgroOrdenes-api/internal/application/inventory"
	"github.com/jhoicas/AgroOrdenes-api/internal/application/orders"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
	"github.com/jhoicas/AgroOrdenes-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC        *inventory.ItemUseCase
	Ledger        *inventory.Ledger
	AlertUC       *inventory.AlertUseCase
	Replenishment *inventory.ReplenishmentUseCase
	OrderUC       *orders.OrderUseCase
	SheetUC       *orders.SheetUseCase
	Gatherer      prometheus.Gatherer // nil = sin /metrics
	JWTSecret     string
	Log           *logger.Logger
}

// Router registra las rutas de la API.
//
// Roles: admin y bodeguero administran el inventario; admin y agronomo planifican órdenes;
// el cierre lo pueden hacer admin, bodeguero y operario. Las consultas requieren solo autenticación.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")

	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api", RequestLogger(log))
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	inventoryAdmin := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)
	planner := RequireRole(entity.RoleAdmin, entity.RoleAgronomo)
	closer := RequireRole(entity.RoleAdmin, entity.RoleBodeguero, entity.RoleOperario)

	// Inventario
	inv := protected.Group("/inventory")
	invHandler := NewInventoryHandler(deps.ItemUC, deps.Ledger, deps.Replenishment, log)
	inv.Get("/items", invHandler.ListItems)
	inv.Get("/items/search", invHandler.SearchItems)
	inv.Get("/items/:id", invHandler.GetItem)
	inv.Post("/items", inventoryAdmin, invHandler.CreateItem)
	inv.Put("/items/:id", inventoryAdmin, invHandler.UpdateItem)
	inv.Delete("/items/:id", inventoryAdmin, invHandler.DeleteItem)
	inv.Get("/statistics", invHandler.Statistics)
	inv.Get("/movements", invHandler.ListMovements)
	inv.Post("/movements", inventoryAdmin, invHandler.RegisterMovement)
	inv.Get("/replenishment-list", invHandler.GetReplenishmentList)

	alertHandler := NewAlertHandler(deps.AlertUC, log)
	inv.Get("/alerts", alertHandler.List)
	inv.Patch("/alerts/:id/read", alertHandler.MarkRead)

	// Órdenes de aplicación
	ord := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC, deps.SheetUC, log)
	ord.Get("/", orderHandler.List)
	ord.Get("/statistics", orderHandler.Statistics)
	ord.Post("/validate-stock", orderHandler.ValidateStock)
	ord.Post("/", planner, orderHandler.Create)
	ord.Get("/:id", orderHandler.GetByID)
	ord.Get("/:id/sheet", orderHandler.DownloadSheet)
	ord.Put("/:id", planner, orderHandler.Update)
	ord.Delete("/:id", planner, orderHandler.Delete)
	ord.Post("/:id/close", closer, orderHandler.Close)
	ord.Post("/:id/cancel", planner, orderHandler.Cancel)

	protected.Get("/parcels/:parcel_id/orders", orderHandler.History)
}
