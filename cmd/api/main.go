package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	_ "github.com/jhoicas/AgroOrdenes-api/docs"
	"github.com/jhoicas/AgroOrdenes-api/internal/application/inventory"
	"github.com/jhoicas/AgroOrdenes-api/internal/application/orders"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/repository"
	"github.com/jhoicas/AgroOrdenes-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/AgroOrdenes-api/internal/infrastructure/pdf"
	"github.com/jhoicas/AgroOrdenes-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/AgroOrdenes-api/internal/interfaces/http"
	"github.com/jhoicas/AgroOrdenes-api/pkg/config"
	"github.com/jhoicas/AgroOrdenes-api/pkg/logger"
	"github.com/jhoicas/AgroOrdenes-api/pkg/metrics"
	"github.com/jhoicas/AgroOrdenes-api/pkg/scheduler"
)

// @title        AgroOrdenes API
// @version      1.0
// @description  Órdenes de aplicación basadas en recetas y consumo de inventario de insumos.
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// stores repositorios y transacciones del backend elegido con STORE_DRIVER.
type stores struct {
	items     repository.ItemRepository
	movements repository.MovementRepository
	alerts    repository.AlertRepository
	orders    repository.OrderRepository
	recipes   repository.RecipeRepository
	parcels   repository.ParcelRepository
	users     repository.UserRepository
	tx        interface {
		inventory.TxRunner
		orders.OrderTxRunner
	}
	close func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, demo := openStores(ctx, cfg, log)
	defer st.close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	ledger := inventory.NewLedger(st.tx, log, m)
	itemUC := inventory.NewItemUseCase(st.items, st.movements, st.alerts, st.orders, st.tx, ledger, cfg.Inventory.RecentMovements, log)
	alertUC := inventory.NewAlertUseCase(st.alerts)
	replenishmentUC := inventory.NewReplenishmentUseCase(st.items, st.movements)
	refresher := inventory.NewStatusRefresher(st.items, st.tx, log, m)
	stockValidator := inventory.NewStockValidator(st.items, m)
	orderUC := orders.NewOrderUseCase(
		st.orders, st.items, st.recipes, st.parcels, st.users,
		st.tx, ledger, stockValidator, log, m,
	)
	// PDF: hoja de aplicación para el operario
	sheetUC := orders.NewSheetUseCase(
		st.orders, st.items, st.recipes, st.parcels, st.users,
		infrapdf.NewMarotoSheetGenerator(cfg.App.Name),
	)

	if demo != nil {
		if err := seedDemo(ctx, demo, itemUC); err != nil {
			log.Fatal().Err(err).Msg("datos de demostración")
		}
		log.Info().Msg("store en memoria con datos de demostración")
	}

	if cfg.Jobs.StatusRefreshHour >= 0 {
		jobs := scheduler.New(log, time.Local)
		err := jobs.Daily("refresh_status", cfg.Jobs.StatusRefreshHour, 0, func(ctx context.Context) error {
			_, err := refresher.RefreshAll(ctx)
			return err
		})
		if err != nil {
			log.Fatal().Err(err).Msg("programar recálculo de estados")
		}
		go jobs.Run(ctx)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "AgroOrdenes API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:        itemUC,
		Ledger:        ledger,
		AlertUC:       alertUC,
		Replenishment: replenishmentUC,
		OrderUC:       orderUC,
		SheetUC:       sheetUC,
		Gatherer:      reg,
		JWTSecret:     cfg.JWT.Secret,
		Log:           log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openStores abre el backend configurado. Con memory devuelve además el store para sembrarlo.
func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, *memory.Store) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		mem := memory.NewStore()
		return &stores{
			items:     mem.Items(),
			movements: mem.Movements(),
			alerts:    mem.Alerts(),
			orders:    mem.Orders(),
			recipes:   mem.Recipes(),
			parcels:   mem.Parcels(),
			users:     mem.Users(),
			tx:        mem,
			close:     func() {},
		}, mem
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			log.Fatal().Err(err).Msg("migración")
		}
		log.Info().Msg("esquema aplicado")
	}
	return &stores{
		items:     postgres.NewItemRepository(pool),
		movements: postgres.NewMovementRepository(pool),
		alerts:    postgres.NewAlertRepository(pool),
		orders:    postgres.NewOrderRepository(pool),
		recipes:   postgres.NewRecipeRepository(pool),
		parcels:   postgres.NewParcelRepository(pool),
		users:     postgres.NewUserRepository(pool),
		tx:        postgres.NewTxRunner(pool),
		close:     pool.Close,
	}, nil
}
