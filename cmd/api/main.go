package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	appanalytics "github.com/jhoicas/pos-api/internal/application/analytics"
	"github.com/jhoicas/pos-api/internal/application/catalog"
	"github.com/jhoicas/pos-api/internal/application/ledger"
	"github.com/jhoicas/pos-api/internal/application/sales"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
	"github.com/jhoicas/pos-api/internal/infrastructure/observability"
	"github.com/jhoicas/pos-api/internal/infrastructure/postgres"
	redisstats "github.com/jhoicas/pos-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/pos-api/internal/interfaces/http"
	"github.com/jhoicas/pos-api/pkg/config"
	"github.com/jhoicas/pos-api/pkg/logger"
)

// backend repositorios y unidad de trabajo del driver elegido.
type backend struct {
	tx       sales.SaleTxRunner
	products repository.ProductRepository
	sales    repository.SaleRepository
	ledger   repository.LedgerRepository
	ping     func(context.Context) error
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	tracerProvider, shutdownTracing, err := observability.SetupTracing(ctx, cfg.Telemetry, cfg.App.Env)
	if err != nil {
		log.Fatal().Err(err).Msg("configurar OpenTelemetry")
	}

	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar persistencia")
	}
	defer be.close()

	// Caché de estadísticas: opcional. Sin REDIS_URL el dashboard consulta siempre la base.
	var (
		statsCache       appanalytics.StatsCache
		salesInvalidator sales.StatsInvalidator
		ledgerInvalidator ledger.StatsInvalidator
	)
	if cfg.Redis.URL != "" {
		client, err := redisstats.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, dashboard sin caché")
		} else {
			defer client.Close()
			cache := redisstats.NewStatsCache(client, cfg.Redis.StatsTTL)
			statsCache, salesInvalidator, ledgerInvalidator = cache, cache, cache
		}
	}

	loc := cfg.App.Location()
	recordSaleUC := sales.NewRecordSaleUseCase(be.tx, be.products, salesInvalidator, log, sales.Options{
		InvoicePrefix:      cfg.Sales.InvoicePrefix,
		InvoiceMaxAttempts: cfg.Sales.InvoiceMaxAttempts,
		ConflictMaxRetries: cfg.Sales.ConflictMaxRetries,
		Location:           loc,
		TracerProvider:     tracerProvider,
	})
	saleQueryUC := sales.NewSaleQueryUseCase(be.sales)
	productUC := catalog.NewProductUseCase(be.products)
	ledgerUC := ledger.NewLedgerUseCase(be.ledger, ledgerInvalidator, log)
	dashboardUC := appanalytics.NewDashboardUseCase(be.products, be.sales, be.ledger, statsCache, loc, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "POS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		pingCtx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := be.ping(pingCtx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		RecordSale:  recordSaleUC,
		SaleQuery:   saleQueryUC,
		ProductUC:   productUC,
		LedgerUC:    ledgerUC,
		DashboardUC: dashboardUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("cierre de OpenTelemetry")
	}

	log.Info().Msg("aplicación detenida")
}

func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*backend, error) {
	if cfg.Store.Driver == "memory" {
		store := memory.NewStore()
		if cfg.Store.SeedDemo {
			products, err := store.SeedDemo(ctx, memory.DemoTenantID)
			if err != nil {
				return nil, err
			}
			log.Info().Str("tenant_id", memory.DemoTenantID).Int("products", len(products)).Msg("catálogo demo cargado")
		}
		return &backend{
			tx:       store,
			products: store.Products(),
			sales:    store.Sales(),
			ledger:   store.Ledger(),
			ping:     func(context.Context) error { return nil },
			close:    func() {},
		}, nil
	}

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString(), log); err != nil {
			return nil, err
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &backend{
		tx:       postgres.NewTxRunner(pool, cfg.Sales.LockTimeout, log),
		products: postgres.NewProductRepository(pool),
		sales:    postgres.NewSaleRepository(pool),
		ledger:   postgres.NewLedgerRepository(pool),
		ping:     pool.Ping,
		close:    pool.Close,
	}, nil
}
