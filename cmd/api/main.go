package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/stocknet-api/internal/application/dispatch"
	"github.com/jhoicas/stocknet-api/internal/application/inventory"
	"github.com/jhoicas/stocknet-api/internal/application/usecase"
	"github.com/jhoicas/stocknet-api/internal/domain/repository"
	"github.com/jhoicas/stocknet-api/internal/infrastructure/broker"
	"github.com/jhoicas/stocknet-api/internal/infrastructure/memory"
	"github.com/jhoicas/stocknet-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stocknet-api/internal/interfaces/http"
	"github.com/jhoicas/stocknet-api/pkg/config"
	"github.com/jhoicas/stocknet-api/pkg/logger"
	"github.com/jhoicas/stocknet-api/pkg/metrics"
)

// repos agrupa los puertos de persistencia que usa el servicio.
type repos struct {
	location repository.LocationRepository
	product  repository.ProductRepository
	inv      repository.InventoryRepository
	purchase repository.PurchaseRepository
	order    repository.OrderRepository
	outbox   repository.OutboxRepository
	txRunner inventory.TxRunner
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var r repos
	switch cfg.Store.Driver {
	case "postgres":
		if err := postgres.Migrate(cfg.DB.ConnectionString(), "migrations"); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		r = repos{
			location: postgres.NewLocationRepository(pool),
			product:  postgres.NewProductRepository(pool),
			inv:      postgres.NewInventoryRepository(pool),
			purchase: postgres.NewPurchaseRepository(pool),
			order:    postgres.NewOrderRepository(pool),
			outbox:   postgres.NewOutboxRepository(pool),
			txRunner: postgres.NewTxRunner(pool),
		}
	default:
		store := memory.NewStore()
		r = repos{
			location: memory.NewLocationRepository(store),
			product:  memory.NewProductRepository(store),
			inv:      memory.NewInventoryRepository(store),
			purchase: memory.NewPurchaseRepository(store),
			order:    memory.NewOrderRepository(store),
			outbox:   memory.NewOutboxRepository(store),
			txRunner: memory.NewTxRunner(store),
		}
	}

	replenisherUC := inventory.NewReplenishmentUseCase(cfg.Restock.Threshold, cfg.Restock.Quantity, log)
	purchaseUC := inventory.NewPurchaseUseCase(r.txRunner, r.location, r.product, r.purchase, replenisherUC)
	ledgerUC := inventory.NewLedgerUseCase(r.location, r.product, r.inv)
	locationUC := usecase.NewLocationUseCase(r.location, r.product, r.inv)
	productUC := usecase.NewProductUseCase(r.product, r.txRunner, replenisherUC)
	orderUC := usecase.NewOrderUseCase(r.order, log)

	// Canal de despacho: con broker configurado las solicitudes viajan como
	// mensajes persistentes; sin broker se crean las órdenes en este proceso.
	var dispatcher dispatch.Dispatcher
	if cfg.Broker.Enabled() {
		bk, err := broker.DialAMQP(cfg.Broker.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión al broker")
		}
		defer bk.Close()
		if err := bk.ExchangeDeclare(cfg.Broker.Exchange); err != nil {
			log.Fatal().Err(err).Msg("declarar exchange")
		}
		if err := bk.QueueDeclare(cfg.Broker.Queue, true); err != nil {
			log.Fatal().Err(err).Msg("declarar cola")
		}
		for _, key := range cfg.Broker.BindingKeys {
			if err := bk.QueueBind(cfg.Broker.Queue, cfg.Broker.Exchange, key); err != nil {
				log.Fatal().Err(err).Msg("atar cola")
			}
		}
		dispatcher = dispatch.NewQueueDispatcher(bk, cfg.Broker.Exchange, cfg.Broker.PublishTimeout, log)
		log.Info().Str("exchange", cfg.Broker.Exchange).Str("queue", cfg.Broker.Queue).Msg("despacho por broker")
	} else {
		dispatcher = dispatch.NewDirectDispatcher(orderUC, log)
		log.Info().Msg("despacho directo en proceso")
	}

	drainCtx, cancelDrain := context.WithCancel(ctx)
	defer cancelDrain()
	drainer := dispatch.NewOutboxDrainer(
		r.outbox, dispatcher,
		cfg.Restock.DrainInterval, cfg.Restock.DrainBatch, cfg.Restock.MaxAttempts,
		log,
	)
	go drainer.Run(drainCtx)

	// Servidor lateral de health/metrics, separado de la API.
	metricsSrv := metrics.NewServer(cfg.Metrics.Addr, cfg.Metrics.Enabled)
	go func() {
		if err := metricsSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("servidor de métricas finalizado")
		}
	}()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "StockNet API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		LocationUC: locationUC,
		ProductUC:  productUC,
		OrderUC:    orderUC,
		LedgerUC:   ledgerUC,
		PurchaseUC: purchaseUC,
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

	cancelDrain()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor de métricas")
	}

	log.Info().Msg("aplicación detenida")
}
