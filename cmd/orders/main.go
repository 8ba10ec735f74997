// El servicio de órdenes de la variante multiproceso: expone la API de
// órdenes y consume las solicitudes de reposición de la cola durable con
// ack manual.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/stocknet-api/internal/application/usecase"
	"github.com/jhoicas/stocknet-api/internal/domain/repository"
	"github.com/jhoicas/stocknet-api/internal/infrastructure/broker"
	"github.com/jhoicas/stocknet-api/internal/infrastructure/memory"
	"github.com/jhoicas/stocknet-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stocknet-api/internal/interfaces/http"
	"github.com/jhoicas/stocknet-api/internal/worker"
	"github.com/jhoicas/stocknet-api/pkg/config"
	"github.com/jhoicas/stocknet-api/pkg/logger"
	"github.com/jhoicas/stocknet-api/pkg/metrics"
)

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
		Str("store", cfg.Store.Driver).
		Msg("iniciando servicio de órdenes")

	if !cfg.Broker.Enabled() {
		log.Fatal().Msg("BROKER_URL es requerido para el servicio de órdenes")
	}

	ctx := context.Background()

	var orderRepo repository.OrderRepository
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
		orderRepo = postgres.NewOrderRepository(pool)
	default:
		orderRepo = memory.NewOrderRepository(memory.NewStore())
	}

	orderUC := usecase.NewOrderUseCase(orderRepo, log)

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

	// Ack manual: la solicitud se confirma recién con la orden persistida.
	consumer, err := bk.Consume(cfg.Broker.Queue, false)
	if err != nil {
		log.Fatal().Err(err).Msg("suscribir consumidor")
	}

	consumeCtx, cancelConsume := context.WithCancel(ctx)
	defer cancelConsume()
	restockConsumer := worker.NewRestockConsumer(orderUC, log)
	go func() {
		if err := restockConsumer.Run(consumeCtx, consumer); err != nil && !errors.Is(err, context.Canceled) {
			// Fatal: cerrar el consumidor libera las entregas sin confirmar
			// para que el broker las reentregue a otro proceso.
			_ = consumer.Close()
			log.Fatal().Err(err).Msg("consumidor de reposiciones finalizado")
		}
	}()

	metricsSrv := metrics.NewServer(cfg.Metrics.Addr, cfg.Metrics.Enabled)
	go func() {
		if err := metricsSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("servidor de métricas finalizado")
		}
	}()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name + "-orders",
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name + "-orders"})
	})

	orders := app.Group("/api/orders")
	orderHandler := httpRouter.NewOrderHandler(orderUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Put("/:id/status", orderHandler.SetStatus)
	orders.Delete("/:id", orderHandler.Delete)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servicio...")

	cancelConsume()
	_ = consumer.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor de métricas")
	}

	log.Info().Msg("servicio de órdenes detenido")
}
