// Worker de telemetría: declara una cola exclusiva anónima, la ata al
// exchange direct para las severidades pedidas por argumento y procesa los
// mensajes según su marcador de carga.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/stocknet-api/internal/infrastructure/broker"
	"github.com/jhoicas/stocknet-api/internal/worker"
	"github.com/jhoicas/stocknet-api/pkg/config"
	"github.com/jhoicas/stocknet-api/pkg/logger"
)

func main() {
	autoAck := flag.Bool("auto-ack", false, "confirmar mensajes al recibirlos (un crash durante el procesamiento los pierde)")
	flag.Parse()

	severities := flag.Args()
	if len(severities) == 0 {
		fmt.Fprintf(os.Stderr, "uso: %s [-auto-ack] severidad [severidad...]\n", os.Args[0])
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})

	if !cfg.Broker.Enabled() {
		log.Fatal().Msg("BROKER_URL es requerido para el worker")
	}

	bk, err := broker.DialAMQP(cfg.Broker.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al broker")
	}
	defer bk.Close()

	if err := bk.ExchangeDeclare(cfg.Broker.Exchange); err != nil {
		log.Fatal().Err(err).Msg("declarar exchange")
	}
	queue, err := bk.TempQueueDeclare()
	if err != nil {
		log.Fatal().Err(err).Msg("declarar cola exclusiva")
	}
	for _, severity := range severities {
		if err := bk.QueueBind(queue, cfg.Broker.Exchange, severity); err != nil {
			log.Fatal().Err(err).Str("severity", severity).Msg("atar cola")
		}
	}

	consumer, err := bk.Consume(queue, *autoAck)
	if err != nil {
		log.Fatal().Err(err).Msg("suscribir consumidor")
	}
	defer consumer.Close()

	log.Info().
		Strs("severities", severities).
		Bool("auto_ack", *autoAck).
		Str("queue", queue).
		Msg("esperando mensajes, Ctrl+C para salir")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetry := worker.NewTelemetryConsumer(*autoAck, log)
	if err := telemetry.Run(ctx, consumer); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("worker finalizado con error")
	}
	log.Info().Msg("worker detenido")
}
