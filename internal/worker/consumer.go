// Package worker contiene los consumidores que procesan mensajes del broker:
// el consumidor de reposiciones que materializa órdenes pending y el
// consumidor de telemetría atado a severidades.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/stocknet-api/internal/application/dispatch"
	"github.com/jhoicas/stocknet-api/internal/domain/entity"
	"github.com/jhoicas/stocknet-api/internal/infrastructure/broker"
	"github.com/jhoicas/stocknet-api/pkg/logger"
	"github.com/jhoicas/stocknet-api/pkg/metrics"
)

// RestockConsumer consume solicitudes de reposición de la cola de órdenes y
// crea la orden pending correspondiente. Usa ack manual: el mensaje solo se
// confirma después de persistir la orden. Un fallo al crear la orden termina
// Run con error; el broker reentrega la solicitud sin confirmar a otro
// consumidor recién cuando este se desconecta, así que el proceso debe caer.
type RestockConsumer struct {
	orders dispatch.OrderCreator
	log    *logger.Logger
}

// NewRestockConsumer construye el consumidor.
func NewRestockConsumer(orders dispatch.OrderCreator, log *logger.Logger) *RestockConsumer {
	return &RestockConsumer{orders: orders, log: log}
}

// Run procesa entregas hasta que el canal se cierre, el contexto termine o
// falle la creación de una orden.
func (w *RestockConsumer) Run(ctx context.Context, consumer broker.Consumer) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-consumer.Deliveries():
			if !ok {
				return nil
			}
			if err := w.handle(ctx, consumer, delivery); err != nil {
				return err
			}
		}
	}
}

func (w *RestockConsumer) handle(ctx context.Context, consumer broker.Consumer, delivery broker.Delivery) error {
	metrics.DeliveriesConsumedTotal.WithLabelValues(delivery.RoutingKey).Inc()

	var req entity.RestockRequest
	if err := json.Unmarshal(delivery.Body, &req); err != nil {
		// Mensaje malformado: reentregarlo no lo arregla, se confirma y descarta.
		w.log.Warn().Err(err).Str("routing_key", delivery.RoutingKey).Msg("mensaje de reposición malformado")
		if err := consumer.Ack(delivery.Tag); err != nil {
			w.log.Error().Err(err).Msg("ack de mensaje malformado")
		}
		return nil
	}

	if _, err := w.orders.CreateFromRestock(ctx, req); err != nil {
		// Sin ack y sin seguir consumiendo: quedarse conectado dejaría la
		// entrega varada (el broker no reentrega a un consumidor vivo y con
		// prefetch 1 además bloquearía la cola). Se corta para que la
		// desconexión dispare la reentrega.
		w.log.Error().Err(err).
			Str("product_id", req.ProductID).
			Str("routing_key", delivery.RoutingKey).
			Msg("crear orden desde reposición")
		return fmt.Errorf("crear orden desde reposición: %w", err)
	}

	if err := consumer.Ack(delivery.Tag); err != nil {
		w.log.Error().Err(err).Str("product_id", req.ProductID).Msg("ack de reposición")
	}
	return nil
}

// TelemetryConsumer consume mensajes de telemetría de una cola atada a
// severidades. El cuerpo lleva un marcador de carga: cada '*' representa un
// segundo de procesamiento simulado.
type TelemetryConsumer struct {
	autoAck bool
	log     *logger.Logger
}

// NewTelemetryConsumer construye el consumidor. Con autoAck el broker da el
// mensaje por entregado al salir; un crash durante el procesamiento lo pierde.
func NewTelemetryConsumer(autoAck bool, log *logger.Logger) *TelemetryConsumer {
	return &TelemetryConsumer{autoAck: autoAck, log: log}
}

// Run procesa entregas hasta que el canal se cierre o el contexto termine.
func (w *TelemetryConsumer) Run(ctx context.Context, consumer broker.Consumer) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-consumer.Deliveries():
			if !ok {
				return nil
			}
			if err := w.handle(ctx, consumer, delivery); err != nil {
				return err
			}
		}
	}
}

func (w *TelemetryConsumer) handle(ctx context.Context, consumer broker.Consumer, delivery broker.Delivery) error {
	metrics.DeliveriesConsumedTotal.WithLabelValues(delivery.RoutingKey).Inc()

	body := string(delivery.Body)
	w.log.Info().
		Str("routing_key", delivery.RoutingKey).
		Str("body", body).
		Bool("redelivered", delivery.Redelivered).
		Msg("mensaje recibido")

	workload := time.Duration(strings.Count(body, "*")) * time.Second
	if workload > 0 {
		timer := time.NewTimer(workload)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	w.log.Info().Dur("workload", workload).Msg("mensaje procesado")

	if !w.autoAck {
		if err := consumer.Ack(delivery.Tag); err != nil {
			w.log.Error().Err(err).Uint64("tag", delivery.Tag).Msg("ack de telemetría")
		}
	}
	return nil
}
