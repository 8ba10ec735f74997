package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/jhoicas/stocknet-api/internal/domain/entity"
	"github.com/jhoicas/stocknet-api/pkg/logger"
)

// Dispatcher es el canal de despacho de órdenes: entrega una solicitud de
// reposición al lado de órdenes. Hay dos transportes válidos: llamada
// directa en proceso o publicación en el broker de colas.
type Dispatcher interface {
	Dispatch(ctx context.Context, entry *entity.OutboxEntry) error
}

// Publisher es el puerto mínimo hacia el broker que necesita el transporte
// por cola.
type Publisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body []byte, persistent bool) error
}

// OrderCreator es el puerto hacia el gestor de ciclo de vida de órdenes que
// usa el transporte directo (variante de un solo proceso).
type OrderCreator interface {
	CreateFromRestock(ctx context.Context, req entity.RestockRequest) (*entity.Order, error)
}

// PermanentError marca un fallo de despacho que no tiene sentido reintentar
// (la solicitud en sí es inválida). Todo lo demás se considera reintenable.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return "despacho no reintenable: " + e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent envuelve err como fallo no reintenable.
func Permanent(err error) error { return &PermanentError{Err: err} }

// IsPermanent indica si err es un fallo no reintenable.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}

// DirectDispatcher llama de forma síncrona al gestor de órdenes, para la
// variante en la que inventario y órdenes corren en el mismo proceso.
type DirectDispatcher struct {
	orders OrderCreator
	log    *logger.Logger
}

// NewDirectDispatcher construye el transporte directo.
func NewDirectDispatcher(orders OrderCreator, log *logger.Logger) *DirectDispatcher {
	return &DirectDispatcher{orders: orders, log: log}
}

// Dispatch crea la orden en pending directamente.
func (d *DirectDispatcher) Dispatch(ctx context.Context, entry *entity.OutboxEntry) error {
	order, err := d.orders.CreateFromRestock(ctx, entry.Request)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		// El gestor rechazó la solicitud: reintentar no va a cambiar nada.
		return Permanent(err)
	}
	d.log.Debug().
		Str("order_id", order.ID).
		Str("product_id", entry.Request.ProductID).
		Msg("orden de reposición creada por despacho directo")
	return nil
}

// QueueDispatcher publica la solicitud como mensaje persistente en el
// exchange direct del broker. Un circuit breaker acota el intento cuando el
// broker está caído, para no acoplar la latencia de la compra a sus fallos.
type QueueDispatcher struct {
	pub      Publisher
	exchange string
	timeout  time.Duration
	cb       *gobreaker.CircuitBreaker[struct{}]
	log      *logger.Logger
}

// NewQueueDispatcher construye el transporte por cola.
func NewQueueDispatcher(pub Publisher, exchange string, timeout time.Duration, log *logger.Logger) *QueueDispatcher {
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:    "restock-publish",
		Timeout: 15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	return &QueueDispatcher{
		pub:      pub,
		exchange: exchange,
		timeout:  timeout,
		cb:       cb,
		log:      log,
	}
}

// Dispatch serializa y publica la solicitud con la routing key de la entrada.
// Fallos de publicación y breaker abierto son reintenables; un fallo de
// serialización es permanente.
func (d *QueueDispatcher) Dispatch(ctx context.Context, entry *entity.OutboxEntry) error {
	body, err := json.Marshal(entry.Request)
	if err != nil {
		return Permanent(fmt.Errorf("serializar solicitud de reposición: %w", err))
	}

	_, err = d.cb.Execute(func() (struct{}, error) {
		pubCtx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()
		return struct{}{}, d.pub.Publish(pubCtx, d.exchange, entry.RoutingKey, body, true)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			d.log.Warn().Str("outbox_id", entry.ID).Msg("breaker abierto: publicación pospuesta")
		}
		return fmt.Errorf("publicar solicitud de reposición: %w", err)
	}
	return nil
}
