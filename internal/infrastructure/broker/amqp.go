package broker

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

var _ Broker = (*AMQPBroker)(nil)

// AMQPBroker adapta el puerto Broker sobre RabbitMQ (amqp091). La conexión
// se adquiere al arrancar el proceso y un fallo de conexión es fatal para el
// consumidor: el broker reentrega lo no confirmado a otro consumidor.
type AMQPBroker struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// DialAMQP abre la conexión y el canal de publicación.
func DialAMQP(url string) (*AMQPBroker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("conectar al broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("abrir canal: %w", err)
	}
	return &AMQPBroker{conn: conn, ch: ch}, nil
}

// QueueDeclare declara una cola con nombre.
func (b *AMQPBroker) QueueDeclare(name string, durable bool) error {
	_, err := b.ch.QueueDeclare(name, durable, false, false, false, nil)
	return err
}

// TempQueueDeclare declara una cola exclusiva anónima; el broker genera el nombre.
func (b *AMQPBroker) TempQueueDeclare() (string, error) {
	q, err := b.ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return "", err
	}
	return q.Name, nil
}

// ExchangeDeclare declara un exchange direct durable.
func (b *AMQPBroker) ExchangeDeclare(name string) error {
	return b.ch.ExchangeDeclare(name, "direct", true, false, false, false, nil)
}

// QueueBind ata la cola al exchange para una routing key.
func (b *AMQPBroker) QueueBind(queue, exchange, routingKey string) error {
	return b.ch.QueueBind(queue, routingKey, exchange, false, nil)
}

// Publish publica el mensaje; persistent usa delivery mode 2 para que el
// mensaje sobreviva un reinicio del broker en colas durables.
func (b *AMQPBroker) Publish(ctx context.Context, exchange, routingKey string, body []byte, persistent bool) error {
	deliveryMode := amqp.Transient
	if persistent {
		deliveryMode = amqp.Persistent
	}
	return b.ch.PublishWithContext(ctx, exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: deliveryMode,
		Body:         body,
	})
}

// Consume abre un canal propio para el consumidor y arranca la conversión
// de entregas. Cada consumidor tiene su canal para que Close no afecte al
// resto.
func (b *AMQPBroker) Consume(queue string, autoAck bool) (Consumer, error) {
	ch, err := b.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("abrir canal de consumo: %w", err)
	}
	// Reparto justo: una entrega sin ack por consumidor a la vez.
	if !autoAck {
		if err := ch.Qos(1, 0, false); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("configurar qos: %w", err)
		}
	}
	deliveries, err := ch.Consume(queue, "", autoAck, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("consumir cola %s: %w", queue, err)
	}
	c := &amqpConsumer{ch: ch, out: make(chan Delivery)}
	go c.pump(deliveries)
	return c, nil
}

// Close cierra canal y conexión.
func (b *AMQPBroker) Close() error {
	if err := b.ch.Close(); err != nil {
		_ = b.conn.Close()
		return err
	}
	return b.conn.Close()
}

type amqpConsumer struct {
	ch  *amqp.Channel
	out chan Delivery
}

func (c *amqpConsumer) pump(deliveries <-chan amqp.Delivery) {
	for d := range deliveries {
		c.out <- Delivery{
			Tag:         d.DeliveryTag,
			Exchange:    d.Exchange,
			RoutingKey:  d.RoutingKey,
			Body:        d.Body,
			Persistent:  d.DeliveryMode == amqp.Persistent,
			Redelivered: d.Redelivered,
		}
	}
	close(c.out)
}

func (c *amqpConsumer) Deliveries() <-chan Delivery { return c.out }

func (c *amqpConsumer) Ack(tag uint64) error {
	return c.ch.Ack(tag, false)
}

func (c *amqpConsumer) Close() error {
	return c.ch.Close()
}
