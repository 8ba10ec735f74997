// Package broker modela la cola de trabajo que transporta las solicitudes
// de reposición: colas durables, exchange direct con routing keys,
// consumidores en competencia con reparto round-robin y acknowledgment
// manual o automático. Hay dos adaptadores: uno en proceso (testeable, con
// semántica completa de redelivery) y uno sobre AMQP.
package broker

import (
	"context"
	"errors"
)

// Errores del broker.
var (
	ErrClosed          = errors.New("broker cerrado")
	ErrUnknownQueue    = errors.New("cola no declarada")
	ErrUnknownExchange = errors.New("exchange no declarado")
	ErrUnknownTag      = errors.New("delivery tag desconocido")
)

// Delivery es una entrega: el mensaje es propiedad del broker entre publish
// y ack, y de exactamente un consumidor por intento de entrega.
type Delivery struct {
	Tag         uint64
	Exchange    string
	RoutingKey  string
	Body        []byte
	Persistent  bool
	Redelivered bool
}

// Consumer es la suscripción de un consumidor a una cola.
// En modo auto-ack el mensaje se da por entregado al salir del broker; en
// modo manual debe confirmarse con Ack o será reentregado a otro consumidor
// cuando este se desconecte.
type Consumer interface {
	// Deliveries devuelve el canal de entregas; se cierra con Close.
	Deliveries() <-chan Delivery
	// Ack confirma el procesamiento de una entrega por su tag.
	Ack(tag uint64) error
	// Close cancela la suscripción. Las entregas sin ack vuelven a la cola.
	Close() error
}

// Broker es el puerto del modelo de cola de trabajo.
type Broker interface {
	// QueueDeclare declara una cola con nombre; durable sobrevive reinicios.
	QueueDeclare(name string, durable bool) error
	// TempQueueDeclare declara una cola exclusiva anónima y devuelve su nombre.
	TempQueueDeclare() (string, error)
	// ExchangeDeclare declara un exchange de tipo direct.
	ExchangeDeclare(name string) error
	// QueueBind ata la cola al exchange para una routing key.
	QueueBind(queue, exchange, routingKey string) error
	// Publish publica en el exchange con la routing key dada. El exchange
	// vacío enruta directo a la cola con nombre igual a la routing key.
	// persistent marca el mensaje para sobrevivir reinicios en colas durables.
	Publish(ctx context.Context, exchange, routingKey string, body []byte, persistent bool) error
	// Consume suscribe un consumidor en competencia a la cola.
	Consume(queue string, autoAck bool) (Consumer, error)
	// Close libera la conexión al broker.
	Close() error
}
