package broker

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var _ Broker = (*MemoryBroker)(nil)

const deliveryBuffer = 64

type message struct {
	exchange    string
	routingKey  string
	body        []byte
	persistent  bool
	redelivered bool
}

type memQueue struct {
	name      string
	durable   bool
	pending   []*message
	consumers []*memConsumer
	next      int // índice round-robin sobre consumers
}

// MemoryBroker implementa Broker en proceso, con la semántica completa del
// modelo: durabilidad simulada vía Restart, reparto round-robin entre
// consumidores en competencia y reentrega de mensajes sin ack.
type MemoryBroker struct {
	mu       sync.Mutex
	queues   map[string]*memQueue
	bindings map[string]map[string][]string // exchange -> routing key -> colas
	tag      uint64
	closed   bool
}

// NewMemoryBroker construye el broker en memoria.
func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{
		queues:   map[string]*memQueue{},
		bindings: map[string]map[string][]string{},
	}
}

// QueueDeclare declara la cola; redeclarar es idempotente.
func (b *MemoryBroker) QueueDeclare(name string, durable bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	if _, ok := b.queues[name]; !ok {
		b.queues[name] = &memQueue{name: name, durable: durable}
	}
	return nil
}

// TempQueueDeclare declara una cola anónima no durable.
func (b *MemoryBroker) TempQueueDeclare() (string, error) {
	name := "tmp." + uuid.New().String()
	if err := b.QueueDeclare(name, false); err != nil {
		return "", err
	}
	return name, nil
}

// ExchangeDeclare declara un exchange direct; redeclarar es idempotente.
func (b *MemoryBroker) ExchangeDeclare(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	if _, ok := b.bindings[name]; !ok {
		b.bindings[name] = map[string][]string{}
	}
	return nil
}

// QueueBind ata la cola al exchange para una routing key.
func (b *MemoryBroker) QueueBind(queue, exchange, routingKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	if _, ok := b.queues[queue]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQueue, queue)
	}
	keys, ok := b.bindings[exchange]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownExchange, exchange)
	}
	for _, bound := range keys[routingKey] {
		if bound == queue {
			return nil
		}
	}
	keys[routingKey] = append(keys[routingKey], queue)
	return nil
}

// Publish enruta el mensaje. Con exchange vacío enruta a la cola con nombre
// igual a la routing key; un mensaje sin cola destino se descarta en
// silencio, igual que un direct exchange sin binding para la key.
func (b *MemoryBroker) Publish(_ context.Context, exchange, routingKey string, body []byte, persistent bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}

	var targets []string
	if exchange == "" {
		if _, ok := b.queues[routingKey]; ok {
			targets = []string{routingKey}
		}
	} else {
		keys, ok := b.bindings[exchange]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownExchange, exchange)
		}
		targets = keys[routingKey]
	}

	for _, name := range targets {
		q, ok := b.queues[name]
		if !ok {
			continue
		}
		q.pending = append(q.pending, &message{
			exchange:   exchange,
			routingKey: routingKey,
			body:       body,
			persistent: persistent,
		})
		b.dispatch(q)
	}
	return nil
}

// Consume suscribe un consumidor a la cola y drena lo pendiente.
func (b *MemoryBroker) Consume(queue string, autoAck bool) (Consumer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}
	q, ok := b.queues[queue]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueue, queue)
	}
	c := &memConsumer{
		broker:  b,
		queue:   q,
		autoAck: autoAck,
		out:     make(chan Delivery, deliveryBuffer),
		unacked: map[uint64]*message{},
	}
	q.consumers = append(q.consumers, c)
	b.dispatch(q)
	return c, nil
}

// Restart simula un reinicio del broker: cierra todos los consumidores,
// elimina las colas no durables y, en las durables, conserva solo los
// mensajes persistentes (incluidos los entregados sin ack).
func (b *MemoryBroker) Restart() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for name, q := range b.queues {
		for _, c := range q.consumers {
			b.requeueUnacked(c)
			c.closeChan()
		}
		q.consumers = nil
		q.next = 0
		if !q.durable {
			delete(b.queues, name)
			b.unbindQueue(name)
			continue
		}
		kept := q.pending[:0]
		for _, m := range q.pending {
			if m.persistent {
				kept = append(kept, m)
			}
		}
		q.pending = kept
	}
}

// Close cierra el broker y todos sus consumidores.
func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for _, q := range b.queues {
		for _, c := range q.consumers {
			c.closeChan()
		}
		q.consumers = nil
	}
	return nil
}

// dispatch entrega pendientes en round-robin. Se invoca con b.mu tomado.
// Un consumidor con el buffer lleno cede el turno; si ninguno puede recibir,
// el mensaje queda pendiente.
func (b *MemoryBroker) dispatch(q *memQueue) {
	for len(q.pending) > 0 && len(q.consumers) > 0 {
		delivered := false
		for i := 0; i < len(q.consumers); i++ {
			c := q.consumers[q.next%len(q.consumers)]
			q.next++
			m := q.pending[0]
			b.tag++
			d := Delivery{
				Tag:         b.tag,
				Exchange:    m.exchange,
				RoutingKey:  m.routingKey,
				Body:        m.body,
				Persistent:  m.persistent,
				Redelivered: m.redelivered,
			}
			select {
			case c.out <- d:
				q.pending = q.pending[1:]
				if !c.autoAck {
					c.unacked[d.Tag] = m
				}
				delivered = true
			default:
				continue
			}
			break
		}
		if !delivered {
			return
		}
	}
}

// requeueUnacked devuelve a la cola los mensajes sin ack del consumidor,
// marcados como reentregados. Se invoca con b.mu tomado.
func (b *MemoryBroker) requeueUnacked(c *memConsumer) {
	for _, m := range c.unacked {
		m.redelivered = true
		c.queue.pending = append(c.queue.pending, m)
	}
	c.unacked = map[uint64]*message{}
}

func (b *MemoryBroker) unbindQueue(name string) {
	for _, keys := range b.bindings {
		for key, queues := range keys {
			kept := queues[:0]
			for _, q := range queues {
				if q != name {
					kept = append(kept, q)
				}
			}
			keys[key] = kept
		}
	}
}

type memConsumer struct {
	broker  *MemoryBroker
	queue   *memQueue
	autoAck bool
	out     chan Delivery
	unacked map[uint64]*message
	closed  bool
}

func (c *memConsumer) Deliveries() <-chan Delivery { return c.out }

func (c *memConsumer) Ack(tag uint64) error {
	c.broker.mu.Lock()
	defer c.broker.mu.Unlock()
	if c.autoAck {
		return nil
	}
	if _, ok := c.unacked[tag]; !ok {
		return ErrUnknownTag
	}
	delete(c.unacked, tag)
	return nil
}

// Close simula la desconexión del consumidor: lo saca de la cola, reencola
// sus entregas sin ack y deja que el broker las reparta a los que quedan.
func (c *memConsumer) Close() error {
	c.broker.mu.Lock()
	defer c.broker.mu.Unlock()
	if c.closed {
		return nil
	}
	kept := c.queue.consumers[:0]
	for _, other := range c.queue.consumers {
		if other != c {
			kept = append(kept, other)
		}
	}
	c.queue.consumers = kept
	c.queue.next = 0
	b := c.broker
	b.requeueUnacked(c)
	c.closeChan()
	b.dispatch(c.queue)
	return nil
}

// closeChan cierra el canal de entregas una sola vez. Con b.mu tomado.
func (c *memConsumer) closeChan() {
	if !c.closed {
		c.closed = true
		close(c.out)
	}
}
