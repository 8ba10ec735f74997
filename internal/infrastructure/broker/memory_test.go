package broker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocknet-api/internal/infrastructure/broker"
)

func recv(t *testing.T, c broker.Consumer) broker.Delivery {
	t.Helper()
	select {
	case d, ok := <-c.Deliveries():
		require.True(t, ok, "canal de entregas cerrado")
		return d
	case <-time.After(time.Second):
		t.Fatal("timeout esperando entrega")
		return broker.Delivery{}
	}
}

func assertNoDelivery(t *testing.T, c broker.Consumer) {
	t.Helper()
	select {
	case d := <-c.Deliveries():
		t.Fatalf("entrega inesperada: %s", d.Body)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishEnrutaPorRoutingKey(t *testing.T) {
	b := broker.NewMemoryBroker()
	defer b.Close()
	ctx := context.Background()

	require.NoError(t, b.ExchangeDeclare("telemetry"))

	qErr, err := b.TempQueueDeclare()
	require.NoError(t, err)
	require.NoError(t, b.QueueBind(qErr, "telemetry", "error"))

	qAll, err := b.TempQueueDeclare()
	require.NoError(t, err)
	require.NoError(t, b.QueueBind(qAll, "telemetry", "error"))
	require.NoError(t, b.QueueBind(qAll, "telemetry", "info"))

	cErr, err := b.Consume(qErr, true)
	require.NoError(t, err)
	cAll, err := b.Consume(qAll, true)
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, "telemetry", "info", []byte("i1"), false))
	require.NoError(t, b.Publish(ctx, "telemetry", "error", []byte("e1"), false))

	// La cola atada solo a "error" no ve el mensaje "info".
	d := recv(t, cErr)
	assert.Equal(t, "e1", string(d.Body))
	assert.Equal(t, "error", d.RoutingKey)
	assertNoDelivery(t, cErr)

	assert.Equal(t, "i1", string(recv(t, cAll).Body))
	assert.Equal(t, "e1", string(recv(t, cAll).Body))
}

func TestPublishSinBindingSeDescarta(t *testing.T) {
	b := broker.NewMemoryBroker()
	defer b.Close()

	require.NoError(t, b.ExchangeDeclare("telemetry"))
	q, err := b.TempQueueDeclare()
	require.NoError(t, err)
	require.NoError(t, b.QueueBind(q, "telemetry", "info"))

	c, err := b.Consume(q, true)
	require.NoError(t, err)

	// Sin binding para "debug": el mensaje se pierde sin error.
	require.NoError(t, b.Publish(context.Background(), "telemetry", "debug", []byte("d1"), false))
	assertNoDelivery(t, c)
}

func TestPublishExchangeVacioEnrutaPorNombreDeCola(t *testing.T) {
	b := broker.NewMemoryBroker()
	defer b.Close()

	require.NoError(t, b.QueueDeclare("tareas", true))
	c, err := b.Consume("tareas", true)
	require.NoError(t, err)

	require.NoError(t, b.Publish(context.Background(), "", "tareas", []byte("t1"), true))
	assert.Equal(t, "t1", string(recv(t, c).Body))
}

func TestConsumidoresEnCompetenciaRoundRobin(t *testing.T) {
	b := broker.NewMemoryBroker()
	defer b.Close()
	ctx := context.Background()

	require.NoError(t, b.QueueDeclare("tareas", true))
	c1, err := b.Consume("tareas", true)
	require.NoError(t, err)
	c2, err := b.Consume("tareas", true)
	require.NoError(t, err)

	for _, body := range []string{"a", "b", "c", "d"} {
		require.NoError(t, b.Publish(ctx, "", "tareas", []byte(body), false))
	}

	// Reparto alternado: cada mensaje va a exactamente un consumidor.
	assert.Equal(t, "a", string(recv(t, c1).Body))
	assert.Equal(t, "b", string(recv(t, c2).Body))
	assert.Equal(t, "c", string(recv(t, c1).Body))
	assert.Equal(t, "d", string(recv(t, c2).Body))
}

func TestAckManualReentregaAlDesconectar(t *testing.T) {
	b := broker.NewMemoryBroker()
	defer b.Close()
	ctx := context.Background()

	require.NoError(t, b.QueueDeclare("tareas", true))
	c1, err := b.Consume("tareas", false)
	require.NoError(t, err)
	c2, err := b.Consume("tareas", false)
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, "", "tareas", []byte("t1"), true))
	require.NoError(t, b.Publish(ctx, "", "tareas", []byte("t2"), true))

	d1 := recv(t, c1)
	d2 := recv(t, c2)
	require.NoError(t, c2.Ack(d2.Tag))

	// c1 se desconecta sin confirmar: su entrega vuelve a la cola y la
	// recibe el consumidor sobreviviente, marcada como reentregada.
	require.NoError(t, c1.Close())
	redelivered := recv(t, c2)
	assert.Equal(t, string(d1.Body), string(redelivered.Body))
	assert.True(t, redelivered.Redelivered)
}

func TestAutoAckPierdeLoEntregado(t *testing.T) {
	b := broker.NewMemoryBroker()
	defer b.Close()

	require.NoError(t, b.QueueDeclare("tareas", true))
	c1, err := b.Consume("tareas", true)
	require.NoError(t, err)

	require.NoError(t, b.Publish(context.Background(), "", "tareas", []byte("t1"), true))
	recv(t, c1)

	// Con auto-ack la entrega se dio por confirmada al salir: al caer el
	// consumidor no hay nada que reentregar.
	require.NoError(t, c1.Close())
	c2, err := b.Consume("tareas", false)
	require.NoError(t, err)
	assertNoDelivery(t, c2)
}

func TestAckTagDesconocido(t *testing.T) {
	b := broker.NewMemoryBroker()
	defer b.Close()

	require.NoError(t, b.QueueDeclare("tareas", true))
	c, err := b.Consume("tareas", false)
	require.NoError(t, err)

	assert.ErrorIs(t, c.Ack(999), broker.ErrUnknownTag)
}

func TestRestartConservaSoloPersistentesEnColasDurables(t *testing.T) {
	b := broker.NewMemoryBroker()
	defer b.Close()
	ctx := context.Background()

	require.NoError(t, b.QueueDeclare("durable", true))
	tmp, err := b.TempQueueDeclare()
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, "", "durable", []byte("persistente"), true))
	require.NoError(t, b.Publish(ctx, "", "durable", []byte("transitorio"), false))
	require.NoError(t, b.Publish(ctx, "", tmp, []byte("efimero"), true))

	b.Restart()

	// La cola durable conserva solo el mensaje persistente.
	c, err := b.Consume("durable", false)
	require.NoError(t, err)
	assert.Equal(t, "persistente", string(recv(t, c).Body))
	assertNoDelivery(t, c)

	// La cola temporal no sobrevive el reinicio.
	_, err = b.Consume(tmp, false)
	assert.ErrorIs(t, err, broker.ErrUnknownQueue)
}

func TestRestartReencolaEntregadosSinAck(t *testing.T) {
	b := broker.NewMemoryBroker()
	defer b.Close()

	require.NoError(t, b.QueueDeclare("durable", true))
	c1, err := b.Consume("durable", false)
	require.NoError(t, err)

	require.NoError(t, b.Publish(context.Background(), "", "durable", []byte("t1"), true))
	recv(t, c1)

	// Entregado pero sin ack al reiniciar: el mensaje no se pierde.
	b.Restart()
	c2, err := b.Consume("durable", false)
	require.NoError(t, err)
	d := recv(t, c2)
	assert.Equal(t, "t1", string(d.Body))
	assert.True(t, d.Redelivered)
}

func TestOperacionesTrasClose(t *testing.T) {
	b := broker.NewMemoryBroker()
	require.NoError(t, b.QueueDeclare("tareas", true))
	require.NoError(t, b.Close())

	assert.ErrorIs(t, b.QueueDeclare("otra", false), broker.ErrClosed)
	assert.ErrorIs(t, b.Publish(context.Background(), "", "tareas", []byte("x"), false), broker.ErrClosed)
	_, err := b.Consume("tareas", true)
	assert.ErrorIs(t, err, broker.ErrClosed)
}
