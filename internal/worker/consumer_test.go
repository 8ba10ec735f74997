package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocknet-api/internal/application/usecase"
	"github.com/jhoicas/stocknet-api/internal/domain/entity"
	"github.com/jhoicas/stocknet-api/internal/infrastructure/broker"
	"github.com/jhoicas/stocknet-api/internal/infrastructure/memory"
	"github.com/jhoicas/stocknet-api/internal/worker"
	"github.com/jhoicas/stocknet-api/pkg/logger"
)

func publishRestock(t *testing.T, b *broker.MemoryBroker, req entity.RestockRequest) {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	require.NoError(t, b.Publish(context.Background(), "restock", "restock.normal", body, true))
}

func waitForOrders(t *testing.T, orderUC *usecase.OrderUseCase, want int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		orders, err := orderUC.List(context.Background(), 100, 0)
		require.NoError(t, err)
		if len(orders.Items) == want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("esperaba %d órdenes, hay %d", want, len(orders.Items))
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestRestockConsumerCreaOrdenYConfirma(t *testing.T) {
	b := broker.NewMemoryBroker()
	defer b.Close()
	require.NoError(t, b.ExchangeDeclare("restock"))
	require.NoError(t, b.QueueDeclare("orders", true))
	require.NoError(t, b.QueueBind("orders", "restock", "restock.normal"))

	orderUC := usecase.NewOrderUseCase(memory.NewOrderRepository(memory.NewStore()), logger.Nop())
	consumer, err := b.Consume("orders", false)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = worker.NewRestockConsumer(orderUC, logger.Nop()).Run(ctx, consumer)
	}()

	publishRestock(t, b, entity.RestockRequest{
		LocationID:  "loc-1",
		ProductID:   "prod-1",
		ProductName: "Cable UTP",
		Quantity:    100,
	})
	waitForOrders(t, orderUC, 1)

	orders, err := orderUC.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, "pending", orders.Items[0].Status)
	assert.Equal(t, "loc-1", orders.Items[0].DestinationLocationID)

	// Confirmado: al caer el consumidor no hay nada que reentregar.
	cancel()
	require.NoError(t, consumer.Close())
	check, err := b.Consume("orders", false)
	require.NoError(t, err)
	select {
	case d := <-check.Deliveries():
		t.Fatalf("reentrega inesperada: %s", d.Body)
	case <-time.After(50 * time.Millisecond):
	}
}

// creadorFallido simula un repositorio de órdenes caído.
type creadorFallido struct {
	mu    sync.Mutex
	calls int
}

func (c *creadorFallido) CreateFromRestock(context.Context, entity.RestockRequest) (*entity.Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return nil, errors.New("repositorio de órdenes no disponible")
}

func (c *creadorFallido) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestRestockConsumerCortaAnteFalloDeCreacion(t *testing.T) {
	b := broker.NewMemoryBroker()
	defer b.Close()
	require.NoError(t, b.QueueDeclare("orders", true))

	creador := &creadorFallido{}
	consumer, err := b.Consume("orders", false)
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() {
		errCh <- worker.NewRestockConsumer(creador, logger.Nop()).Run(context.Background(), consumer)
	}()

	body, err := json.Marshal(entity.RestockRequest{
		LocationID:  "loc-1",
		ProductID:   "prod-1",
		ProductName: "Cable UTP",
		Quantity:    100,
	})
	require.NoError(t, err)
	require.NoError(t, b.Publish(context.Background(), "", "orders", body, true))

	// Run termina con error en vez de quedarse conectado con la entrega varada.
	select {
	case err := <-errCh:
		require.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run no terminó tras el fallo de creación")
	}
	assert.Equal(t, 1, creador.callCount())

	// La desconexión devuelve la entrega sin confirmar a la cola.
	require.NoError(t, consumer.Close())
	check, err := b.Consume("orders", false)
	require.NoError(t, err)
	select {
	case d := <-check.Deliveries():
		assert.True(t, d.Redelivered)
		assert.Equal(t, string(body), string(d.Body))
	case <-time.After(2 * time.Second):
		t.Fatal("la solicitud sin confirmar no fue reentregada")
	}
}

func TestRestockConsumerDescartaMalformado(t *testing.T) {
	b := broker.NewMemoryBroker()
	defer b.Close()
	require.NoError(t, b.QueueDeclare("orders", true))

	orderUC := usecase.NewOrderUseCase(memory.NewOrderRepository(memory.NewStore()), logger.Nop())
	consumer, err := b.Consume("orders", false)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = worker.NewRestockConsumer(orderUC, logger.Nop()).Run(ctx, consumer)
	}()

	require.NoError(t, b.Publish(ctx, "", "orders", []byte("{no es json"), true))
	time.Sleep(100 * time.Millisecond)

	// Ni orden creada ni mensaje atascado en la cola.
	orders, err := orderUC.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, orders.Items)

	cancel()
	require.NoError(t, consumer.Close())
	check, err := b.Consume("orders", false)
	require.NoError(t, err)
	select {
	case d := <-check.Deliveries():
		t.Fatalf("reentrega inesperada: %s", d.Body)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTelemetryConsumerConfirmaConAckManual(t *testing.T) {
	b := broker.NewMemoryBroker()
	defer b.Close()
	require.NoError(t, b.QueueDeclare("telemetry", false))

	consumer, err := b.Consume("telemetry", false)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = worker.NewTelemetryConsumer(false, logger.Nop()).Run(ctx, consumer)
		close(done)
	}()

	// Sin '*' no hay carga simulada: el mensaje se procesa de inmediato.
	require.NoError(t, b.Publish(ctx, "", "telemetry", []byte("hola"), false))
	time.Sleep(100 * time.Millisecond)

	cancel()
	require.NoError(t, consumer.Close())
	<-done

	check, err := b.Consume("telemetry", false)
	require.NoError(t, err)
	select {
	case d := <-check.Deliveries():
		t.Fatalf("reentrega inesperada: %s", d.Body)
	case <-time.After(50 * time.Millisecond):
	}
}
