package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocknet-api/internal/application/dto"
	"github.com/jhoicas/stocknet-api/internal/application/usecase"
	"github.com/jhoicas/stocknet-api/internal/domain"
	"github.com/jhoicas/stocknet-api/internal/domain/entity"
	"github.com/jhoicas/stocknet-api/internal/infrastructure/memory"
	"github.com/jhoicas/stocknet-api/pkg/logger"
)

func newOrderUC() *usecase.OrderUseCase {
	return usecase.NewOrderUseCase(memory.NewOrderRepository(memory.NewStore()), logger.Nop())
}

func createOrder(t *testing.T, uc *usecase.OrderUseCase) *dto.OrderResponse {
	t.Helper()
	out, err := uc.Create(context.Background(), dto.CreateOrderRequest{
		ProductID: "prod-1",
		Quantity:  100,
	})
	require.NoError(t, err)
	return out
}

func TestOrderCreateSiempreNaceEnPending(t *testing.T) {
	uc := newOrderUC()
	out := createOrder(t, uc)
	assert.Equal(t, string(entity.OrderStatusPending), out.Status)
	assert.NotEmpty(t, out.ID)
}

func TestOrderCreateValidaEntrada(t *testing.T) {
	uc := newOrderUC()
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateOrderRequest{ProductID: "", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateOrderRequest{ProductID: "p", Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOrderTransicionesValidas(t *testing.T) {
	uc := newOrderUC()
	ctx := context.Background()
	out := createOrder(t, uc)

	// pending -> in_progress -> completed
	updated, err := uc.SetStatus(ctx, out.ID, "in_progress")
	require.NoError(t, err)
	assert.Equal(t, "in_progress", updated.Status)

	updated, err = uc.SetStatus(ctx, out.ID, "completed")
	require.NoError(t, err)
	assert.Equal(t, "completed", updated.Status)
}

func TestOrderTransicionesInvalidas(t *testing.T) {
	uc := newOrderUC()
	ctx := context.Background()

	// pending -> completed está prohibido: debe pasar por in_progress.
	out := createOrder(t, uc)
	_, err := uc.SetStatus(ctx, out.ID, "completed")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// Un estado terminal no cambia.
	_, err = uc.SetStatus(ctx, out.ID, "canceled")
	require.NoError(t, err)
	_, err = uc.SetStatus(ctx, out.ID, "in_progress")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestOrderRepetirEstadoEsNoOp(t *testing.T) {
	uc := newOrderUC()
	out := createOrder(t, uc)

	updated, err := uc.SetStatus(context.Background(), out.ID, "pending")
	require.NoError(t, err)
	assert.Equal(t, "pending", updated.Status)
}

func TestOrderSetStatusDesconocido(t *testing.T) {
	uc := newOrderUC()
	out := createOrder(t, uc)

	_, err := uc.SetStatus(context.Background(), out.ID, "shipped")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOrderSetStatusOrdenInexistente(t *testing.T) {
	uc := newOrderUC()

	_, err := uc.SetStatus(context.Background(), "no-existe", "in_progress")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestOrderDeleteDesdeCualquierEstado(t *testing.T) {
	uc := newOrderUC()
	ctx := context.Background()

	out := createOrder(t, uc)
	_, err := uc.SetStatus(ctx, out.ID, "in_progress")
	require.NoError(t, err)
	_, err = uc.SetStatus(ctx, out.ID, "completed")
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, out.ID))
	_, err = uc.GetByID(ctx, out.ID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	assert.ErrorIs(t, uc.Delete(ctx, out.ID), domain.ErrOrderNotFound)
}

func TestOrderCreateFromRestock(t *testing.T) {
	uc := newOrderUC()

	order, err := uc.CreateFromRestock(context.Background(), entity.RestockRequest{
		LocationID:  "loc-1",
		ProductID:   "prod-1",
		ProductName: "Cable UTP",
		Quantity:    100,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.Equal(t, "loc-1", order.DestinationLocationID)
	assert.Equal(t, 100, order.Quantity)
}
