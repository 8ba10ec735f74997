package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocknet-api/internal/application/dto"
	"github.com/jhoicas/stocknet-api/internal/application/inventory"
	"github.com/jhoicas/stocknet-api/internal/application/usecase"
	"github.com/jhoicas/stocknet-api/internal/domain"
	"github.com/jhoicas/stocknet-api/internal/domain/entity"
	"github.com/jhoicas/stocknet-api/internal/infrastructure/memory"
	"github.com/jhoicas/stocknet-api/pkg/logger"
)

func newProductUC(store *memory.Store) *usecase.ProductUseCase {
	replenisher := inventory.NewReplenishmentUseCase(100, 100, logger.Nop())
	return usecase.NewProductUseCase(
		memory.NewProductRepository(store),
		memory.NewTxRunner(store),
		replenisher,
	)
}

func TestProductCreateYGet(t *testing.T) {
	store := memory.NewStore()
	uc := newProductUC(store)
	ctx := context.Background()

	out, err := uc.Create(ctx, dto.CreateProductRequest{
		Name:        "Cable UTP",
		Price:       decimal.NewFromFloat(12.50),
		MinQuantity: 5,
		MaxQuantity: 50,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "Cable UTP", out.Name)

	got, err := uc.GetByID(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, out.ID, got.ID)
	assert.True(t, got.Price.Equal(decimal.NewFromFloat(12.50)))
}

func TestProductCreateRechazaUmbralesInvertidos(t *testing.T) {
	uc := newProductUC(memory.NewStore())

	_, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name:        "Cable UTP",
		MinQuantity: 50,
		MaxQuantity: 5,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductCreateRechazaNombreVacioYNegativos(t *testing.T) {
	uc := newProductUC(memory.NewStore())
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateProductRequest{Name: "", MaxQuantity: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateProductRequest{Name: "X", MinQuantity: -1, MaxQuantity: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUpdateValidaUmbrales(t *testing.T) {
	uc := newProductUC(memory.NewStore())
	ctx := context.Background()

	out, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Cable UTP", MinQuantity: 5, MaxQuantity: 50})
	require.NoError(t, err)

	_, err = uc.Update(ctx, out.ID, dto.UpdateProductRequest{Name: "Cable UTP", MinQuantity: 60, MaxQuantity: 50})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	updated, err := uc.Update(ctx, out.ID, dto.UpdateProductRequest{Name: "Cable UTP Cat6", MinQuantity: 10, MaxQuantity: 80})
	require.NoError(t, err)
	assert.Equal(t, out.ID, updated.ID, "el ID nunca cambia")
	assert.Equal(t, "Cable UTP Cat6", updated.Name)
}

func TestProductDeleteEncolaReposicionCritica(t *testing.T) {
	store := memory.NewStore()
	uc := newProductUC(store)
	ctx := context.Background()

	out, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Cable UTP", MinQuantity: 5, MaxQuantity: 50})
	require.NoError(t, err)

	// Asociado con stock en una ubicación: la eliminación limpia el ledger.
	invRepo := memory.NewInventoryRepository(store)
	require.NoError(t, invRepo.Associate(ctx, "loc-1", out.ID))
	_, err = invRepo.Adjust(ctx, "loc-1", out.ID, 40)
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, out.ID))

	_, err = uc.GetByID(ctx, out.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	inv, err := invRepo.Map(ctx, "loc-1")
	require.NoError(t, err)
	assert.Empty(t, inv)

	// La eliminación cuenta como agotamiento: reposición crítica de 100
	// unidades con ubicación centinela vacía.
	entries, err := memory.NewOutboxRepository(store).ListPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, inventory.RoutingKeyRestockCritical, entries[0].RoutingKey)
	assert.Equal(t, entity.RestockRequest{
		LocationID:  "",
		ProductID:   out.ID,
		ProductName: "Cable UTP",
		Quantity:    100,
	}, entries[0].Request)
}

func TestProductDeleteDesconocido(t *testing.T) {
	uc := newProductUC(memory.NewStore())

	err := uc.Delete(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
