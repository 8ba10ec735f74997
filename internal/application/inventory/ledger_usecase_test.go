package inventory_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocknet-api/internal/domain"
	"github.com/jhoicas/stocknet-api/internal/domain/entity"
	"github.com/jhoicas/stocknet-api/internal/infrastructure/memory"
)

func TestLedgerAdjustActualizaYDevuelveInventario(t *testing.T) {
	f := newFixture(t, 10, 0, 100)
	ctx := context.Background()

	inv, err := f.ledgerUC.Adjust(ctx, f.locationID, f.productID, 15)
	require.NoError(t, err)
	assert.Equal(t, 25, inv[f.productID])

	inv, err = f.ledgerUC.Adjust(ctx, f.locationID, f.productID, -5)
	require.NoError(t, err)
	assert.Equal(t, 20, inv[f.productID])
}

func TestLedgerAdjustNuncaDejaNegativo(t *testing.T) {
	f := newFixture(t, 10, 0, 100)

	_, err := f.ledgerUC.Adjust(context.Background(), f.locationID, f.productID, -11)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	inv, err := f.ledgerUC.Map(context.Background(), f.locationID)
	require.NoError(t, err)
	assert.Equal(t, 10, inv[f.productID])
}

func TestLedgerAdjustValidaUbicacionYProducto(t *testing.T) {
	f := newFixture(t, 10, 0, 100)
	ctx := context.Background()

	_, err := f.ledgerUC.Adjust(ctx, "no-existe", f.productID, 1)
	assert.ErrorIs(t, err, domain.ErrLocationNotFound)

	_, err = f.ledgerUC.Adjust(ctx, f.locationID, "no-existe", 1)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestLedgerExcess(t *testing.T) {
	// Stock 150 con máximo 100: excedente de 150 reportado con su cantidad.
	f := newFixture(t, 150, 10, 100)
	ctx := context.Background()

	excess, err := f.ledgerUC.Excess(ctx, f.locationID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{f.productID: 150}, excess)

	// Exactamente en el máximo no es excedente.
	_, err = f.ledgerUC.Adjust(ctx, f.locationID, f.productID, -50)
	require.NoError(t, err)
	excess, err = f.ledgerUC.Excess(ctx, f.locationID)
	require.NoError(t, err)
	assert.Empty(t, excess)
}

func TestLedgerMissing(t *testing.T) {
	// Stock 3 con mínimo 10: faltan 7.
	f := newFixture(t, 3, 10, 100)
	ctx := context.Background()

	missing, err := f.ledgerUC.Missing(ctx, f.locationID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{f.productID: 7}, missing)
}

func TestLedgerMissingIncluyeProductosSinFila(t *testing.T) {
	f := newFixture(t, 50, 10, 100)
	ctx := context.Background()

	// Producto sin fila en la ubicación: cuenta con cantidad cero.
	otro := &entity.Product{ID: uuid.New().String(), Name: "Arandela", MinQuantity: 4, MaxQuantity: 40}
	require.NoError(t, memory.NewProductRepository(f.store).Create(ctx, otro))

	missing, err := f.ledgerUC.Missing(ctx, f.locationID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{otro.ID: 4}, missing)
}

func TestLedgerMapUbicacionDesconocida(t *testing.T) {
	f := newFixture(t, 10, 0, 100)

	_, err := f.ledgerUC.Map(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrLocationNotFound)
}
