package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocknet-api/internal/application/inventory"
	"github.com/jhoicas/stocknet-api/internal/application/usecase"
	"github.com/jhoicas/stocknet-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/stocknet-api/internal/interfaces/http"
	"github.com/jhoicas/stocknet-api/pkg/logger"
)

// buildTestApp arma la API completa sobre el store en memoria, con el
// despacho directo: las reposiciones terminan como órdenes en el mismo store.
func buildTestApp() *fiber.App {
	store := memory.NewStore()
	locationRepo := memory.NewLocationRepository(store)
	productRepo := memory.NewProductRepository(store)
	invRepo := memory.NewInventoryRepository(store)
	purchaseRepo := memory.NewPurchaseRepository(store)
	txRunner := memory.NewTxRunner(store)

	log := logger.Nop()
	replenisher := inventory.NewReplenishmentUseCase(100, 100, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		LocationUC: usecase.NewLocationUseCase(locationRepo, productRepo, invRepo),
		ProductUC:  usecase.NewProductUseCase(productRepo, txRunner, replenisher),
		OrderUC:    usecase.NewOrderUseCase(memory.NewOrderRepository(store), log),
		LedgerUC:   inventory.NewLedgerUseCase(locationRepo, productRepo, invRepo),
		PurchaseUC: inventory.NewPurchaseUseCase(txRunner, locationRepo, productRepo, purchaseRepo, replenisher),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func createTestProduct(t *testing.T, app *fiber.App, name string, minQty, maxQty int) string {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/products", map[string]any{
		"name":         name,
		"price":        "9.99",
		"min_quantity": minQty,
		"max_quantity": maxQty,
	})
	require.Equal(t, http.StatusCreated, status)
	return body["id"].(string)
}

func createTestLocation(t *testing.T, app *fiber.App, name string, products ...string) string {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/locations", map[string]any{
		"name":     name,
		"address":  "Calle 1",
		"products": products,
	})
	require.Equal(t, http.StatusCreated, status)
	return body["id"].(string)
}

func TestFlujoDeCompraCompleto(t *testing.T) {
	app := buildTestApp()

	productID := createTestProduct(t, app, "Cable UTP", 10, 800)
	locationID := createTestLocation(t, app, "Bodega Central", productID)

	// Cargar stock inicial vía ajuste de inventario.
	status, inv := doJSON(t, app, http.MethodPut, "/api/locations/"+locationID+"/inventory", map[string]any{
		"product_id":      productID,
		"quantity_change": 500,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(500), inv[productID])

	// Compra válida.
	status, body := doJSON(t, app, http.MethodPost, "/api/purchase", map[string]any{
		"location_id": locationID,
		"product_id":  productID,
		"quantity":    30,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(470), body["remaining_stock"])

	// El log de compras refleja la operación.
	req := httptest.NewRequest(http.MethodGet, "/api/purchases/"+locationID, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var purchases []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&purchases))
	require.Len(t, purchases, 1)
	assert.Equal(t, float64(30), purchases[0]["quantity"])
}

func TestCompraConStockInsuficiente(t *testing.T) {
	app := buildTestApp()

	productID := createTestProduct(t, app, "Cable UTP", 0, 100)
	locationID := createTestLocation(t, app, "Bodega Central", productID)

	status, _ := doJSON(t, app, http.MethodPut, "/api/locations/"+locationID+"/inventory", map[string]any{
		"product_id":      productID,
		"quantity_change": 5,
	})
	require.Equal(t, http.StatusOK, status)

	status, body := doJSON(t, app, http.MethodPost, "/api/purchase", map[string]any{
		"location_id": locationID,
		"product_id":  productID,
		"quantity":    10,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
}

func TestCompraEnUbicacionDesconocida(t *testing.T) {
	app := buildTestApp()
	productID := createTestProduct(t, app, "Cable UTP", 0, 100)

	status, body := doJSON(t, app, http.MethodPost, "/api/purchase", map[string]any{
		"location_id": "no-existe",
		"product_id":  productID,
		"quantity":    1,
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "LOCATION_NOT_FOUND", body["code"])
}

func TestProductoConUmbralesInvertidos(t *testing.T) {
	app := buildTestApp()

	status, body := doJSON(t, app, http.MethodPost, "/api/products", map[string]any{
		"name":         "Mal producto",
		"min_quantity": 50,
		"max_quantity": 5,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestReportesDeExcedentesYFaltantes(t *testing.T) {
	app := buildTestApp()

	productID := createTestProduct(t, app, "Cable UTP", 10, 100)
	locationID := createTestLocation(t, app, "Bodega Central", productID)

	status, _ := doJSON(t, app, http.MethodPut, "/api/locations/"+locationID+"/inventory", map[string]any{
		"product_id":      productID,
		"quantity_change": 150,
	})
	require.Equal(t, http.StatusOK, status)

	status, excess := doJSON(t, app, http.MethodGet, "/api/locations/"+locationID+"/excess_inventory", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(150), excess[productID])

	status, _ = doJSON(t, app, http.MethodPut, "/api/locations/"+locationID+"/inventory", map[string]any{
		"product_id":      productID,
		"quantity_change": -147,
	})
	require.Equal(t, http.StatusOK, status)

	status, missing := doJSON(t, app, http.MethodGet, "/api/locations/"+locationID+"/missing_inventory", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(7), missing[productID])
}

func TestOrdenesCicloDeVidaPorHTTP(t *testing.T) {
	app := buildTestApp()

	status, order := doJSON(t, app, http.MethodPost, "/api/orders", map[string]any{
		"product_id": "prod-1",
		"quantity":   100,
		"status":     "completed", // se ignora: toda orden nace en pending
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "pending", order["status"])
	orderID := order["id"].(string)

	// Transición prohibida: 409.
	status, body := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/orders/%s/status", orderID), map[string]any{
		"status": "completed",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_TRANSITION", body["code"])

	// Camino válido.
	status, body = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/orders/%s/status", orderID), map[string]any{
		"status": "in_progress",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "in_progress", body["status"])

	// Estado desconocido: 400.
	status, body = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/orders/%s/status", orderID), map[string]any{
		"status": "shipped",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])

	// Eliminación válida desde cualquier estado.
	status, _ = doJSON(t, app, http.MethodDelete, "/api/orders/"+orderID, nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = doJSON(t, app, http.MethodGet, "/api/orders/"+orderID, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "ORDER_NOT_FOUND", body["code"])
}

func TestEliminarProductoReportaNotFound(t *testing.T) {
	app := buildTestApp()

	status, body := doJSON(t, app, http.MethodDelete, "/api/products/no-existe", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "PRODUCT_NOT_FOUND", body["code"])
}
