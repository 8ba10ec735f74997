package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stocknet-api/internal/application/inventory"
	"github.com/jhoicas/stocknet-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LocationUC *usecase.LocationUseCase
	ProductUC  *usecase.ProductUseCase
	OrderUC    *usecase.OrderUseCase
	LedgerUC   *inventory.LedgerUseCase
	PurchaseUC *inventory.PurchaseUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Locations
	locations := api.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Put("/:id", locationHandler.Update)
	locations.Delete("/:id", locationHandler.Delete)

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Inventory (ledger por ubicación, anidado bajo la ubicación)
	inventoryHandler := NewInventoryHandler(deps.LedgerUC)
	locations.Get("/:location_id/inventory", inventoryHandler.Get)
	locations.Put("/:location_id/inventory", inventoryHandler.Update)
	locations.Get("/:location_id/excess_inventory", inventoryHandler.Excess)
	locations.Get("/:location_id/missing_inventory", inventoryHandler.Missing)

	// Purchases
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	api.Post("/purchase", purchaseHandler.Purchase)
	api.Get("/purchases/:location_id", purchaseHandler.ListByLocation)

	// Orders
	orders := api.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Put("/:id/status", orderHandler.SetStatus)
	orders.Delete("/:id", orderHandler.Delete)
}
