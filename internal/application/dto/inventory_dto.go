package dto

// UpdateInventoryRequest cuerpo para ajustar inventario en una ubicación.
// QuantityChange puede ser negativo; el resultado nunca baja de cero.
type UpdateInventoryRequest struct {
	ProductID      string `json:"product_id"`
	QuantityChange int    `json:"quantity_change"`
}

// PurchaseRequest cuerpo para registrar una compra.
type PurchaseRequest struct {
	LocationID string `json:"location_id"`
	ProductID  string `json:"product_id"`
	Quantity   int    `json:"quantity"`
}

// PurchaseResponse resultado de una compra exitosa.
type PurchaseResponse struct {
	Message        string `json:"message"`
	LocationID     string `json:"location_id"`
	ProductID      string `json:"product_id"`
	Quantity       int    `json:"quantity"`
	RemainingStock int    `json:"remaining_stock"`
}

// PurchaseRecordResponse un registro del log de compras.
type PurchaseRecordResponse struct {
	ID         string `json:"id"`
	LocationID string `json:"location_id"`
	ProductID  string `json:"product_id"`
	Quantity   int    `json:"quantity"`
	CreatedAt  string `json:"created_at"`
}
