package dto

// CreateOrderRequest cuerpo para crear una orden de reposición.
type CreateOrderRequest struct {
	ProductID             string `json:"product_id"`
	ProductName           string `json:"product_name,omitempty"`
	Quantity              int    `json:"quantity"`
	SourceLocationID      string `json:"source_location_id,omitempty"`
	DestinationLocationID string `json:"destination_location_id,omitempty"`
	SupplierID            string `json:"supplier_id,omitempty"`
}

// UpdateOrderStatusRequest cuerpo para cambiar el estado de una orden.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// OrderResponse representación de una orden.
type OrderResponse struct {
	ID                    string `json:"id"`
	ProductID             string `json:"product_id"`
	ProductName           string `json:"product_name,omitempty"`
	Quantity              int    `json:"quantity"`
	SourceLocationID      string `json:"source_location_id,omitempty"`
	DestinationLocationID string `json:"destination_location_id,omitempty"`
	SupplierID            string `json:"supplier_id,omitempty"`
	Status                string `json:"status"`
}

// OrderListResponse lista de órdenes.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
}
