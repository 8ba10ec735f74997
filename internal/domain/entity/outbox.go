package entity

import "time"

// RestockRequest es la intención de reposición que viaja hacia el servicio
// de órdenes. LocationID vacío es el centinela usado cuando el origen no es
// una ubicación concreta (por ejemplo, al eliminar un producto).
type RestockRequest struct {
	LocationID  string `json:"location_id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// Estados de una entrada del outbox.
const (
	OutboxPending    = "pending"
	OutboxDispatched = "dispatched"
	OutboxFailed     = "failed"
)

// OutboxEntry persiste una RestockRequest en la misma transacción que el
// descuento de stock que la originó (patrón transactional outbox). El drainer
// la publica después con reintentos; Attempts cuenta los intentos fallidos.
type OutboxEntry struct {
	ID         string
	Request    RestockRequest
	RoutingKey string
	Status     string
	Attempts   int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
