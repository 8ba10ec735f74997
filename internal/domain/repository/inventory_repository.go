package repository

import "context"

// InventoryRepository es el puerto del ledger: cantidades por
// (ubicación, producto). Adjust debe ser atómico por clave; las
// implementaciones serializan con el mutex del store (memoria) o con un
// único UPDATE condicionado con RETURNING (PostgreSQL), donde el lock de
// fila ordena a los compradores concurrentes.
type InventoryRepository interface {
	// Get devuelve la cantidad actual y si existe fila para la clave.
	// Sin fila no hay asociación producto-ubicación.
	Get(ctx context.Context, locationID, productID string) (quantity int, ok bool, err error)

	// Adjust aplica el delta y devuelve la cantidad resultante.
	// Falla con domain.ErrInsufficientStock si el resultado sería negativo,
	// dejando la cantidad intacta. Con delta positivo crea la fila si no existe.
	Adjust(ctx context.Context, locationID, productID string, delta int) (int, error)

	// Map devuelve el inventario completo de la ubicación.
	Map(ctx context.Context, locationID string) (map[string]int, error)

	// Associate crea la fila (locationID, productID) con cantidad cero si
	// no existe, para ubicaciones con catálogo explícito.
	Associate(ctx context.Context, locationID, productID string) error

	// DeleteByLocation borra el inventario de una ubicación (al eliminarla).
	DeleteByLocation(ctx context.Context, locationID string) error

	// DeleteByProduct borra las filas de un producto en todas las ubicaciones.
	DeleteByProduct(ctx context.Context, productID string) error
}
