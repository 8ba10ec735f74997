package memory

import (
	"context"

	"github.com/jhoicas/stocknet-api/internal/domain"
	"github.com/jhoicas/stocknet-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación en memoria del ledger. El lock del store
// hace de Adjust un único paso atómico check-and-set por clave: compradores
// concurrentes nunca ven una cantidad obsoleta ni dejan stock negativo.
type InventoryRepo struct {
	store *Store
}

// NewInventoryRepository construye el adaptador.
func NewInventoryRepository(store *Store) *InventoryRepo {
	return &InventoryRepo{store: store}
}

// Get devuelve la cantidad y si existe fila para la clave.
func (r *InventoryRepo) Get(_ context.Context, locationID, productID string) (int, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	inv, ok := r.store.inventory[locationID]
	if !ok {
		return 0, false, nil
	}
	quantity, ok := inv[productID]
	return quantity, ok, nil
}

// Adjust aplica el delta de forma atómica. Nunca deja la cantidad negativa.
func (r *InventoryRepo) Adjust(_ context.Context, locationID, productID string, delta int) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	inv, ok := r.store.inventory[locationID]
	if !ok {
		inv = map[string]int{}
		r.store.inventory[locationID] = inv
	}
	next := inv[productID] + delta
	if next < 0 {
		return 0, domain.ErrInsufficientStock
	}
	inv[productID] = next
	return next, nil
}

// Map devuelve una copia del inventario de la ubicación.
func (r *InventoryRepo) Map(_ context.Context, locationID string) (map[string]int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := map[string]int{}
	for productID, quantity := range r.store.inventory[locationID] {
		out[productID] = quantity
	}
	return out, nil
}

// Associate crea la fila con cantidad cero si no existe.
func (r *InventoryRepo) Associate(_ context.Context, locationID, productID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	inv, ok := r.store.inventory[locationID]
	if !ok {
		inv = map[string]int{}
		r.store.inventory[locationID] = inv
	}
	if _, ok := inv[productID]; !ok {
		inv[productID] = 0
	}
	return nil
}

// DeleteByLocation borra el inventario completo de la ubicación.
func (r *InventoryRepo) DeleteByLocation(_ context.Context, locationID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.inventory, locationID)
	return nil
}

// DeleteByProduct borra las filas del producto en todas las ubicaciones.
func (r *InventoryRepo) DeleteByProduct(_ context.Context, productID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, inv := range r.store.inventory {
		delete(inv, productID)
	}
	return nil
}
