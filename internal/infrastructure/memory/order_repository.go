package memory

import (
	"context"

	"github.com/jhoicas/stocknet-api/internal/domain/entity"
	"github.com/jhoicas/stocknet-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación en memoria del puerto OrderRepository.
type OrderRepo struct {
	store *Store
}

// NewOrderRepository construye el adaptador.
func NewOrderRepository(store *Store) *OrderRepo {
	return &OrderRepo{store: store}
}

// Create guarda una nueva orden.
func (r *OrderRepo) Create(_ context.Context, order *entity.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.orders[order.ID] = *order
	r.store.orderSeq = append(r.store.orderSeq, order.ID)
	return nil
}

// GetByID devuelve la orden o nil si no existe.
func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	order, ok := r.store.orders[id]
	if !ok {
		return nil, nil
	}
	return &order, nil
}

// List devuelve las órdenes en orden de inserción, con paginación.
func (r *OrderRepo) List(_ context.Context, limit, offset int) ([]*entity.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.Order
	for i := offset; i < len(r.store.orderSeq) && len(out) < limit; i++ {
		if order, ok := r.store.orders[r.store.orderSeq[i]]; ok {
			o := order
			out = append(out, &o)
		}
	}
	return out, nil
}

// UpdateStatus fija el nuevo estado de la orden.
func (r *OrderRepo) UpdateStatus(_ context.Context, id string, status entity.OrderStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	order, ok := r.store.orders[id]
	if !ok {
		return nil
	}
	order.Status = status
	r.store.orders[id] = order
	return nil
}

// Delete elimina la orden.
func (r *OrderRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.orders, id)
	r.store.orderSeq = removeID(r.store.orderSeq, id)
	return nil
}
