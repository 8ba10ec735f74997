package memory

import (
	"context"

	"github.com/jhoicas/stocknet-api/internal/domain/entity"
	"github.com/jhoicas/stocknet-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo log de compras en memoria (append-only).
type PurchaseRepo struct {
	store *Store
}

// NewPurchaseRepository construye el adaptador.
func NewPurchaseRepository(store *Store) *PurchaseRepo {
	return &PurchaseRepo{store: store}
}

// Create agrega el registro; nunca se actualiza después.
func (r *PurchaseRepo) Create(_ context.Context, purchase *entity.Purchase) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.purchases = append(r.store.purchases, *purchase)
	return nil
}

// ListByLocation filtra por la ubicación bajo la que se registró la compra.
func (r *PurchaseRepo) ListByLocation(_ context.Context, locationID string, limit, offset int) ([]*entity.Purchase, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.Purchase
	skipped := 0
	for i := range r.store.purchases {
		if r.store.purchases[i].LocationID != locationID {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		if len(out) == limit {
			break
		}
		p := r.store.purchases[i]
		out = append(out, &p)
	}
	return out, nil
}
