package memory

import (
	"context"

	"github.com/jhoicas/stocknet-api/internal/domain/entity"
	"github.com/jhoicas/stocknet-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria del puerto ProductRepository.
type ProductRepo struct {
	store *Store
}

// NewProductRepository construye el adaptador.
func NewProductRepository(store *Store) *ProductRepo {
	return &ProductRepo{store: store}
}

// Create guarda un nuevo producto.
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.products[product.ID] = *product
	r.store.prodSeq = append(r.store.prodSeq, product.ID)
	return nil
}

// GetByID devuelve el producto o nil si no existe.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	product, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	return &product, nil
}

// List devuelve los productos en orden de inserción, con paginación.
func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.Product
	for i := offset; i < len(r.store.prodSeq) && len(out) < limit; i++ {
		if product, ok := r.store.products[r.store.prodSeq[i]]; ok {
			p := product
			out = append(out, &p)
		}
	}
	return out, nil
}

// Update reemplaza los campos mutables del producto.
func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.products[product.ID]; !ok {
		return nil
	}
	r.store.products[product.ID] = *product
	return nil
}

// Delete elimina el producto.
func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.products, id)
	r.store.prodSeq = removeID(r.store.prodSeq, id)
	return nil
}
