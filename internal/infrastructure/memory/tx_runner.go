package memory

import (
	"context"

	"github.com/jhoicas/stocknet-api/internal/application/inventory"
	"github.com/jhoicas/stocknet-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner serializa las "transacciones" del store en memoria con un lock
// global. No hay rollback: el callback debe validar antes de mutar (el
// descuento de stock es el único paso que puede fallar y falla sin mutar).
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con los repos del store bajo el lock de transacción.
func (r *TxRunner) Run(ctx context.Context, fn func(
	invRepo repository.InventoryRepository,
	purchaseRepo repository.PurchaseRepository,
	outboxRepo repository.OutboxRepository,
	productRepo repository.ProductRepository,
) error) error {
	r.store.txMu.Lock()
	defer r.store.txMu.Unlock()
	return fn(
		NewInventoryRepository(r.store),
		NewPurchaseRepository(r.store),
		NewOutboxRepository(r.store),
		NewProductRepository(r.store),
	)
}
