package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stocknet-api/internal/application/inventory"
	"github.com/jhoicas/stocknet-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta el callback dentro de una transacción pgx: los repos que
// recibe fn quedan atados al mismo tx, y el outbox viaja en la misma
// transacción que el descuento de stock y el registro de compra.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner sobre el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run abre la transacción, ejecuta fn con repos atados al tx y hace commit.
// Si fn falla, el rollback diferido descarta todo.
func (r *TxRunner) Run(ctx context.Context, fn func(
	invRepo repository.InventoryRepository,
	purchaseRepo repository.PurchaseRepository,
	outboxRepo repository.OutboxRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	err = fn(
		NewInventoryRepository(tx),
		NewPurchaseRepository(tx),
		NewOutboxRepository(tx),
		NewProductRepository(tx),
	)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
