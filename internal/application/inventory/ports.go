package inventory

import (
	"context"

	"github.com/jhoicas/stocknet-api/internal/domain/repository"
)

// TxRunner ejecuta un callback con repositorios atados a una transacción.
// El adaptador de PostgreSQL hace Begin/Commit/Rollback y bloquea filas;
// el de memoria serializa con un lock global.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invRepo repository.InventoryRepository,
		purchaseRepo repository.PurchaseRepository,
		outboxRepo repository.OutboxRepository,
		productRepo repository.ProductRepository,
	) error) error
}
