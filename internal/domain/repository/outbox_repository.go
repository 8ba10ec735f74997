package repository

import (
	"context"

	"github.com/jhoicas/stocknet-api/internal/domain/entity"
)

// OutboxRepository define el puerto del outbox transaccional de reposición.
// Add se invoca dentro de la misma transacción que el descuento de stock;
// el resto lo usa el drainer.
type OutboxRepository interface {
	Add(ctx context.Context, entry *entity.OutboxEntry) error
	ListPending(ctx context.Context, limit int) ([]*entity.OutboxEntry, error)
	MarkDispatched(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string) error
	IncrementAttempts(ctx context.Context, id string) error
}
