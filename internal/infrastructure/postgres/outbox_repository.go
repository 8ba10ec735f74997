package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stocknet-api/internal/domain/entity"
	"github.com/jhoicas/stocknet-api/internal/domain/repository"
)

var _ repository.OutboxRepository = (*OutboxRepo)(nil)

// OutboxRepo outbox transaccional sobre PostgreSQL. Add corre dentro de la
// transacción de la compra (vía TxRunner); el drainer usa el resto con el pool.
type OutboxRepo struct {
	db Querier
}

// NewOutboxRepository construye el adaptador del outbox.
func NewOutboxRepository(db Querier) *OutboxRepo {
	return &OutboxRepo{db: db}
}

// Add inserta la entrada en estado pending.
func (r *OutboxRepo) Add(ctx context.Context, entry *entity.OutboxEntry) error {
	query := `
		INSERT INTO restock_outbox (id, location_id, product_id, product_name, quantity,
			routing_key, status, attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query,
		entry.ID, entry.Request.LocationID, entry.Request.ProductID, entry.Request.ProductName,
		entry.Request.Quantity, entry.RoutingKey, entry.Status, entry.Attempts,
		entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert outbox: %w", err)
	}
	return nil
}

// ListPending devuelve hasta limit entradas pendientes, más antiguas primero.
// La entrega es al-menos-una-vez: dos drainers pueden tomar la misma entrada.
func (r *OutboxRepo) ListPending(ctx context.Context, limit int) ([]*entity.OutboxEntry, error) {
	query := `
		SELECT id, location_id, product_id, product_name, quantity,
			routing_key, status, attempts, created_at, updated_at
		FROM restock_outbox WHERE status = 'pending'
		ORDER BY created_at LIMIT $1`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list outbox pendiente: %w", err)
	}
	defer rows.Close()
	var list []*entity.OutboxEntry
	for rows.Next() {
		var e entity.OutboxEntry
		if err := rows.Scan(
			&e.ID, &e.Request.LocationID, &e.Request.ProductID, &e.Request.ProductName,
			&e.Request.Quantity, &e.RoutingKey, &e.Status, &e.Attempts,
			&e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan outbox: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// MarkDispatched marca la entrada como despachada.
func (r *OutboxRepo) MarkDispatched(ctx context.Context, id string) error {
	return r.setStatus(ctx, id, entity.OutboxDispatched)
}

// MarkFailed marca la entrada como fallida (descartada).
func (r *OutboxRepo) MarkFailed(ctx context.Context, id string) error {
	return r.setStatus(ctx, id, entity.OutboxFailed)
}

// IncrementAttempts suma un intento fallido dejándola pendiente.
func (r *OutboxRepo) IncrementAttempts(ctx context.Context, id string) error {
	query := `UPDATE restock_outbox SET attempts = attempts + 1, updated_at = $2 WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id, time.Now()); err != nil {
		return fmt.Errorf("increment outbox attempts: %w", err)
	}
	return nil
}

func (r *OutboxRepo) setStatus(ctx context.Context, id, status string) error {
	query := `UPDATE restock_outbox SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id, status, time.Now()); err != nil {
		return fmt.Errorf("update outbox status: %w", err)
	}
	return nil
}
