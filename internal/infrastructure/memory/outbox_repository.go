package memory

import (
	"context"
	"time"

	"github.com/jhoicas/stocknet-api/internal/domain/entity"
	"github.com/jhoicas/stocknet-api/internal/domain/repository"
)

var _ repository.OutboxRepository = (*OutboxRepo)(nil)

// OutboxRepo outbox transaccional en memoria.
type OutboxRepo struct {
	store *Store
}

// NewOutboxRepository construye el adaptador.
func NewOutboxRepository(store *Store) *OutboxRepo {
	return &OutboxRepo{store: store}
}

// Add agrega la entrada en estado pending.
func (r *OutboxRepo) Add(_ context.Context, entry *entity.OutboxEntry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.outbox[entry.ID] = *entry
	r.store.outboxSeq = append(r.store.outboxSeq, entry.ID)
	return nil
}

// ListPending devuelve hasta limit entradas pendientes, en orden de llegada.
func (r *OutboxRepo) ListPending(_ context.Context, limit int) ([]*entity.OutboxEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.OutboxEntry
	for _, id := range r.store.outboxSeq {
		if len(out) == limit {
			break
		}
		entry, ok := r.store.outbox[id]
		if !ok || entry.Status != entity.OutboxPending {
			continue
		}
		e := entry
		out = append(out, &e)
	}
	return out, nil
}

// MarkDispatched marca la entrada como despachada.
func (r *OutboxRepo) MarkDispatched(_ context.Context, id string) error {
	return r.setStatus(id, entity.OutboxDispatched)
}

// MarkFailed marca la entrada como fallida (descartada).
func (r *OutboxRepo) MarkFailed(_ context.Context, id string) error {
	return r.setStatus(id, entity.OutboxFailed)
}

// IncrementAttempts suma un intento fallido dejándola pendiente.
func (r *OutboxRepo) IncrementAttempts(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	entry, ok := r.store.outbox[id]
	if !ok {
		return nil
	}
	entry.Attempts++
	entry.UpdatedAt = time.Now()
	r.store.outbox[id] = entry
	return nil
}

func (r *OutboxRepo) setStatus(id, status string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	entry, ok := r.store.outbox[id]
	if !ok {
		return nil
	}
	entry.Status = status
	entry.UpdatedAt = time.Now()
	r.store.outbox[id] = entry
	return nil
}
