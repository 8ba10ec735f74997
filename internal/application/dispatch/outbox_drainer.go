package dispatch

import (
	"context"
	"time"

	"github.com/jhoicas/stocknet-api/internal/domain/repository"
	"github.com/jhoicas/stocknet-api/pkg/logger"
	"github.com/jhoicas/stocknet-api/pkg/metrics"
)

// OutboxDrainer drena periódicamente las entradas pendientes del outbox
// hacia el Dispatcher. Convierte el antiguo fire-and-forget en una entrega
// al-menos-una-vez: los fallos reintenables quedan pendientes para el
// siguiente ciclo y los permanentes (o agotados) se marcan como fallidos.
type OutboxDrainer struct {
	outboxRepo  repository.OutboxRepository
	dispatcher  Dispatcher
	interval    time.Duration
	batchSize   int
	maxAttempts int
	log         *logger.Logger
}

// NewOutboxDrainer construye el drainer.
func NewOutboxDrainer(
	outboxRepo repository.OutboxRepository,
	dispatcher Dispatcher,
	interval time.Duration,
	batchSize, maxAttempts int,
	log *logger.Logger,
) *OutboxDrainer {
	return &OutboxDrainer{
		outboxRepo:  outboxRepo,
		dispatcher:  dispatcher,
		interval:    interval,
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
		log:         log,
	}
}

// Run ejecuta el ciclo de drenado hasta que el contexto se cancele.
func (d *OutboxDrainer) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.DrainOnce(ctx)
		}
	}
}

// DrainOnce procesa un lote de entradas pendientes.
func (d *OutboxDrainer) DrainOnce(ctx context.Context) {
	entries, err := d.outboxRepo.ListPending(ctx, d.batchSize)
	if err != nil {
		d.log.Error().Err(err).Msg("leer outbox pendiente")
		return
	}
	for _, entry := range entries {
		if err := d.dispatcher.Dispatch(ctx, entry); err != nil {
			d.handleFailure(ctx, entry.ID, entry.Attempts, err)
			continue
		}
		if err := d.outboxRepo.MarkDispatched(ctx, entry.ID); err != nil {
			d.log.Error().Err(err).Str("outbox_id", entry.ID).Msg("marcar outbox despachado")
			continue
		}
		metrics.RestockDispatchedTotal.WithLabelValues("dispatched").Inc()
	}
}

func (d *OutboxDrainer) handleFailure(ctx context.Context, id string, attempts int, dispatchErr error) {
	if IsPermanent(dispatchErr) || attempts+1 >= d.maxAttempts {
		if err := d.outboxRepo.MarkFailed(ctx, id); err != nil {
			d.log.Error().Err(err).Str("outbox_id", id).Msg("marcar outbox fallido")
			return
		}
		metrics.RestockDispatchedTotal.WithLabelValues("failed").Inc()
		d.log.Error().Err(dispatchErr).Str("outbox_id", id).Msg("despacho de reposición descartado")
		return
	}
	if err := d.outboxRepo.IncrementAttempts(ctx, id); err != nil {
		d.log.Error().Err(err).Str("outbox_id", id).Msg("incrementar intentos de outbox")
		return
	}
	metrics.RestockDispatchedTotal.WithLabelValues("retried").Inc()
	d.log.Warn().Err(dispatchErr).Str("outbox_id", id).Int("attempts", attempts+1).
		Msg("despacho de reposición fallido, se reintentará")
}
