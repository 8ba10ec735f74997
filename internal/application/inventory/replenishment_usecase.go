package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stocknet-api/internal/domain/entity"
	"github.com/jhoicas/stocknet-api/internal/domain/repository"
	"github.com/jhoicas/stocknet-api/pkg/logger"
)

// Routing keys para las solicitudes de reposición en el exchange direct.
// critical: stock agotado o producto eliminado; normal: bajo umbral.
const (
	RoutingKeyRestockNormal   = "restock.normal"
	RoutingKeyRestockCritical = "restock.critical"
)

// ReplenishmentUseCase decide si un evento que reduce stock amerita una
// solicitud de reposición, y la deja escrita en el outbox dentro de la
// transacción del evento. La entrega posterior es responsabilidad del drainer.
type ReplenishmentUseCase struct {
	threshold int // por debajo de este stock se repone
	quantity  int // cantidad fija a pedir
	log       *logger.Logger
}

// NewReplenishmentUseCase construye el caso de uso con el umbral y la
// cantidad fija de reposición configurados.
func NewReplenishmentUseCase(threshold, quantity int, log *logger.Logger) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{threshold: threshold, quantity: quantity, log: log}
}

// AfterPurchase evalúa el stock resultante de una compra. Si quedó por
// debajo del umbral escribe exactamente una entrada de outbox; si quedó en
// cero la marca como crítica.
func (uc *ReplenishmentUseCase) AfterPurchase(
	ctx context.Context,
	outboxRepo repository.OutboxRepository,
	locationID string,
	product *entity.Product,
	remaining int,
) error {
	if remaining >= uc.threshold {
		return nil
	}
	routingKey := RoutingKeyRestockNormal
	if remaining == 0 {
		routingKey = RoutingKeyRestockCritical
	}
	entry := uc.newEntry(locationID, product, routingKey)
	if err := outboxRepo.Add(ctx, entry); err != nil {
		return err
	}
	uc.log.Info().
		Str("location_id", locationID).
		Str("product_id", product.ID).
		Int("remaining", remaining).
		Str("routing_key", routingKey).
		Msg("solicitud de reposición encolada en outbox")
	return nil
}

// OnProductDeleted escribe una solicitud crítica de reposición al eliminar
// un producto, con ubicación centinela vacía y la cantidad fija configurada,
// sin importar el stock restante.
func (uc *ReplenishmentUseCase) OnProductDeleted(
	ctx context.Context,
	outboxRepo repository.OutboxRepository,
	product *entity.Product,
) error {
	entry := uc.newEntry("", product, RoutingKeyRestockCritical)
	if err := outboxRepo.Add(ctx, entry); err != nil {
		return err
	}
	uc.log.Info().
		Str("product_id", product.ID).
		Msg("producto eliminado: reposición crítica encolada en outbox")
	return nil
}

func (uc *ReplenishmentUseCase) newEntry(locationID string, product *entity.Product, routingKey string) *entity.OutboxEntry {
	now := time.Now()
	return &entity.OutboxEntry{
		ID: uuid.New().String(),
		Request: entity.RestockRequest{
			LocationID:  locationID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    uc.quantity,
		},
		RoutingKey: routingKey,
		Status:     entity.OutboxPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
