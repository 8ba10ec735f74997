package repository

import (
	"context"

	"github.com/jhoicas/stocknet-api/internal/domain/entity"
)

// PurchaseRepository define el puerto para el log de compras (append-only).
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	ListByLocation(ctx context.Context, locationID string, limit, offset int) ([]*entity.Purchase, error)
}
