package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stocknet-api/internal/domain/entity"
	"github.com/jhoicas/stocknet-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo log de compras sobre PostgreSQL (append-only).
type PurchaseRepo struct {
	db Querier
}

// NewPurchaseRepository construye el adaptador del log de compras.
func NewPurchaseRepository(db Querier) *PurchaseRepo {
	return &PurchaseRepo{db: db}
}

// Create inserta el registro de compra.
func (r *PurchaseRepo) Create(ctx context.Context, purchase *entity.Purchase) error {
	query := `
		INSERT INTO purchases (id, location_id, product_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Exec(ctx, query,
		purchase.ID, purchase.LocationID, purchase.ProductID, purchase.Quantity, purchase.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// ListByLocation lista compras registradas en la ubicación, más antiguas primero.
func (r *PurchaseRepo) ListByLocation(ctx context.Context, locationID string, limit, offset int) ([]*entity.Purchase, error) {
	query := `
		SELECT id, location_id, product_id, quantity, created_at
		FROM purchases WHERE location_id = $1
		ORDER BY created_at LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, locationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		var p entity.Purchase
		if err := rows.Scan(&p.ID, &p.LocationID, &p.ProductID, &p.Quantity, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
