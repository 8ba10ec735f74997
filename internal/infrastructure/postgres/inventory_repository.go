package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stocknet-api/internal/domain"
	"github.com/jhoicas/stocknet-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo ledger sobre PostgreSQL. Adjust es un único UPDATE con
// guarda (quantity + delta >= 0), así el check-and-decrement es atómico por
// fila y compradores concurrentes quedan serializados por el row lock.
type InventoryRepo struct {
	db Querier
}

// NewInventoryRepository construye el adaptador del ledger.
func NewInventoryRepository(db Querier) *InventoryRepo {
	return &InventoryRepo{db: db}
}

// Get devuelve la cantidad y si existe fila para la clave.
func (r *InventoryRepo) Get(ctx context.Context, locationID, productID string) (int, bool, error) {
	query := `SELECT quantity FROM inventory WHERE location_id = $1 AND product_id = $2`
	var quantity int
	err := r.db.QueryRow(ctx, query, locationID, productID).Scan(&quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("get inventory: %w", err)
	}
	return quantity, true, nil
}

// Adjust aplica el delta de forma atómica. Con delta positivo crea la fila
// si no existe; un resultado negativo falla con ErrInsufficientStock sin
// tocar la fila.
func (r *InventoryRepo) Adjust(ctx context.Context, locationID, productID string, delta int) (int, error) {
	if delta >= 0 {
		query := `
			INSERT INTO inventory (location_id, product_id, quantity)
			VALUES ($1, $2, $3)
			ON CONFLICT (location_id, product_id)
			DO UPDATE SET quantity = inventory.quantity + EXCLUDED.quantity
			RETURNING quantity`
		var quantity int
		if err := r.db.QueryRow(ctx, query, locationID, productID, delta).Scan(&quantity); err != nil {
			return 0, fmt.Errorf("adjust inventory: %w", err)
		}
		return quantity, nil
	}

	query := `
		UPDATE inventory SET quantity = quantity + $3
		WHERE location_id = $1 AND product_id = $2 AND quantity + $3 >= 0
		RETURNING quantity`
	var quantity int
	err := r.db.QueryRow(ctx, query, locationID, productID, delta).Scan(&quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Sin fila, o la guarda rechazó el descuento: stock insuficiente.
			return 0, domain.ErrInsufficientStock
		}
		return 0, fmt.Errorf("adjust inventory: %w", err)
	}
	return quantity, nil
}

// Map devuelve el inventario completo de la ubicación.
func (r *InventoryRepo) Map(ctx context.Context, locationID string) (map[string]int, error) {
	query := `SELECT product_id, quantity FROM inventory WHERE location_id = $1`
	rows, err := r.db.Query(ctx, query, locationID)
	if err != nil {
		return nil, fmt.Errorf("map inventory: %w", err)
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var productID string
		var quantity int
		if err := rows.Scan(&productID, &quantity); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		out[productID] = quantity
	}
	return out, rows.Err()
}

// Associate crea la fila con cantidad cero si no existe.
func (r *InventoryRepo) Associate(ctx context.Context, locationID, productID string) error {
	query := `
		INSERT INTO inventory (location_id, product_id, quantity)
		VALUES ($1, $2, 0)
		ON CONFLICT (location_id, product_id) DO NOTHING`
	if _, err := r.db.Exec(ctx, query, locationID, productID); err != nil {
		return fmt.Errorf("associate inventory: %w", err)
	}
	return nil
}

// DeleteByLocation borra el inventario de la ubicación.
func (r *InventoryRepo) DeleteByLocation(ctx context.Context, locationID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM inventory WHERE location_id = $1`, locationID); err != nil {
		return fmt.Errorf("delete inventory by location: %w", err)
	}
	return nil
}

// DeleteByProduct borra las filas del producto en todas las ubicaciones.
func (r *InventoryRepo) DeleteByProduct(ctx context.Context, productID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM inventory WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("delete inventory by product: %w", err)
	}
	return nil
}
