package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo de la red de almacenes.
// MinQuantity y MaxQuantity son los umbrales por los que se calculan los
// reportes de faltantes y excedentes; el stock vive por ubicación (ver Ledger).
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	MinQuantity int
	MaxQuantity int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate verifica los invariantes del producto antes de crear/actualizar.
func (p Product) Validate() bool {
	if p.Name == "" {
		return false
	}
	if p.MinQuantity < 0 || p.MaxQuantity < 0 {
		return false
	}
	return p.MinQuantity <= p.MaxQuantity
}
