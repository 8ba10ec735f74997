package inventory

import (
	"context"

	"github.com/jhoicas/stocknet-api/internal/domain"
	"github.com/jhoicas/stocknet-api/internal/domain/repository"
)

// LedgerUseCase expone el ledger de inventario por ubicación: consulta,
// ajuste manual y reportes de excedentes/faltantes contra los umbrales
// de cada producto.
type LedgerUseCase struct {
	locationRepo repository.LocationRepository
	productRepo  repository.ProductRepository
	invRepo      repository.InventoryRepository
}

// NewLedgerUseCase construye el caso de uso del ledger.
func NewLedgerUseCase(
	locationRepo repository.LocationRepository,
	productRepo repository.ProductRepository,
	invRepo repository.InventoryRepository,
) *LedgerUseCase {
	return &LedgerUseCase{
		locationRepo: locationRepo,
		productRepo:  productRepo,
		invRepo:      invRepo,
	}
}

// Map devuelve el inventario completo de la ubicación (producto -> cantidad).
func (uc *LedgerUseCase) Map(ctx context.Context, locationID string) (map[string]int, error) {
	if err := uc.requireLocation(ctx, locationID); err != nil {
		return nil, err
	}
	return uc.invRepo.Map(ctx, locationID)
}

// Adjust aplica quantityChange (positivo o negativo) al producto en la
// ubicación y devuelve el inventario actualizado. Nunca deja stock negativo.
func (uc *LedgerUseCase) Adjust(ctx context.Context, locationID, productID string, quantityChange int) (map[string]int, error) {
	if err := uc.requireLocation(ctx, locationID); err != nil {
		return nil, err
	}
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if _, err := uc.invRepo.Adjust(ctx, locationID, productID, quantityChange); err != nil {
		return nil, err
	}
	return uc.invRepo.Map(ctx, locationID)
}

// Excess devuelve los productos cuya cantidad supera su MaxQuantity,
// con la cantidad actual.
func (uc *LedgerUseCase) Excess(ctx context.Context, locationID string) (map[string]int, error) {
	if err := uc.requireLocation(ctx, locationID); err != nil {
		return nil, err
	}
	inv, err := uc.invRepo.Map(ctx, locationID)
	if err != nil {
		return nil, err
	}
	excess := map[string]int{}
	for productID, quantity := range inv {
		product, err := uc.productRepo.GetByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		if product != nil && quantity > product.MaxQuantity {
			excess[productID] = quantity
		}
	}
	return excess, nil
}

// Missing devuelve, para cada producto conocido, cuánto falta para llegar
// a su MinQuantity (solo cuando falta algo). Los productos sin fila en la
// ubicación cuentan con cantidad cero.
func (uc *LedgerUseCase) Missing(ctx context.Context, locationID string) (map[string]int, error) {
	if err := uc.requireLocation(ctx, locationID); err != nil {
		return nil, err
	}
	inv, err := uc.invRepo.Map(ctx, locationID)
	if err != nil {
		return nil, err
	}
	missing := map[string]int{}
	// Se recorren todos los productos, no solo los asociados a la ubicación.
	const pageSize = 200
	for offset := 0; ; offset += pageSize {
		products, err := uc.productRepo.List(ctx, pageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, product := range products {
			current := inv[product.ID]
			if current < product.MinQuantity {
				missing[product.ID] = product.MinQuantity - current
			}
		}
		if len(products) < pageSize {
			break
		}
	}
	return missing, nil
}

func (uc *LedgerUseCase) requireLocation(ctx context.Context, locationID string) error {
	location, err := uc.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		return err
	}
	if location == nil {
		return domain.ErrLocationNotFound
	}
	return nil
}
