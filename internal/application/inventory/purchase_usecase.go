package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stocknet-api/internal/domain"
	"github.com/jhoicas/stocknet-api/internal/domain/entity"
	"github.com/jhoicas/stocknet-api/internal/domain/repository"
)

// PurchaseUseCase registra compras: verifica y descuenta stock, agrega el
// registro inmutable de la compra y deja la intención de reposición en el
// outbox, todo dentro de una única transacción. La verificación y el
// descuento son un solo paso atómico por (ubicación, producto); compradores
// concurrentes nunca observan una cantidad obsoleta.
type PurchaseUseCase struct {
	txRunner     TxRunner
	locationRepo repository.LocationRepository
	productRepo  repository.ProductRepository
	purchaseRepo repository.PurchaseRepository
	replenisher  *ReplenishmentUseCase
}

// NewPurchaseUseCase construye el caso de uso. purchaseRepo se usa solo para
// lecturas; las escrituras van por los repos transaccionales del TxRunner.
func NewPurchaseUseCase(
	txRunner TxRunner,
	locationRepo repository.LocationRepository,
	productRepo repository.ProductRepository,
	purchaseRepo repository.PurchaseRepository,
	replenisher *ReplenishmentUseCase,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		txRunner:     txRunner,
		locationRepo: locationRepo,
		productRepo:  productRepo,
		purchaseRepo: purchaseRepo,
		replenisher:  replenisher,
	}
}

// PurchaseResult es el resultado de una compra exitosa.
type PurchaseResult struct {
	Purchase       *entity.Purchase
	RemainingStock int
}

// Purchase ejecuta la compra. Precondiciones: la ubicación existe, el
// producto existe y está registrado en la ubicación, y hay stock suficiente.
// Una compra rechazada no deja mutación parcial alguna.
func (uc *PurchaseUseCase) Purchase(ctx context.Context, locationID, productID string, quantity int) (*PurchaseResult, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	location, err := uc.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrLocationNotFound
	}

	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	var result PurchaseResult
	err = uc.txRunner.Run(ctx, func(
		invRepo repository.InventoryRepository,
		purchaseRepo repository.PurchaseRepository,
		outboxRepo repository.OutboxRepository,
		_ repository.ProductRepository,
	) error {
		// Sin fila en el ledger el producto no está asociado a la ubicación.
		_, ok, err := invRepo.Get(ctx, locationID, productID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrProductNotFound
		}

		remaining, err := invRepo.Adjust(ctx, locationID, productID, -quantity)
		if err != nil {
			return err
		}

		purchase := &entity.Purchase{
			ID:         uuid.New().String(),
			LocationID: locationID,
			ProductID:  productID,
			Quantity:   quantity,
			CreatedAt:  time.Now(),
		}
		if err := purchaseRepo.Create(ctx, purchase); err != nil {
			return err
		}

		if err := uc.replenisher.AfterPurchase(ctx, outboxRepo, locationID, product, remaining); err != nil {
			return err
		}

		result = PurchaseResult{Purchase: purchase, RemainingStock: remaining}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListByLocation lista las compras registradas en una ubicación.
func (uc *PurchaseUseCase) ListByLocation(ctx context.Context, locationID string, limit, offset int) ([]*entity.Purchase, error) {
	location, err := uc.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrLocationNotFound
	}
	return uc.purchaseRepo.ListByLocation(ctx, locationID, limit, offset)
}
