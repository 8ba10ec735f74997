package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stocknet-api/internal/application/dto"
	"github.com/jhoicas/stocknet-api/internal/application/inventory"
	"github.com/jhoicas/stocknet-api/internal/domain"
	"github.com/jhoicas/stocknet-api/internal/domain/entity"
	"github.com/jhoicas/stocknet-api/internal/domain/repository"
)

// ProductUseCase CRUD de productos. La eliminación es un evento que agota
// stock: deja una reposición crítica en el outbox dentro de la misma
// transacción que borra el producto.
type ProductUseCase struct {
	productRepo repository.ProductRepository
	txRunner    inventory.TxRunner
	replenisher *inventory.ReplenishmentUseCase
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	productRepo repository.ProductRepository,
	txRunner inventory.TxRunner,
	replenisher *inventory.ReplenishmentUseCase,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		txRunner:    txRunner,
		replenisher: replenisher,
	}
}

// Create valida los umbrales (min <= max) y crea el producto.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		MinQuantity: in.MinQuantity,
		MaxQuantity: in.MaxQuantity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if !product.Validate() {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID devuelve un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) (*dto.ProductListResponse, error) {
	products, err := uc.productRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := dto.ProductListResponse{Items: make([]dto.ProductResponse, 0, len(products))}
	for _, product := range products {
		out.Items = append(out.Items, *toProductResponse(product))
	}
	return &out, nil
}

// Update actualiza los campos mutables del producto (el ID nunca cambia).
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.MinQuantity = in.MinQuantity
	product.MaxQuantity = in.MaxQuantity
	product.UpdatedAt = time.Now()
	if !product.Validate() {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete elimina el producto, borra sus filas de inventario y deja la
// reposición crítica en el outbox, todo en una transacción.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(
		invRepo repository.InventoryRepository,
		_ repository.PurchaseRepository,
		outboxRepo repository.OutboxRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		if err := uc.replenisher.OnProductDeleted(ctx, outboxRepo, product); err != nil {
			return err
		}
		if err := invRepo.DeleteByProduct(ctx, id); err != nil {
			return err
		}
		return productRepo.Delete(ctx, id)
	})
}

func toProductResponse(product *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		MinQuantity: product.MinQuantity,
		MaxQuantity: product.MaxQuantity,
	}
}
