package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stocknet-api/internal/application/dto"
	"github.com/jhoicas/stocknet-api/internal/domain"
	"github.com/jhoicas/stocknet-api/internal/domain/entity"
	"github.com/jhoicas/stocknet-api/internal/domain/repository"
)

// LocationUseCase CRUD de ubicaciones y su asociación con productos.
type LocationUseCase struct {
	locationRepo repository.LocationRepository
	productRepo  repository.ProductRepository
	invRepo      repository.InventoryRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(
	locationRepo repository.LocationRepository,
	productRepo repository.ProductRepository,
	invRepo repository.InventoryRepository,
) *LocationUseCase {
	return &LocationUseCase{
		locationRepo: locationRepo,
		productRepo:  productRepo,
		invRepo:      invRepo,
	}
}

// Create crea la ubicación y asocia los productos indicados con cantidad cero.
func (uc *LocationUseCase) Create(ctx context.Context, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	location := &entity.Location{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.locationRepo.Create(ctx, location); err != nil {
		return nil, err
	}
	if err := uc.associate(ctx, location.ID, in.Products); err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, location)
}

// GetByID devuelve la ubicación con sus productos asociados.
func (uc *LocationUseCase) GetByID(ctx context.Context, id string) (*dto.LocationResponse, error) {
	location, err := uc.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrLocationNotFound
	}
	return uc.toResponse(ctx, location)
}

// List lista ubicaciones con paginación.
func (uc *LocationUseCase) List(ctx context.Context, limit, offset int) (*dto.LocationListResponse, error) {
	locations, err := uc.locationRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := dto.LocationListResponse{Items: make([]dto.LocationResponse, 0, len(locations))}
	for _, location := range locations {
		resp, err := uc.toResponse(ctx, location)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, *resp)
	}
	return &out, nil
}

// Update actualiza nombre y dirección, y agrega asociaciones de productos
// nuevas si vienen en la petición (no des-asocia productos con stock).
func (uc *LocationUseCase) Update(ctx context.Context, id string, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	location, err := uc.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrLocationNotFound
	}
	if in.Name != "" {
		location.Name = in.Name
	}
	if in.Address != "" {
		location.Address = in.Address
	}
	location.UpdatedAt = time.Now()
	if err := uc.locationRepo.Update(ctx, location); err != nil {
		return nil, err
	}
	if err := uc.associate(ctx, id, in.Products); err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, location)
}

// Delete elimina la ubicación y su inventario.
func (uc *LocationUseCase) Delete(ctx context.Context, id string) error {
	location, err := uc.locationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if location == nil {
		return domain.ErrLocationNotFound
	}
	if err := uc.invRepo.DeleteByLocation(ctx, id); err != nil {
		return err
	}
	return uc.locationRepo.Delete(ctx, id)
}

func (uc *LocationUseCase) associate(ctx context.Context, locationID string, productIDs []string) error {
	for _, productID := range productIDs {
		product, err := uc.productRepo.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		if err := uc.invRepo.Associate(ctx, locationID, productID); err != nil {
			return err
		}
	}
	return nil
}

func (uc *LocationUseCase) toResponse(ctx context.Context, location *entity.Location) (*dto.LocationResponse, error) {
	inv, err := uc.invRepo.Map(ctx, location.ID)
	if err != nil {
		return nil, err
	}
	products := make([]string, 0, len(inv))
	for productID := range inv {
		products = append(products, productID)
	}
	sort.Strings(products)
	return &dto.LocationResponse{
		ID:       location.ID,
		Name:     location.Name,
		Address:  location.Address,
		Products: products,
	}, nil
}
