package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stocknet-api/internal/application/dto"
	"github.com/jhoicas/stocknet-api/internal/domain"
	"github.com/jhoicas/stocknet-api/internal/domain/entity"
	"github.com/jhoicas/stocknet-api/internal/domain/repository"
	"github.com/jhoicas/stocknet-api/pkg/logger"
)

// OrderUseCase es el gestor del ciclo de vida de las órdenes: creación
// (siempre en pending), consulta, cambio de estado según la tabla de
// transiciones y eliminación desde cualquier estado.
type OrderUseCase struct {
	orderRepo repository.OrderRepository
	log       *logger.Logger
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(orderRepo repository.OrderRepository, log *logger.Logger) *OrderUseCase {
	return &OrderUseCase{orderRepo: orderRepo, log: log}
}

// Create crea una orden. El estado del cuerpo se ignora: toda orden nace
// en pending.
func (uc *OrderUseCase) Create(ctx context.Context, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if in.ProductID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	order := &entity.Order{
		ID:                    uuid.New().String(),
		ProductID:             in.ProductID,
		ProductName:           in.ProductName,
		Quantity:              in.Quantity,
		SourceLocationID:      in.SourceLocationID,
		DestinationLocationID: in.DestinationLocationID,
		SupplierID:            in.SupplierID,
		Status:                entity.OrderStatusPending,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// CreateFromRestock crea la orden pending que corresponde a una solicitud
// de reposición entregada por el canal de despacho.
func (uc *OrderUseCase) CreateFromRestock(ctx context.Context, req entity.RestockRequest) (*entity.Order, error) {
	if req.ProductID == "" || req.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	order := &entity.Order{
		ID:                    uuid.New().String(),
		ProductID:             req.ProductID,
		ProductName:           req.ProductName,
		Quantity:              req.Quantity,
		DestinationLocationID: req.LocationID,
		Status:                entity.OrderStatusPending,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("order_id", order.ID).
		Str("product_id", req.ProductID).
		Int("quantity", req.Quantity).
		Msg("orden de reposición creada")
	return order, nil
}

// GetByID devuelve una orden por ID.
func (uc *OrderUseCase) GetByID(ctx context.Context, id string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	return toOrderResponse(order), nil
}

// List lista órdenes con paginación.
func (uc *OrderUseCase) List(ctx context.Context, limit, offset int) (*dto.OrderListResponse, error) {
	orders, err := uc.orderRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := dto.OrderListResponse{Items: make([]dto.OrderResponse, 0, len(orders))}
	for _, order := range orders {
		out.Items = append(out.Items, *toOrderResponse(order))
	}
	return &out, nil
}

// SetStatus cambia el estado de la orden. Solo acepta transiciones de la
// tabla; repetir el estado actual es un no-op válido.
func (uc *OrderUseCase) SetStatus(ctx context.Context, id string, status string) (*dto.OrderResponse, error) {
	next := entity.OrderStatus(status)
	if !next.IsValid() {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, domain.ErrInvalidTransition
	}
	if order.Status != next {
		if err := uc.orderRepo.UpdateStatus(ctx, id, next); err != nil {
			return nil, err
		}
		order.Status = next
	}
	return toOrderResponse(order), nil
}

// Delete elimina la orden; es válido desde cualquier estado.
func (uc *OrderUseCase) Delete(ctx context.Context, id string) error {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrOrderNotFound
	}
	return uc.orderRepo.Delete(ctx, id)
}

func toOrderResponse(order *entity.Order) *dto.OrderResponse {
	return &dto.OrderResponse{
		ID:                    order.ID,
		ProductID:             order.ProductID,
		ProductName:           order.ProductName,
		Quantity:              order.Quantity,
		SourceLocationID:      order.SourceLocationID,
		DestinationLocationID: order.DestinationLocationID,
		SupplierID:            order.SupplierID,
		Status:                string(order.Status),
	}
}
