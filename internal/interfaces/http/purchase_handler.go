package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stocknet-api/internal/application/dto"
	"github.com/jhoicas/stocknet-api/internal/application/inventory"
	"github.com/jhoicas/stocknet-api/pkg/metrics"
)

// PurchaseHandler maneja las peticiones HTTP de compras.
type PurchaseHandler struct {
	uc *inventory.PurchaseUseCase
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *inventory.PurchaseUseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// Purchase godoc
// @Summary      Registrar compra
// @Description  Verifica y descuenta stock de forma atómica, registra la compra
// @Description  y dispara la reposición si el stock restante cae bajo el umbral.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PurchaseRequest  true  "location_id, product_id y quantity"
// @Success      200   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchase [post]
func (h *PurchaseHandler) Purchase(c *fiber.Ctx) error {
	var in dto.PurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.uc.Purchase(c.Context(), in.LocationID, in.ProductID, in.Quantity)
	if err != nil {
		metrics.PurchasesTotal.WithLabelValues("rejected").Inc()
		return respondError(c, err)
	}
	metrics.PurchasesTotal.WithLabelValues("accepted").Inc()
	return c.JSON(dto.PurchaseResponse{
		Message:        "compra registrada",
		LocationID:     result.Purchase.LocationID,
		ProductID:      result.Purchase.ProductID,
		Quantity:       result.Purchase.Quantity,
		RemainingStock: result.RemainingStock,
	})
}

// ListByLocation godoc
// @Summary      Compras de una ubicación
// @Tags         purchases
// @Produce      json
// @Param        location_id  path   string  true   "ID de la ubicación"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.PurchaseRecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{location_id} [get]
func (h *PurchaseHandler) ListByLocation(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	purchases, err := h.uc.ListByLocation(c.Context(), c.Params("location_id"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.PurchaseRecordResponse, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, dto.PurchaseRecordResponse{
			ID:         p.ID,
			LocationID: p.LocationID,
			ProductID:  p.ProductID,
			Quantity:   p.Quantity,
			CreatedAt:  p.CreatedAt.Format(time.RFC3339),
		})
	}
	return c.JSON(out)
}
