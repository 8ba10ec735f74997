package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stocknet-api/internal/application/dto"
	"github.com/jhoicas/stocknet-api/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP del ledger de inventario.
type InventoryHandler struct {
	ledger *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// Get godoc
// @Summary      Inventario de una ubicación
// @Tags         inventory
// @Produce      json
// @Param        location_id  path  string  true  "ID de la ubicación"
// @Success      200  {object}  map[string]int
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{location_id}/inventory [get]
func (h *InventoryHandler) Get(c *fiber.Ctx) error {
	inv, err := h.ledger.Map(c.Context(), c.Params("location_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inv)
}

// Update godoc
// @Summary      Ajustar inventario
// @Description  Aplica quantity_change (positivo o negativo) al producto en la
// @Description  ubicación. El resultado nunca baja de cero.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        location_id  path  string                      true  "ID de la ubicación"
// @Param        body         body  dto.UpdateInventoryRequest  true  "product_id y quantity_change"
// @Success      200  {object}  map[string]int
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{location_id}/inventory [put]
func (h *InventoryHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInventoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id es requerido"})
	}
	inv, err := h.ledger.Adjust(c.Context(), c.Params("location_id"), in.ProductID, in.QuantityChange)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inv)
}

// Excess godoc
// @Summary      Excedentes de inventario
// @Description  Productos cuya cantidad en la ubicación supera su max_quantity.
// @Tags         inventory
// @Produce      json
// @Param        location_id  path  string  true  "ID de la ubicación"
// @Success      200  {object}  map[string]int
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{location_id}/excess_inventory [get]
func (h *InventoryHandler) Excess(c *fiber.Ctx) error {
	out, err := h.ledger.Excess(c.Context(), c.Params("location_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Missing godoc
// @Summary      Faltantes de inventario
// @Description  Para cada producto por debajo de su min_quantity, cuánto falta
// @Description  para alcanzarlo. Productos sin fila cuentan con cantidad cero.
// @Tags         inventory
// @Produce      json
// @Param        location_id  path  string  true  "ID de la ubicación"
// @Success      200  {object}  map[string]int
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/locations/{location_id}/missing_inventory [get]
func (h *InventoryHandler) Missing(c *fiber.Ctx) error {
	out, err := h.ledger.Missing(c.Context(), c.Params("location_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
