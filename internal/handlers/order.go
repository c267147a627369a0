package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/flavorpay/internal/services"
)

// OrderHandler proxies single-order operations straight through to the
// order service, preserving its status codes.
type OrderHandler struct {
	backend *services.BackendClient
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(backend *services.BackendClient) *OrderHandler {
	return &OrderHandler{backend: backend}
}

// GetOrder looks up one order; an absent order is a plain 404, not a failure.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	order, found, err := h.backend.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return backendError(err)
	}
	if !found {
		return fiber.NewError(fiber.StatusNotFound, "order not found")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    order,
	})
}

// ConfirmOrder transitions the order to Confirmed.
func (h *OrderHandler) ConfirmOrder(c *fiber.Ctx) error {
	order, err := h.backend.ConfirmOrder(c.Context(), c.Params("id"))
	if err != nil {
		return backendError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    order,
	})
}

// CancelOrder requests cancellation; the order service rejects anything that
// is not Confirmed with a 409, which is passed through unchanged.
func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	order, err := h.backend.CancelOrder(c.Context(), c.Params("id"))
	if err != nil {
		return backendError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    order,
	})
}

// backendError translates backend client failures into fiber errors, keeping
// the upstream status when one exists.
func backendError(err error) error {
	var apiErr *services.APIError
	if errors.As(err, &apiErr) {
		return fiber.NewError(apiErr.Status, apiErr.Message)
	}
	return fiber.NewError(fiber.StatusBadGateway, err.Error())
}
