package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/flavorpay/internal/services"
)

// CheckoutHandler manages the checkout flow endpoints.
type CheckoutHandler struct {
	checkout *services.CheckoutService
	razorpay *services.RazorpayService
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(checkout *services.CheckoutService, razorpay *services.RazorpayService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, razorpay: razorpay}
}

type startCheckoutRequest struct {
	CustomerName string  `json:"customerName"`
	TotalAmount  float64 `json:"totalAmount"`
}

type summaryItem struct {
	Name   string  `json:"name"`
	Notes  string  `json:"notes"`
	Amount float64 `json:"amount"`
}

// StartCheckout kicks off a payment attempt. Re-entry while an attempt is
// processing is rejected with 409.
func (h *CheckoutHandler) StartCheckout(c *fiber.Ctx) error {
	var req startCheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.CustomerName == "" {
		req.CustomerName = "Guest User"
	}
	if req.TotalAmount <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "totalAmount must be positive")
	}

	attemptID, err := h.checkout.Start(req.CustomerName, req.TotalAmount)
	if err != nil {
		if errors.Is(err, services.ErrCheckoutInProgress) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return err
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"attemptId": attemptID},
	})
}

// GetCheckout reports the attempt's current state for the polling UI.
func (h *CheckoutHandler) GetCheckout(c *fiber.Ctx) error {
	snapshot, err := h.checkout.Snapshot(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "checkout attempt not found")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    snapshot,
	})
}

// SubmitOutcome relays the hosted modal's result back into the flow.
func (h *CheckoutHandler) SubmitOutcome(c *fiber.Ctx) error {
	var outcome services.PaymentOutcome
	if err := c.BodyParser(&outcome); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	switch outcome.Kind {
	case services.OutcomeSuccess, services.OutcomeDismissed, services.OutcomeFailed:
	default:
		return fiber.NewError(fiber.StatusBadRequest, "unknown outcome type")
	}

	if err := h.checkout.SubmitOutcome(c.Params("id"), outcome); err != nil {
		return fiber.NewError(fiber.StatusNotFound, "checkout attempt not found")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Script serves the memoized hosted checkout script to the browser shell.
func (h *CheckoutHandler) Script(c *fiber.Ctx) error {
	if err := h.razorpay.EnsureReady(c.Context()); err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	c.Set(fiber.HeaderContentType, "application/javascript")
	return c.Send(h.razorpay.Script())
}

// Summary returns the fixed demo order shown on the checkout view.
func (h *CheckoutHandler) Summary(c *fiber.Ctx) error {
	items := []summaryItem{
		{Name: "Truffle Burger Duo", Notes: "Medium rare, extra cheese", Amount: 24.00},
		{Name: "Classic Lemonade", Notes: "500ml, chilled", Amount: 4.50},
	}

	var subtotal float64
	for _, item := range items {
		subtotal += item.Amount
	}
	total := 31.49

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"customerName": "Guest User",
			"items":        items,
			"subtotal":     subtotal,
			"deliveryFee":  total - subtotal,
			"totalAmount":  total,
		},
	})
}
