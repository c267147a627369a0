package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/example/flavorpay/internal/services"
)

// HistoryHandler serves the payments history view.
type HistoryHandler struct {
	history *services.HistoryService
}

// NewHistoryHandler constructs HistoryHandler.
func NewHistoryHandler(history *services.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// GetHistory loads every order, projects it for display, and applies the
// requested filter. A backend fetch failure surfaces as a visible error with
// an empty list; the insight sentence can never break this endpoint.
func (h *HistoryHandler) GetHistory(c *fiber.Ctx) error {
	snapshot, err := h.history.Load(c.Context())
	if err != nil {
		log.Printf("[History] failed to fetch transactions: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"success":      false,
			"error":        "Unable to load transaction history.",
			"transactions": []any{},
		})
	}

	filter := services.Filter(c.Query("filter", string(services.FilterAll)))
	filtered := services.ApplyFilter(snapshot.Transactions, filter)

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"transactions": filtered,
			"totalSpent":   snapshot.TotalSpent,
			"count":        len(snapshot.Transactions),
			"insight":      snapshot.Insight,
		},
	})
}
