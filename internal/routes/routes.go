package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/flavorpay/internal/handlers"
	"github.com/example/flavorpay/internal/services"
)

// Services bundles the constructed service objects main hands to the router.
type Services struct {
	Backend  *services.BackendClient
	Razorpay *services.RazorpayService
	Checkout *services.CheckoutService
	History  *services.HistoryService
}

// Register wires up all HTTP routes.
func Register(app *fiber.App, svc *Services) {
	checkoutHandler := handlers.NewCheckoutHandler(svc.Checkout, svc.Razorpay)
	historyHandler := handlers.NewHistoryHandler(svc.History)
	orderHandler := handlers.NewOrderHandler(svc.Backend)

	api := app.Group("/api")

	// Checkout flow
	checkout := api.Group("/checkout")
	checkout.Get("/summary", checkoutHandler.Summary)
	checkout.Get("/script", checkoutHandler.Script)
	checkout.Post("/", checkoutHandler.StartCheckout)
	checkout.Get("/:id", checkoutHandler.GetCheckout)
	checkout.Post("/:id/outcome", checkoutHandler.SubmitOutcome)

	// Payments history
	api.Get("/history", historyHandler.GetHistory)

	// Order proxy
	orders := api.Group("/orders")
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Post("/:id/confirm", orderHandler.ConfirmOrder)
	orders.Post("/:id/cancel", orderHandler.CancelOrder)
}
