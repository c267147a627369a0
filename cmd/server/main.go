package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/flavorpay/internal/config"
	"github.com/example/flavorpay/internal/routes"
	"github.com/example/flavorpay/internal/services"
)

func main() {
	cfg := config.Load()

	backend := services.NewBackendClient(cfg.BackendBaseURL)
	razorpay := services.NewRazorpayService(cfg.CheckoutScriptURL)
	gemini := services.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel)
	checkout := services.NewCheckoutService(backend, razorpay, cfg.MerchantName, cfg.ThemeColor)
	history := services.NewHistoryService(backend, gemini)

	app := fiber.New(fiber.Config{
		AppName: "FlavorPay Checkout",
	})

	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, &routes.Services{
		Backend:  backend,
		Razorpay: razorpay,
		Checkout: checkout,
		History:  history,
	})

	if err := razorpay.EnsureReady(context.Background()); err != nil {
		log.Printf("Razorpay script warm-up failed: %v", err)
	}

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
