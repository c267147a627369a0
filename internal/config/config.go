package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration values.
type Config struct {
	AppPort           string
	BackendBaseURL    string
	GeminiAPIKey      string
	GeminiModel       string
	CheckoutScriptURL string
	MerchantName      string
	ThemeColor        string
}

// Load reads environment variables and returns a populated Config.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:           getEnv("APP_PORT", "8080"),
		BackendBaseURL:    strings.TrimRight(getEnv("BACKEND_API_URL", "http://localhost:9090"), "/"),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-3-flash-preview"),
		CheckoutScriptURL: getEnv("RAZORPAY_SCRIPT_URL", "https://checkout.razorpay.com/v1/checkout.js"),
		MerchantName:      getEnv("MERCHANT_NAME", "FlavorPay"),
		ThemeColor:        getEnv("CHECKOUT_THEME_COLOR", "#2563eb"),
	}

	if cfg.AppPort == "" {
		log.Fatal("APP_PORT must be set")
	}

	if cfg.BackendBaseURL == "" {
		log.Fatal("BACKEND_API_URL must be set")
	}

	// GEMINI_API_KEY stays optional: without it the insight service serves
	// its fallback sentence instead of failing startup.

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
