package config

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/vyatkin0/micro-services/pkg/config"
)

type Config struct {
	ListenAddr string
	LogLevel   string

	IdentityURL string
	ProductsURL string
	OrdersURL   string
}

// Load reads the gateway configuration. Every provider URL is
// required: a gateway that cannot reach a registered backend is
// misconfigured, not degraded.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ListenAddr: config.EnvDefault("GATEWAY_URL", ":8080"),
		LogLevel:   config.EnvDefault("LOG_LEVEL", "info"),

		IdentityURL: config.MustNonEmpty(os.Getenv("PROVIDER_IDENTITY_URL"), "PROVIDER_IDENTITY_URL"),
		ProductsURL: config.MustNonEmpty(os.Getenv("PROVIDER_PRODUCTS_URL"), "PROVIDER_PRODUCTS_URL"),
		OrdersURL:   config.MustNonEmpty(os.Getenv("PROVIDER_ORDERS_URL"), "PROVIDER_ORDERS_URL"),
	}
}
