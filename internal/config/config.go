package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Service  string
	Port     string
	LogLevel string

	CatalogURL   string
	CartURL      string
	StoreDriver  string
	StoreDSN     string
	SeedProducts string

	AddLinkBase    string
	RemoveLinkBase string
	CartMode       string
	CartRateLimit  int

	JWTSecret        string
	MetricsTokenHash string
	CORSOrigins      []string

	RabbitURL      string
	RabbitExchange string
}

// Load reads .env (when present) and the process environment. Variables
// already set in the environment win over .env.
func Load(service, defaultPort string) (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	rate, err := getint("CART_RATE_LIMIT", 120)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Service:  service,
		Port:     getenv("PORT", defaultPort),
		LogLevel: getenv("LOG_LEVEL", "info"),

		CatalogURL:   getenv("CATALOG_URL", "http://localhost:8082"),
		CartURL:      getenv("CART_URL", "http://localhost:8083"),
		StoreDriver:  getenv("STORE_DRIVER", "memory"),
		StoreDSN:     os.Getenv("STORE_DSN"),
		SeedProducts: os.Getenv("SEED_PRODUCTS"),

		AddLinkBase:    os.Getenv("ADD_LINK_BASE"),
		RemoveLinkBase: os.Getenv("REMOVE_LINK_BASE"),
		CartMode:       getenv("CART_MODE", "legacy"),
		CartRateLimit:  rate,

		JWTSecret:        os.Getenv("JWT_SECRET"),
		MetricsTokenHash: os.Getenv("METRICS_TOKEN_HASH"),
		CORSOrigins:      splitList(os.Getenv("CORS_ORIGINS")),

		RabbitURL:      os.Getenv("RABBIT_URL"),
		RabbitExchange: getenv("RABBIT_EXCHANGE", "domain_events"),
	}, nil
}

func (c Config) Addr() string { return ":" + c.Port }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
