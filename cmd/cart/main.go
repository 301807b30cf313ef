package main

import (
	"context"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"MiniCart/internal/cart"
	"MiniCart/internal/config"
	"MiniCart/internal/events"
	"MiniCart/pkg/kit"
)

func main() {
	service := "cart"

	cfg, err := config.Load(service, "8083")
	if err != nil {
		kit.NewLogger(service, "").Fatal("load config", zap.Error(err))
	}

	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("cart stopped", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	mode, err := cart.ParseMode(cfg.CartMode)
	if err != nil {
		return err
	}
	cart.BaseRemoveURL = cfg.RemoveLinkBase

	pub, closePub, err := events.Open(cfg.RabbitURL, cfg.RabbitExchange)
	if err != nil {
		return err
	}
	defer func() { _ = closePub() }()

	reg := prometheus.NewRegistry()
	s := cart.NewServer(cart.NewCatalogClient(cfg.CatalogURL), mode, log, pub, reg)

	h := cart.NewHandler(s, cart.HTTPDeps{
		Log:              log,
		Service:          cfg.Service,
		Registry:         reg,
		MetricsTokenHash: []byte(cfg.MetricsTokenHash),
		CORSOrigins:      cfg.CORSOrigins,
		RateLimit:        cfg.CartRateLimit,
	})

	log.Info("cart ready",
		zap.String("cart_id", s.ID),
		zap.Stringer("mode", mode),
		zap.String("catalog_url", cfg.CatalogURL),
	)
	return kit.RunHTTPServer(ctx, cfg.Addr(), h, log)
}
