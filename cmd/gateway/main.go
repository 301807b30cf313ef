package main

import (
	"context"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"MiniCart/internal/config"
	"MiniCart/internal/gateway"
	"MiniCart/pkg/kit"
)

func main() {
	service := "gateway"

	cfg, err := config.Load(service, "8080")
	if err != nil {
		kit.NewLogger(service, "").Fatal("load config", zap.Error(err))
	}

	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	deps := gateway.Deps{
		CatalogURL: cfg.CatalogURL,
		CartURL:    cfg.CartURL,
	}

	h, err := gateway.NewHandler(deps, gateway.HTTPDeps{
		Log:              log,
		Service:          cfg.Service,
		Registry:         prometheus.NewRegistry(),
		MetricsTokenHash: []byte(cfg.MetricsTokenHash),
		CORSOrigins:      cfg.CORSOrigins,
	})
	if err != nil {
		log.Fatal("init gateway handler failed", zap.Error(err))
	}

	if err := kit.RunHTTPServer(context.Background(), cfg.Addr(), h, log); err != nil {
		log.Error("http server stopped", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}
