package main

import (
	"context"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"MiniCart/internal/auth"
	"MiniCart/internal/catalog"
	"MiniCart/internal/config"
	"MiniCart/internal/events"
	"MiniCart/pkg/kit"
)

func main() {
	service := "catalog"

	cfg, err := config.Load(service, "8082")
	if err != nil {
		kit.NewLogger(service, "").Fatal("load config", zap.Error(err))
	}

	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("catalog stopped", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	if err := auth.CheckSecret(cfg.JWTSecret); err != nil {
		return err
	}
	catalog.BaseAddURL = cfg.AddLinkBase

	store, closeStore, err := catalog.OpenStore(ctx, cfg.StoreDriver, cfg.StoreDSN)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	pub, closePub, err := events.Open(cfg.RabbitURL, cfg.RabbitExchange)
	if err != nil {
		return err
	}
	defer func() { _ = closePub() }()

	var seed []catalog.ProductInput
	if cfg.SeedProducts != "" {
		if seed, err = catalog.ParseProductList([]byte(cfg.SeedProducts)); err != nil {
			return err
		}
	}

	s := catalog.NewServer(store, log, pub)
	if err := s.Bootstrap(ctx, seed); err != nil {
		return err
	}

	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:              log,
		Service:          cfg.Service,
		Registry:         prometheus.NewRegistry(),
		MetricsTokenHash: []byte(cfg.MetricsTokenHash),
		CORSOrigins:      cfg.CORSOrigins,
		Tokens:           auth.NewTokenMaker(cfg.JWTSecret),
	})

	log.Info("catalog ready",
		zap.String("store", cfg.StoreDriver),
		zap.Bool("events", cfg.RabbitURL != ""),
	)
	return kit.RunHTTPServer(ctx, cfg.Addr(), h, log)
}
