package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/baezlibros/storefront/internal/storefront"
	"github.com/baezlibros/storefront/pkg/config"
	"github.com/baezlibros/storefront/pkg/currency"
	"github.com/baezlibros/storefront/pkg/logger"
	"github.com/baezlibros/storefront/pkg/metrics"
	"github.com/baezlibros/storefront/pkg/storage"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	kv, err := openStorage(ctx, cfg, logg)
	requireResource(ctx, logg, "snapshot storage", err)
	defer func() {
		if err := kv.Close(); err != nil {
			logg.Error(ctx, "failed to close snapshot storage", err)
		}
	}()

	engine, err := storefront.New(storefront.Params{
		Config:  cfg,
		KV:      kv,
		Logger:  logg,
		Metrics: metrics.NewStorefrontMetrics(prometheus.DefaultRegisterer),
	})
	requireResource(ctx, logg, "storefront engine", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"env":    cfg.App.Env,
		"driver": cfg.Storage.Driver,
	})

	err = engine.Start(runCtx)
	requireResource(runCtx, logg, "catalog load", err)

	prices := currency.NewFormatter(cfg.Search.Locale)
	engine.Subscribe(func(event storefront.Event) {
		eventCtx := logg.WithField(runCtx, "event", string(event.Kind))
		if event.Receipt != nil {
			eventCtx = logg.WithOrderRef(eventCtx, event.Receipt.OrderRef)
			eventCtx = logg.WithField(eventCtx, "total", prices.FormatPrice(event.Receipt.Total))
		}
		logg.Info(eventCtx, "storefront event")
	})

	logg.Info(runCtx, fmt.Sprintf("storefront ready with %d books", engine.Catalog().Len()))

	<-runCtx.Done()
	logg.Info(ctx, "storefront shutting down")
}

func openStorage(ctx context.Context, cfg *config.Config, logg *logger.Logger) (storage.KV, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Storage.Driver)) {
	case config.StorageDriverRedis:
		return storage.NewRedisKV(ctx, cfg.Redis, cfg.Storage.Namespace, logg)
	default:
		return storage.NewSQLiteKV(ctx, cfg.Storage, logg)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
