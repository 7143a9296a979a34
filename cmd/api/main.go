package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/atheash/commerce-insights/api/controllers"
	"github.com/atheash/commerce-insights/api/routes"
	"github.com/atheash/commerce-insights/internal/dataset"
	"github.com/atheash/commerce-insights/internal/insights"
	"github.com/atheash/commerce-insights/pkg/config"
	"github.com/atheash/commerce-insights/pkg/db"
	"github.com/atheash/commerce-insights/pkg/logger"
	"github.com/atheash/commerce-insights/pkg/metrics"
	"github.com/atheash/commerce-insights/pkg/migrate"
	"github.com/atheash/commerce-insights/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	datasetMetrics := metrics.NewDatasetMetrics(registry)

	var dbClient *db.Client
	if cfg.Dataset.IsWarehouse() {
		dbClient, err = db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap database", err)
			os.Exit(1)
		}
		defer func() {
			if err := dbClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing database", err)
			}
		}()

		if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
			logg.Error(context.Background(), "failed to run dev migrations", err)
			os.Exit(1)
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Configured() {
		redisClient, err = redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	}

	reloader := dataset.NewReloader(cfg.Dataset, dbClient, logg, datasetMetrics)
	snapshot, err := reloader.Reload(context.Background(), "")
	if err != nil {
		logg.Error(context.Background(), "failed to load initial dataset", err)
		os.Exit(1)
	}

	params := insights.ServiceParams{Snapshot: snapshot, Logger: logg}
	if redisClient != nil && cfg.Cache.Enabled {
		params.Cache = redisClient
		params.CacheTTL = cfg.Cache.TTL
	}
	service, err := insights.NewService(params)
	if err != nil {
		logg.Error(context.Background(), "failed to create reporting service", err)
		os.Exit(1)
	}

	var dbPinger controllers.Pinger
	if dbClient != nil {
		dbPinger = dbClient
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":             cfg.App.Env,
		"addr":            addr,
		"dataset_source":  cfg.Dataset.Source,
		"dataset_version": snapshot.Version,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, registry, httpMetrics, service, reloader, dbPinger, redisClient),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
