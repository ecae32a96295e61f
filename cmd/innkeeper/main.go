package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/innkeeper-pms/innkeeper/internal/app"
	"github.com/innkeeper-pms/innkeeper/internal/dashboard"
	"github.com/innkeeper-pms/innkeeper/internal/observability"
	"github.com/innkeeper-pms/innkeeper/internal/property"
	"github.com/innkeeper-pms/innkeeper/internal/revenue"
	"github.com/innkeeper-pms/innkeeper/internal/shared"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := pgxpool.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	propertyRepo := property.NewRepository(dbpool)
	tzResolver := property.NewResolver(propertyRepo, logger)

	revenueRepo := revenue.NewRepository(dbpool)
	aggregator := revenue.NewAggregator(revenueRepo, tzResolver, logger, metrics)
	revenueCache := revenue.NewCache(redisClient, aggregator, cfg.RevenueCacheTTL, logger, metrics)

	dashboardService := dashboard.NewService(revenueCache)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService)

	keyStore := shared.NewAPIKeyStore(dbpool)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		KeyStore:         keyStore,
		DashboardHandler: dashboardHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
