// Package main is the entry point for the ledger HTTP server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bankledger/internal/config"
	"bankledger/internal/handlers"
	"bankledger/internal/logging"
	"bankledger/internal/middleware"
	"bankledger/internal/repositories"
	"bankledger/internal/repositories/cache"
	"bankledger/internal/routes"
	"bankledger/internal/services/account"
	"bankledger/internal/telemetry"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

const (
	version         = "1.0.0"
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := repositories.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("failed to close store", zap.Error(err))
		}
	}()

	checks := map[string]handlers.HealthCheck{"store": repo.Ping}

	var balanceCache account.BalanceCache
	if cfg.Redis.Enabled {
		client := cache.NewRedisClient(&cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		bc := cache.NewBalanceCache(client, cfg.Redis.TTL)
		defer func() {
			if err := bc.Close(); err != nil {
				logger.Warn("failed to close redis connection", zap.Error(err))
			}
		}()

		if err := bc.HealthCheck(ctx); err != nil {
			return err
		}
		// Balances may have changed while we were down.
		if err := bc.Flush(ctx); err != nil {
			return err
		}
		logger.Info("balance cache ready", zap.String("host", cfg.Redis.Host), zap.Duration("ttl", cfg.Redis.TTL))

		balanceCache = bc
		checks["cache"] = bc.HealthCheck
	}

	var metrics account.MetricsCollector
	if cfg.OTLPEndpoint != "" {
		provider, err := telemetry.NewMeterProvider(ctx, cfg.ServiceName, cfg.Env, cfg.OTLPEndpoint)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := provider.Shutdown(shutdownCtx); err != nil {
				logger.Warn("failed to flush metrics", zap.Error(err))
			}
		}()

		collector, err := account.NewOTelMetricsCollector(provider)
		if err != nil {
			return err
		}
		metrics = collector
		logger.Info("exporting metrics", zap.String("endpoint", cfg.OTLPEndpoint))
	}

	accountService := account.NewService(repo, balanceCache, metrics, logger)

	app := fiber.New(fiber.Config{
		AppName:               cfg.ServiceName,
		ErrorHandler:          handlers.ErrorHandler(logger),
		DisableStartupMessage: cfg.IsProduction(),
		Immutable:             true,
	})

	app.Use(middleware.RequestLogger(logger))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, X-Request-ID",
		AllowMethods: "GET,POST,PUT,HEAD,OPTIONS",
	}))

	routes.SetupRoutes(app, accountService, handlers.NewHealthHandler(version, checks), logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("port", cfg.Port), zap.String("store", cfg.StoreDriver))
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	}
}
