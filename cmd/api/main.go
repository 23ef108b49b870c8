package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ManasMalla/devfest-vizag-2025/internal/api/http/handlers"
	"github.com/ManasMalla/devfest-vizag-2025/internal/app"
	"github.com/ManasMalla/devfest-vizag-2025/internal/cache"
	"github.com/ManasMalla/devfest-vizag-2025/internal/config"
	"github.com/ManasMalla/devfest-vizag-2025/internal/observability"
	"github.com/ManasMalla/devfest-vizag-2025/internal/persistence"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer store.Close()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	provider, closeProvider, err := app.NewIdentityProvider(cfg, store.Repos.Users, logger)
	if err != nil {
		logger.Fatal("failed to init identity provider", zap.Error(err))
	}
	defer closeProvider()

	health := map[string]handlers.Pinger{}
	if store.Postgres != nil {
		health["postgres"] = store.Postgres
	}
	var cacheStore cache.Store = cache.NewMemoryStore()
	if redis.Enabled() {
		cacheStore = cache.NewRedisStore(redis.Client, cfg.Cache.InvalidationChannel)
		health["redis"] = redis
	}

	deps := app.Dependencies{
		Config:     cfg,
		Repos:      store.Repos,
		Provider:   provider,
		CacheStore: cacheStore,
		Logger:     logger,
		Health:     health,
	}
	services := app.NewServices(deps)
	server := app.NewHTTP(deps, services, observability.NewMetrics())

	go func() {
		if err := server.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = server.Shutdown()

	drainCtx, drainCancel := context.WithTimeout(context.Background(), shutdownDrainTimeout)
	defer drainCancel()
	if err := services.Stop(drainCtx); err != nil {
		logger.Warn("background work not drained", zap.Error(err))
	}
}

const shutdownDrainTimeout = 10 * time.Second

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
