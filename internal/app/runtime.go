package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ManasMalla/devfest-vizag-2025/internal/auth"
	"github.com/ManasMalla/devfest-vizag-2025/internal/config"
	"github.com/ManasMalla/devfest-vizag-2025/internal/persistence"
	"github.com/ManasMalla/devfest-vizag-2025/internal/repository"
	"github.com/ManasMalla/devfest-vizag-2025/internal/repository/memory"
)

// Store is an opened document store.
type Store struct {
	Repos    repository.Set
	Postgres *persistence.Postgres
}

// Close releases the connection pool, if any.
func (s *Store) Close() {
	if s.Postgres != nil {
		s.Postgres.Close()
	}
}

// OpenStore connects the configured driver. Postgres runs pending migrations
// when enabled.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	if cfg.Store.Driver == "memory" {
		logger.Warn("using the in-memory store; data is lost on restart")
		return &Store{Repos: memory.New().Repositories()}, nil
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, cfg.App.Name, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			pg.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return &Store{Repos: repository.NewPostgresSet(pg.PoolHandle()), Postgres: pg}, nil
}

// NewIdentityProvider builds the configured provider. The returned func
// releases background resources.
func NewIdentityProvider(cfg *config.Config, users repository.UserRepository, logger *zap.Logger) (auth.IdentityProvider, func(), error) {
	switch cfg.Auth.Provider {
	case "keycloak":
		provider, err := auth.NewKeycloakProvider(cfg.Auth.Keycloak, logger)
		if err != nil {
			return nil, nil, err
		}
		return provider, provider.Close, nil
	default:
		return auth.NewLocalProvider(cfg.Auth.JWTSecret, cfg.Auth.Issuer, users), func() {}, nil
	}
}
