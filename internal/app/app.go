// Package app assembles the store and services shared by the cmd binaries.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tbourn/feedback-dashboard/internal/auth"
	"github.com/tbourn/feedback-dashboard/internal/config"
	"github.com/tbourn/feedback-dashboard/internal/mongostore"
	"github.com/tbourn/feedback-dashboard/internal/repo"
	"github.com/tbourn/feedback-dashboard/internal/services"
)

// Store is a feedback and user store that owns a connection.
type Store interface {
	services.FeedbackStore
	services.UserStore
	Close(ctx context.Context) error
}

// OpenStore connects the store selected by cfg.Store.Driver and prepares its
// schema. SQLite queries are traced when tracing is set; call it after the
// global tracer provider is installed.
func OpenStore(ctx context.Context, cfg config.StoreConfig, tracing bool) (Store, error) {
	lg := zerolog.Ctx(ctx)

	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := repo.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %q: %w", cfg.DBPath, err)
		}
		store := repo.NewStore(db)
		if err := repo.AutoMigrate(db); err != nil {
			_ = store.Close(ctx)
			return nil, fmt.Errorf("migrate: %w", err)
		}
		if tracing {
			if err := repo.EnableTracing(db); err != nil {
				_ = store.Close(ctx)
				return nil, fmt.Errorf("gorm tracing: %w", err)
			}
		}
		lg.Info().Str("driver", cfg.Driver).Str("path", cfg.DBPath).Msg("store ready")
		return store, nil

	case config.DriverMongo:
		store, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.FeedbackCollection)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureIndexes(ctx); err != nil {
			// Reads still work without the indexes.
			lg.Warn().Err(err).Msg("ensure indexes")
		}
		lg.Info().Str("driver", cfg.Driver).Str("database", cfg.MongoDatabase).
			Str("collection", cfg.FeedbackCollection).Msg("store ready")
		return store, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// NewDashboardService builds the dashboard service with the configured
// presentation defaults and fetch timeout.
func NewDashboardService(store services.FeedbackStore, cfg config.Config) *services.DashboardService {
	svc := services.NewDashboardService(store)
	svc.AnonymousName = cfg.Export.AnonymousName
	if cfg.Export.Location != nil {
		svc.Location = cfg.Export.Location
	}
	svc.FetchTimeout = cfg.Store.FetchTimeout
	return svc
}

// NewAuthService builds the auth service with HS256 tokens from cfg.Auth.
func NewAuthService(users services.UserStore, cfg config.AuthConfig) *services.AuthService {
	return services.NewAuthService(users, auth.NewTokens(cfg.JWTSecret, cfg.Issuer, cfg.TokenTTL))
}
