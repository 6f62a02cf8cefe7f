// Package bootstrap wires the process-wide runtime: database, optional Redis
// and built-in catalog data.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"cinemate/internal/config"
	"cinemate/internal/database"
	"cinemate/internal/models"
	"cinemate/internal/notifications"
	"cinemate/internal/observability"
	"cinemate/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedCatalog bool
}

// InitRuntime connects to DB and Redis and optionally seeds the built-in catalog.
// The returned Redis client is nil when Redis is not reachable.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	rdb := notifications.ConnectOptional(ctx, cfg.RedisURL)

	if opts.SeedCatalog {
		if err := EnsureCatalog(ctx, db); err != nil {
			if rdb != nil {
				_ = rdb.Close()
			}
			return nil, nil, fmt.Errorf("failed to seed built-in catalog: %w", err)
		}
	}

	return db, rdb, nil
}

// EnsureCatalog loads the embedded catalog into an empty films table.
// A database that already has films is left untouched.
func EnsureCatalog(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Film{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count films: %w", err)
	}
	if count > 0 {
		return nil
	}

	catalog, err := seed.DefaultCatalog()
	if err != nil {
		return err
	}
	res, err := seed.NewSeeder(db).ApplyFixture(ctx, catalog)
	if err != nil {
		return err
	}
	observability.Logger.InfoContext(ctx, "built-in catalog seeded", slog.Int("films", res.Films))
	return nil
}
