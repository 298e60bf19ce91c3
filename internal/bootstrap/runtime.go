// Package bootstrap wires the runtime dependencies shared by the binaries.
package bootstrap

import (
	"errors"
	"fmt"
	"log"

	"quorum/internal/cache"
	"quorum/internal/config"
	"quorum/internal/database"
	"quorum/internal/models"
	"quorum/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemoData fills an empty database with fake content.
	SeedDemoData bool
}

// InitRuntime connects to DB and Redis and optionally seeds demo data.
// The returned Redis client is nil when Redis is unreachable.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedDemoData {
		if err := seedIfEmpty(cfg, db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, r, nil
}

func seedIfEmpty(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	if cfg.IsProduction() {
		return errors.New("demo data cannot be seeded in production")
	}

	var users int64
	if err := db.Model(&models.User{}).Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		log.Printf("demo seed skipped: %d users already present", users)
		return nil
	}

	opts := seed.DefaultOptions()
	opts.ShouldClean = false
	summary, err := seed.Seed(db, opts)
	if err != nil {
		return err
	}
	log.Printf("demo data seeded (%s)", summary)
	return nil
}
