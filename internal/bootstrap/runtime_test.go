package bootstrap

import (
	"testing"

	"quorum/internal/config"
	"quorum/internal/database"
	"quorum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func TestSeedIfEmpty(t *testing.T) {
	db := setupDB(t)
	cfg := &config.Config{Env: "development"}

	require.NoError(t, seedIfEmpty(cfg, db))
	var first int64
	require.NoError(t, db.Model(&models.User{}).Count(&first).Error)
	assert.Positive(t, first)

	// a populated database is left alone
	require.NoError(t, seedIfEmpty(cfg, db))
	var second int64
	require.NoError(t, db.Model(&models.User{}).Count(&second).Error)
	assert.Equal(t, first, second)
}

func TestSeedIfEmpty_RefusesProduction(t *testing.T) {
	db := setupDB(t)
	err := seedIfEmpty(&config.Config{Env: "production"}, db)
	assert.Error(t, err)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Zero(t, users)
}
