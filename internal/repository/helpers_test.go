package repository

import (
	"testing"
	"time"

	"quorum/internal/database"
	"quorum/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return gormDB, mock
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to ":memory:" is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", Password: "x", IsActive: true}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createQuestion(t *testing.T, db *gorm.DB, owner *models.User, title string, at time.Time) *models.Question {
	t.Helper()
	q := &models.Question{UserID: owner.ID, Title: title, Description: "d", CreatedAt: at, UpdatedAt: at}
	require.NoError(t, db.Create(q).Error)
	return q
}

func createAnswer(t *testing.T, db *gorm.DB, owner *models.User, q *models.Question, rating int) *models.Answer {
	t.Helper()
	a := &models.Answer{UserID: owner.ID, QuestionID: q.ID, Text: "a", Rating: rating}
	require.NoError(t, db.Create(a).Error)
	return a
}
