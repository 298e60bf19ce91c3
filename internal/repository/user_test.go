package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"quorum/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUserRepository_CreateWithProfile(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &models.User{Username: "erin", Email: "erin@example.com", Password: "hash", IsActive: true}
	require.NoError(t, repo.CreateWithProfile(ctx, u, strPtr("Lisbon")))
	require.NotNil(t, u.Profile)

	got, err := repo.GetByUsername(ctx, "erin")
	require.NoError(t, err)
	require.NotNil(t, got.Profile)
	assert.Equal(t, "Lisbon", *got.Profile.City)
	assert.Equal(t, "hash", got.Password)

	dup := &models.User{Username: "erin", Email: "other@example.com", Password: "hash"}
	err = repo.CreateWithProfile(ctx, dup, nil)
	assert.Equal(t, models.CodeConflict, models.ErrorCode(err))

	var profiles int64
	db.Model(&models.UserProfile{}).Count(&profiles)
	assert.Equal(t, int64(1), profiles)
}

func TestUserRepository_UpdateAndDeactivate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &models.User{Username: "fay", Email: "fay@example.com", Password: "hash", IsActive: true}
	require.NoError(t, repo.CreateWithProfile(ctx, u, nil))

	u.FirstName = "Fay"
	u.Email = "fay@new.example.com"
	require.NoError(t, repo.Update(ctx, u, strPtr("Porto")))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fay", got.FirstName)
	assert.Equal(t, "fay@new.example.com", got.Email)
	require.NotNil(t, got.Profile)
	assert.Equal(t, "Porto", *got.Profile.City)

	require.NoError(t, repo.Deactivate(ctx, u.ID))
	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	err = repo.Deactivate(ctx, 9999)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))

	byEmail, err := repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, byEmail)
}

func TestUserRepository_TopAskers(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	monthStart := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)
	inMonth := monthStart.Add(48 * time.Hour)
	lastMonth := monthStart.Add(-48 * time.Hour)

	var users []*models.User
	for i, name := range []string{"u1", "u2", "u3", "u4", "u5", "u6", "u7"} {
		u := createUser(t, db, name)
		users = append(users, u)
		for j := 0; j <= i; j++ {
			createQuestion(t, db, u, "q", inMonth)
		}
	}
	// old questions do not count toward this month
	for j := 0; j < 20; j++ {
		createQuestion(t, db, users[0], "old", lastMonth)
	}
	inactive := createUser(t, db, "ghost")
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)
	for j := 0; j < 30; j++ {
		createQuestion(t, db, inactive, "q", inMonth)
	}

	top, err := repo.TopAskers(ctx, monthStart, monthEnd, 5)
	require.NoError(t, err)
	require.Len(t, top, 5)
	assert.Equal(t, "u7", top[0].Username)
	assert.Equal(t, int64(7), top[0].QuestionCount)
	assert.Equal(t, "u3", top[4].Username)
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].QuestionCount, top[i].QuestionCount)
	}
}

func TestUserRepository_DeactivateSQL(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "users" SET "is_active"=$1,"updated_at"=$2 WHERE id = $3`)).
		WithArgs(false, sqlmock.AnyArg(), 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Deactivate(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_TopAskersQueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT users.id AS user_id`).WillReturnError(errors.New("connection reset"))

	_, err := repo.TopAskers(context.Background(), time.Now(), time.Now(), 5)
	assert.Equal(t, models.CodeInternal, models.ErrorCode(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isUniqueViolation(errors.New("UNIQUE constraint failed: votes.user_id, votes.question_id")))
	assert.False(t, isUniqueViolation(errors.New("boom")))
	assert.False(t, isUniqueViolation(nil))
}
