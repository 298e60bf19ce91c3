package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"quorum/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoteRepository_Toggle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVoteRepository(db)
	ctx := context.Background()

	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	q := createQuestion(t, db, alice, "Q1", time.Now().UTC())
	a := createAnswer(t, db, bob, q, 4)

	t.Run("first toggle adds a vote", func(t *testing.T) {
		voted, count, err := repo.Toggle(ctx, bob.ID, models.QuestionTarget(q.ID))
		require.NoError(t, err)
		assert.True(t, voted)
		assert.Equal(t, int64(1), count)
	})

	t.Run("second toggle removes it", func(t *testing.T) {
		voted, count, err := repo.Toggle(ctx, bob.ID, models.QuestionTarget(q.ID))
		require.NoError(t, err)
		assert.False(t, voted)
		assert.Equal(t, int64(0), count)
	})

	t.Run("question and answer votes coexist", func(t *testing.T) {
		_, _, err := repo.Toggle(ctx, alice.ID, models.QuestionTarget(q.ID))
		require.NoError(t, err)
		voted, count, err := repo.Toggle(ctx, alice.ID, models.AnswerTarget(a.ID))
		require.NoError(t, err)
		assert.True(t, voted)
		assert.Equal(t, int64(1), count)

		var rows int64
		require.NoError(t, db.Model(&models.Vote{}).Where("user_id = ?", alice.ID).Count(&rows).Error)
		assert.Equal(t, int64(2), rows)

		has, err := repo.HasVoted(ctx, alice.ID, models.QuestionTarget(q.ID))
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("votes from different users are counted together", func(t *testing.T) {
		voted, count, err := repo.Toggle(ctx, bob.ID, models.AnswerTarget(a.ID))
		require.NoError(t, err)
		assert.True(t, voted)
		assert.Equal(t, int64(2), count)

		n, err := repo.Count(ctx, models.AnswerTarget(a.ID))
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("invalid target is rejected", func(t *testing.T) {
		_, _, err := repo.Toggle(ctx, bob.ID, models.VoteTarget{Kind: "comment", ID: 1})
		assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
	})
}

func TestVote_UniqueIndexRejectsDuplicates(t *testing.T) {
	db := setupTestDB(t)
	u := createUser(t, db, "carol")
	q := createQuestion(t, db, u, "Q", time.Now().UTC())

	require.NoError(t, db.Create(models.QuestionTarget(q.ID).NewVote(u.ID)).Error)
	err := db.Create(models.QuestionTarget(q.ID).NewVote(u.ID)).Error
	require.Error(t, err)
	assert.True(t, isUniqueViolation(err))
}

func TestVoteRepository_Toggle_ConflictingInsertStaysVoted(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewVoteRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "votes" WHERE user_id = \$1 AND question_id = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	// a concurrent toggle inserted first, so the insert returns no row
	mock.ExpectQuery(`INSERT INTO "votes" .* ON CONFLICT DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "votes" WHERE question_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectCommit()

	voted, count, err := repo.Toggle(context.Background(), 7, models.QuestionTarget(3))
	require.NoError(t, err)
	assert.True(t, voted)
	assert.Equal(t, int64(1), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVoteRepository_Toggle_Concurrent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewVoteRepository(db)
	ctx := context.Background()

	owner := createUser(t, db, "owner")
	q := createQuestion(t, db, owner, "Q", time.Now().UTC())
	target := models.QuestionTarget(q.ID)

	t.Run("one user toggling repeatedly holds at most one vote", func(t *testing.T) {
		const toggles = 10
		var wg sync.WaitGroup
		var mu sync.Mutex
		added, removed := 0, 0
		for i := 0; i < toggles; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				voted, _, err := repo.Toggle(ctx, owner.ID, target)
				assert.NoError(t, err)
				mu.Lock()
				defer mu.Unlock()
				if voted {
					added++
				} else {
					removed++
				}
			}()
		}
		wg.Wait()

		var rows int64
		require.NoError(t, db.Model(&models.Vote{}).Where("user_id = ? AND question_id = ?", owner.ID, q.ID).Count(&rows).Error)
		assert.LessOrEqual(t, rows, int64(1))
		assert.Equal(t, int64(added-removed), rows)
	})

	t.Run("many users each add one vote", func(t *testing.T) {
		voters := make([]*models.User, 8)
		for i := range voters {
			voters[i] = createUser(t, db, fmt.Sprintf("voter%d", i))
		}
		var wg sync.WaitGroup
		for _, v := range voters {
			wg.Add(1)
			go func(userID uint) {
				defer wg.Done()
				voted, _, err := repo.Toggle(ctx, userID, target)
				assert.NoError(t, err)
				assert.True(t, voted)
			}(v.ID)
		}
		wg.Wait()

		var rows int64
		require.NoError(t, db.Model(&models.Vote{}).Where("question_id = ? AND user_id <> ?", q.ID, owner.ID).Count(&rows).Error)
		assert.Equal(t, int64(len(voters)), rows)
	})
}
