package repository

import (
	"context"

	"quorum/internal/models"
	"quorum/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteRepository persists votes on questions and answers.
type VoteRepository interface {
	// Toggle removes the user's vote on target if present, otherwise adds it.
	// It reports the resulting state and the target's vote total.
	Toggle(ctx context.Context, userID uint, target models.VoteTarget) (voted bool, count int64, err error)
	Count(ctx context.Context, target models.VoteTarget) (int64, error)
	HasVoted(ctx context.Context, userID uint, target models.VoteTarget) (bool, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository returns a GORM-backed VoteRepository.
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// Toggle runs delete-or-insert in one transaction. The unique indexes on
// (user_id, question_id) and (user_id, answer_id) keep concurrent toggles from
// producing duplicate rows; a conflicting insert is a no-op and still leaves
// the user voted.
func (r *voteRepository) Toggle(ctx context.Context, userID uint, target models.VoteTarget) (bool, int64, error) {
	if err := target.Validate(); err != nil {
		return false, 0, err
	}
	defer observability.TrackQuery("toggle", "votes")()

	col := target.Column()
	var voted bool
	var count int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND "+col+" = ?", userID, target.ID).Delete(&models.Vote{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(target.NewVote(userID)).Error; err != nil {
				return err
			}
			voted = true
		}
		return tx.Model(&models.Vote{}).Where(col+" = ?", target.ID).Count(&count).Error
	})
	if err != nil {
		return false, 0, models.NewInternalError(err)
	}
	return voted, count, nil
}

func (r *voteRepository) Count(ctx context.Context, target models.VoteTarget) (int64, error) {
	if err := target.Validate(); err != nil {
		return 0, err
	}
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Vote{}).Where(target.Column()+" = ?", target.ID).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

func (r *voteRepository) HasVoted(ctx context.Context, userID uint, target models.VoteTarget) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	if err := target.Validate(); err != nil {
		return false, err
	}
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Where("user_id = ? AND "+target.Column()+" = ?", userID, target.ID).
		Count(&n).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return n > 0, nil
}
