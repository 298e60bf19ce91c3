package repository

import (
	"context"
	"database/sql"

	"quorum/internal/models"
	"quorum/internal/observability"

	"gorm.io/gorm"
)

// AnswerRepository defines persistence operations for answers.
type AnswerRepository interface {
	Create(ctx context.Context, a *models.Answer) error
	GetByID(ctx context.Context, id uint) (*models.Answer, error)
	ListByQuestion(ctx context.Context, questionID uint) ([]*models.Answer, error)
	ListPublicByUser(ctx context.Context, userID uint) ([]*models.Answer, error)
	HasAnswered(ctx context.Context, userID, questionID uint) (bool, error)
	AverageRating(ctx context.Context, questionID uint) (*float64, error)
	VotedAnswerIDs(ctx context.Context, userID uint, answerIDs []uint) ([]uint, error)
	Update(ctx context.Context, a *models.Answer) error
	Delete(ctx context.Context, id uint) error
}

type answerRepository struct {
	db *gorm.DB
}

// NewAnswerRepository returns a GORM-backed AnswerRepository.
func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) withCounts(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Answer{}).
		Select("answers.*, " + answerVoteCountSQL).
		Preload("User")
}

// Create inserts the answer. A second answer by the same user on the same
// question violates idx_answers_user_question and yields a CONFLICT error.
func (r *answerRepository) Create(ctx context.Context, a *models.Answer) error {
	defer observability.TrackQuery("create", "answers")()
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewConflictError("Answer already exists for this question")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *answerRepository) GetByID(ctx context.Context, id uint) (*models.Answer, error) {
	var a models.Answer
	if err := r.withCounts(ctx).Where("answers.id = ?", id).First(&a).Error; err != nil {
		return nil, notFoundOr(err, "Answer", id)
	}
	return &a, nil
}

func (r *answerRepository) ListByQuestion(ctx context.Context, questionID uint) ([]*models.Answer, error) {
	defer observability.TrackQuery("list", "answers")()
	var answers []*models.Answer
	err := r.withCounts(ctx).
		Where("answers.question_id = ?", questionID).
		Order("answers.created_at ASC, answers.id ASC").
		Find(&answers).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return answers, nil
}

func (r *answerRepository) ListPublicByUser(ctx context.Context, userID uint) ([]*models.Answer, error) {
	var answers []*models.Answer
	err := r.withCounts(ctx).
		Where("answers.user_id = ? AND answers.visibility = ?", userID, models.VisibilityPublic).
		Order("answers.created_at DESC").
		Find(&answers).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return answers, nil
}

func (r *answerRepository) HasAnswered(ctx context.Context, userID, questionID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Answer{}).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Count(&n).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return n > 0, nil
}

// AverageRating returns nil when the question has no answers.
func (r *answerRepository) AverageRating(ctx context.Context, questionID uint) (*float64, error) {
	var avg sql.NullFloat64
	row := r.db.WithContext(ctx).Model(&models.Answer{}).
		Select("AVG(rating)").
		Where("question_id = ?", questionID).
		Row()
	if err := row.Scan(&avg); err != nil {
		return nil, models.NewInternalError(err)
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}

func (r *answerRepository) VotedAnswerIDs(ctx context.Context, userID uint, answerIDs []uint) ([]uint, error) {
	ids := []uint{}
	if userID == 0 || len(answerIDs) == 0 {
		return ids, nil
	}
	err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Where("user_id = ? AND answer_id IN ?", userID, answerIDs).
		Pluck("answer_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *answerRepository) Update(ctx context.Context, a *models.Answer) error {
	err := r.db.WithContext(ctx).Model(a).Select("text", "visibility", "rating", "updated_at").Updates(a).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the answer and its votes.
func (r *answerRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("answer_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Answer{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return notFoundOr(err, "Answer", id)
	}
	return nil
}
