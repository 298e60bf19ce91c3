package repository

import (
	"context"
	"time"

	"quorum/internal/cache"
	"quorum/internal/models"
	"quorum/internal/observability"

	"gorm.io/gorm"
)

// QuestionRepository defines persistence operations for questions.
type QuestionRepository interface {
	Create(ctx context.Context, q *models.Question) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	List(ctx context.Context, limit, offset int) ([]*models.Question, int64, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*models.Question, int64, error)
	ListPublicByUser(ctx context.Context, userID uint) ([]*models.Question, error)
	Update(ctx context.Context, q *models.Question) error
	Delete(ctx context.Context, id uint) error
	VotedQuestionIDs(ctx context.Context, userID uint, questionIDs []uint) ([]uint, error)
}

type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository returns a GORM-backed QuestionRepository.
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) withCounts(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Question{}).
		Select("questions.*, " + questionVoteCountSQL + ", " + questionAnswerCountSQL).
		Preload("User")
}

func (r *questionRepository) Create(ctx context.Context, q *models.Question) error {
	defer observability.TrackQuery("create", "questions")()
	if err := r.db.WithContext(ctx).Create(q).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTopAskers(ctx, q.CreatedAt)
	return nil
}

func (r *questionRepository) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	defer observability.TrackQuery("get", "questions")()
	var q models.Question
	if err := r.withCounts(ctx).Where("questions.id = ?", id).First(&q).Error; err != nil {
		return nil, notFoundOr(err, "Question", id)
	}
	return &q, nil
}

func (r *questionRepository) List(ctx context.Context, limit, offset int) ([]*models.Question, int64, error) {
	defer observability.TrackQuery("list", "questions")()
	return r.page(ctx, r.db.WithContext(ctx).Model(&models.Question{}), limit, offset)
}

// Search matches titles case-insensitively on a literal substring.
func (r *questionRepository) Search(ctx context.Context, query string, limit, offset int) ([]*models.Question, int64, error) {
	defer observability.TrackQuery("search", "questions")()
	pattern := "%" + escapeLike(query) + "%"
	filter := func(db *gorm.DB) *gorm.DB {
		return db.Where(`LOWER(questions.title) LIKE LOWER(?) ESCAPE '\'`, pattern)
	}
	return r.page(ctx, filter(r.db.WithContext(ctx).Model(&models.Question{})), limit, offset, filter)
}

func (r *questionRepository) page(ctx context.Context, countQuery *gorm.DB, limit, offset int, scopes ...func(*gorm.DB) *gorm.DB) ([]*models.Question, int64, error) {
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var questions []*models.Question
	err := r.withCounts(ctx).
		Scopes(scopes...).
		Order("questions.created_at DESC, questions.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&questions).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return questions, total, nil
}

func (r *questionRepository) ListPublicByUser(ctx context.Context, userID uint) ([]*models.Question, error) {
	var questions []*models.Question
	err := r.withCounts(ctx).
		Where("questions.user_id = ? AND questions.visibility = ?", userID, models.VisibilityPublic).
		Order("questions.created_at DESC").
		Find(&questions).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return questions, nil
}

func (r *questionRepository) Update(ctx context.Context, q *models.Question) error {
	defer observability.TrackQuery("update", "questions")()
	err := r.db.WithContext(ctx).Model(q).Select("title", "description", "image_url", "updated_at").Updates(q).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the question with its answers and every vote on either.
func (r *questionRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "questions")()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		answerIDs := tx.Model(&models.Answer{}).Select("id").Where("question_id = ?", id)
		if err := tx.Where("answer_id IN (?)", answerIDs).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Question{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return notFoundOr(err, "Question", id)
	}
	cache.InvalidateTopAskers(ctx, time.Now())
	return nil
}

func (r *questionRepository) VotedQuestionIDs(ctx context.Context, userID uint, questionIDs []uint) ([]uint, error) {
	ids := []uint{}
	if userID == 0 || len(questionIDs) == 0 {
		return ids, nil
	}
	err := r.db.WithContext(ctx).Model(&models.Vote{}).
		Where("user_id = ? AND question_id IN ?", userID, questionIDs).
		Pluck("question_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}
