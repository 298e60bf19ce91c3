package repository

import (
	"context"
	"errors"
	"time"

	"quorum/internal/cache"
	"quorum/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines persistence operations for users and profiles.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	CreateWithProfile(ctx context.Context, user *models.User, city *string) error
	Update(ctx context.Context, user *models.User, city *string) error
	Deactivate(ctx context.Context, id uint) error
	TopAskers(ctx context.Context, from, to time.Time, limit int) ([]models.TopAsker, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).Preload("Profile").First(&user, id).Error; err != nil {
			return notFoundOr(err, "User", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername returns the user with its profile. The password hash is loaded.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Profile").Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFoundOr(err, "User", username)
	}
	return &user, nil
}

// GetByEmail returns (nil, nil) when no user has the address.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// CreateWithProfile inserts the user and its profile atomically.
func (r *userRepository) CreateWithProfile(ctx context.Context, user *models.User, city *string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Profile").Create(user).Error; err != nil {
			return err
		}
		profile := &models.UserProfile{UserID: user.ID, City: city}
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		user.Profile = profile
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return models.NewConflictError("User already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Update saves the editable user fields and upserts the profile city.
func (r *userRepository) Update(ctx context.Context, user *models.User, city *string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(user).Select("email", "first_name", "last_name", "updated_at").Updates(user).Error; err != nil {
			return err
		}
		profile := &models.UserProfile{UserID: user.ID, City: city}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"city"}),
		}).Create(profile).Error; err != nil {
			return err
		}
		user.Profile = profile
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return models.NewConflictError("Email already in use")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

// Deactivate clears is_active. The row and its content are kept.
func (r *userRepository) Deactivate(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

// TopAskers ranks active users by questions created in [from, to).
func (r *userRepository) TopAskers(ctx context.Context, from, to time.Time, limit int) ([]models.TopAsker, error) {
	out := []models.TopAsker{}
	err := r.db.WithContext(ctx).
		Table("questions").
		Select("users.id AS user_id, users.username AS username, COUNT(questions.id) AS question_count").
		Joins("JOIN users ON users.id = questions.user_id").
		Where("questions.created_at >= ? AND questions.created_at < ?", from, to).
		Where("users.is_active = ?", true).
		Group("users.id, users.username").
		Order("question_count DESC, users.id ASC").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}
