package service

import (
	"context"
	"strings"
	"time"

	"quorum/internal/cache"
	"quorum/internal/models"
	"quorum/internal/repository"
	"quorum/internal/validation"

	"github.com/dustin/go-humanize"
	"golang.org/x/crypto/bcrypt"
)

// TopAskersLimit is the size of the monthly ranking.
const TopAskersLimit = 5

type UserService struct {
	users     repository.UserRepository
	questions repository.QuestionRepository
	answers   repository.AnswerRepository
	now       func() time.Time
}

type RegisterInput struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName string  `json:"first_name" validate:"max=150"`
	LastName  string  `json:"last_name" validate:"max=150"`
	City      *string `json:"city" validate:"omitempty,max=100"`
}

type UpdateUserInput struct {
	ActorID   uint    `json:"-"`
	Username  string  `json:"-"`
	Email     string  `json:"email" validate:"required,email,max=254"`
	FirstName string  `json:"first_name" validate:"max=150"`
	LastName  string  `json:"last_name" validate:"max=150"`
	City      *string `json:"city" validate:"omitempty,max=100"`
}

// UserDetail is a user's public profile page.
type UserDetail struct {
	User        *models.User       `json:"user"`
	Questions   []*models.Question `json:"questions"`
	Answers     []*models.Answer   `json:"answers"`
	MemberSince string             `json:"member_since"`
}

func NewUserService(
	users repository.UserRepository,
	questions repository.QuestionRepository,
	answers repository.AnswerRepository,
) *UserService {
	return &UserService{users: users, questions: questions, answers: answers, now: time.Now}
}

// Register creates the user and its profile. The password is stored as a bcrypt hash.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, models.NewValidationError("Username, email, and password are required")
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		Password:  string(hash),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		IsActive:  true,
	}
	if err := s.users.CreateWithProfile(ctx, user, normalizeCity(in.City)); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks credentials. Unknown users, wrong passwords, and
// deactivated accounts all fail with the same UNAUTHORIZED error.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	invalid := models.NewUnauthorizedError("Invalid credentials")

	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if models.ErrorCode(err) == models.CodeNotFound {
			return nil, invalid
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, invalid
	}
	if !user.IsActive {
		return nil, invalid
	}
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetUserDetail returns the profile with only public questions and answers.
func (s *UserService) GetUserDetail(ctx context.Context, username string) (*UserDetail, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, models.NewNotFoundError("User", username)
	}

	questions, err := s.questions.ListPublicByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	answers, err := s.answers.ListPublicByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []*models.Question{}
	}
	if answers == nil {
		answers = []*models.Answer{}
	}

	return &UserDetail{
		User:        user,
		Questions:   questions,
		Answers:     answers,
		MemberSince: humanize.RelTime(user.CreatedAt, s.now(), "ago", "from now"),
	}, nil
}

func (s *UserService) UpdateUser(ctx context.Context, in UpdateUserInput) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if err := authorize(in.ActorID, user, "user"); err != nil {
		return nil, err
	}

	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	user.Email = in.Email
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	if err := s.users.Update(ctx, user, normalizeCity(in.City)); err != nil {
		return nil, err
	}
	return user, nil
}

// DeactivateUser marks the caller's own account inactive.
func (s *UserService) DeactivateUser(ctx context.Context, actorID uint, username string) error {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := authorize(actorID, user, "user"); err != nil {
		return err
	}
	return s.users.Deactivate(ctx, user.ID)
}

// TopAskers ranks users by questions created in the current calendar month (UTC).
func (s *UserService) TopAskers(ctx context.Context) ([]models.TopAsker, error) {
	now := s.now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	var top []models.TopAsker
	err := cache.Aside(ctx, cache.TopAskersKey(now), &top, cache.TopAskersTTL, func() error {
		var err error
		top, err = s.users.TopAskers(ctx, from, to, TopAskersLimit)
		return err
	})
	if err != nil {
		return nil, err
	}
	if top == nil {
		top = []models.TopAsker{}
	}
	return top, nil
}

func normalizeCity(city *string) *string {
	if city == nil {
		return nil
	}
	c := strings.TrimSpace(*city)
	if c == "" {
		return nil
	}
	return &c
}
