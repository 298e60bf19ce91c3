package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"quorum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// questionRepoStub is a stub for repository.QuestionRepository.
type questionRepoStub struct {
	createFn           func(context.Context, *models.Question) error
	getByIDFn          func(context.Context, uint) (*models.Question, error)
	listFn             func(context.Context, int, int) ([]*models.Question, int64, error)
	searchFn           func(context.Context, string, int, int) ([]*models.Question, int64, error)
	listPublicByUserFn func(context.Context, uint) ([]*models.Question, error)
	updateFn           func(context.Context, *models.Question) error
	deleteFn           func(context.Context, uint) error
	votedIDsFn         func(context.Context, uint, []uint) ([]uint, error)
}

func (s *questionRepoStub) Create(ctx context.Context, q *models.Question) error {
	return s.createFn(ctx, q)
}
func (s *questionRepoStub) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	return s.getByIDFn(ctx, id)
}
func (s *questionRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Question, int64, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *questionRepoStub) Search(ctx context.Context, query string, limit, offset int) ([]*models.Question, int64, error) {
	return s.searchFn(ctx, query, limit, offset)
}
func (s *questionRepoStub) ListPublicByUser(ctx context.Context, userID uint) ([]*models.Question, error) {
	return s.listPublicByUserFn(ctx, userID)
}
func (s *questionRepoStub) Update(ctx context.Context, q *models.Question) error {
	return s.updateFn(ctx, q)
}
func (s *questionRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *questionRepoStub) VotedQuestionIDs(ctx context.Context, userID uint, ids []uint) ([]uint, error) {
	return s.votedIDsFn(ctx, userID, ids)
}

func noopQuestionRepo() *questionRepoStub {
	return &questionRepoStub{
		createFn: func(_ context.Context, q *models.Question) error { q.ID = 1; return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Question, error) {
			return &models.Question{ID: id, UserID: 1, Title: "Q"}, nil
		},
		listFn:             func(_ context.Context, _, _ int) ([]*models.Question, int64, error) { return nil, 0, nil },
		searchFn:           func(_ context.Context, _ string, _, _ int) ([]*models.Question, int64, error) { return nil, 0, nil },
		listPublicByUserFn: func(_ context.Context, _ uint) ([]*models.Question, error) { return nil, nil },
		updateFn:           func(_ context.Context, _ *models.Question) error { return nil },
		deleteFn:           func(_ context.Context, _ uint) error { return nil },
		votedIDsFn:         func(_ context.Context, _ uint, _ []uint) ([]uint, error) { return []uint{}, nil },
	}
}

// answerRepoStub is a stub for repository.AnswerRepository.
type answerRepoStub struct {
	createFn           func(context.Context, *models.Answer) error
	getByIDFn          func(context.Context, uint) (*models.Answer, error)
	listByQuestionFn   func(context.Context, uint) ([]*models.Answer, error)
	listPublicByUserFn func(context.Context, uint) ([]*models.Answer, error)
	hasAnsweredFn      func(context.Context, uint, uint) (bool, error)
	averageRatingFn    func(context.Context, uint) (*float64, error)
	votedIDsFn         func(context.Context, uint, []uint) ([]uint, error)
	updateFn           func(context.Context, *models.Answer) error
	deleteFn           func(context.Context, uint) error
}

func (s *answerRepoStub) Create(ctx context.Context, a *models.Answer) error {
	return s.createFn(ctx, a)
}
func (s *answerRepoStub) GetByID(ctx context.Context, id uint) (*models.Answer, error) {
	return s.getByIDFn(ctx, id)
}
func (s *answerRepoStub) ListByQuestion(ctx context.Context, questionID uint) ([]*models.Answer, error) {
	return s.listByQuestionFn(ctx, questionID)
}
func (s *answerRepoStub) ListPublicByUser(ctx context.Context, userID uint) ([]*models.Answer, error) {
	return s.listPublicByUserFn(ctx, userID)
}
func (s *answerRepoStub) HasAnswered(ctx context.Context, userID, questionID uint) (bool, error) {
	return s.hasAnsweredFn(ctx, userID, questionID)
}
func (s *answerRepoStub) AverageRating(ctx context.Context, questionID uint) (*float64, error) {
	return s.averageRatingFn(ctx, questionID)
}
func (s *answerRepoStub) VotedAnswerIDs(ctx context.Context, userID uint, ids []uint) ([]uint, error) {
	return s.votedIDsFn(ctx, userID, ids)
}
func (s *answerRepoStub) Update(ctx context.Context, a *models.Answer) error {
	return s.updateFn(ctx, a)
}
func (s *answerRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopAnswerRepo() *answerRepoStub {
	return &answerRepoStub{
		createFn: func(_ context.Context, a *models.Answer) error { a.ID = 1; return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Answer, error) {
			return &models.Answer{ID: id, UserID: 2, QuestionID: 1, Rating: 3, Text: "A"}, nil
		},
		listByQuestionFn:   func(_ context.Context, _ uint) ([]*models.Answer, error) { return nil, nil },
		listPublicByUserFn: func(_ context.Context, _ uint) ([]*models.Answer, error) { return nil, nil },
		hasAnsweredFn:      func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		averageRatingFn:    func(_ context.Context, _ uint) (*float64, error) { return nil, nil },
		votedIDsFn:         func(_ context.Context, _ uint, _ []uint) ([]uint, error) { return []uint{}, nil },
		updateFn:           func(_ context.Context, _ *models.Answer) error { return nil },
		deleteFn:           func(_ context.Context, _ uint) error { return nil },
	}
}

// voteRepoStub is a stub for repository.VoteRepository.
type voteRepoStub struct {
	toggleFn   func(context.Context, uint, models.VoteTarget) (bool, int64, error)
	countFn    func(context.Context, models.VoteTarget) (int64, error)
	hasVotedFn func(context.Context, uint, models.VoteTarget) (bool, error)
}

func (s *voteRepoStub) Toggle(ctx context.Context, userID uint, target models.VoteTarget) (bool, int64, error) {
	return s.toggleFn(ctx, userID, target)
}
func (s *voteRepoStub) Count(ctx context.Context, target models.VoteTarget) (int64, error) {
	return s.countFn(ctx, target)
}
func (s *voteRepoStub) HasVoted(ctx context.Context, userID uint, target models.VoteTarget) (bool, error) {
	return s.hasVotedFn(ctx, userID, target)
}

func noopVoteRepo() *voteRepoStub {
	return &voteRepoStub{
		toggleFn:   func(_ context.Context, _ uint, _ models.VoteTarget) (bool, int64, error) { return true, 1, nil },
		countFn:    func(_ context.Context, _ models.VoteTarget) (int64, error) { return 0, nil },
		hasVotedFn: func(_ context.Context, _ uint, _ models.VoteTarget) (bool, error) { return false, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn           func(context.Context, uint) (*models.User, error)
	getByUsernameFn     func(context.Context, string) (*models.User, error)
	getByEmailFn        func(context.Context, string) (*models.User, error)
	createWithProfileFn func(context.Context, *models.User, *string) error
	updateFn            func(context.Context, *models.User, *string) error
	deactivateFn        func(context.Context, uint) error
	topAskersFn         func(context.Context, time.Time, time.Time, int) ([]models.TopAsker, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) CreateWithProfile(ctx context.Context, u *models.User, city *string) error {
	return s.createWithProfileFn(ctx, u, city)
}
func (s *userRepoStub) Update(ctx context.Context, u *models.User, city *string) error {
	return s.updateFn(ctx, u, city)
}
func (s *userRepoStub) Deactivate(ctx context.Context, id uint) error {
	return s.deactivateFn(ctx, id)
}
func (s *userRepoStub) TopAskers(ctx context.Context, from, to time.Time, limit int) ([]models.TopAsker, error) {
	return s.topAskersFn(ctx, from, to, limit)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "alice", IsActive: true}, nil
		},
		getByUsernameFn: func(_ context.Context, username string) (*models.User, error) {
			return &models.User{ID: 1, Username: username, IsActive: true}, nil
		},
		getByEmailFn:        func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createWithProfileFn: func(_ context.Context, u *models.User, _ *string) error { u.ID = 1; return nil },
		updateFn:            func(_ context.Context, _ *models.User, _ *string) error { return nil },
		deactivateFn:        func(_ context.Context, _ uint) error { return nil },
		topAskersFn: func(_ context.Context, _, _ time.Time, _ int) ([]models.TopAsker, error) {
			return nil, nil
		},
	}
}

// assertAppError asserts that err is an AppError with the given code.
func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
