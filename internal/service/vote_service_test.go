package service

import (
	"context"
	"errors"
	"testing"

	"quorum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoteService_Toggle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		target       models.VoteTarget
		voted        bool
		wantQuestion uint
	}{
		{"question vote", models.QuestionTarget(4), true, 4},
		{"question unvote", models.QuestionTarget(4), false, 4},
		{"answer vote redirects to parent question", models.AnswerTarget(9), true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			votes := noopVoteRepo()
			votes.toggleFn = func(_ context.Context, userID uint, target models.VoteTarget) (bool, int64, error) {
				assert.Equal(t, uint(3), userID)
				assert.Equal(t, tt.target, target)
				return tt.voted, 2, nil
			}
			svc := NewVoteService(votes, noopQuestionRepo(), noopAnswerRepo())

			res, err := svc.Toggle(context.Background(), 3, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.voted, res.Voted)
			assert.Equal(t, int64(2), res.VoteCount)
			assert.Equal(t, tt.wantQuestion, res.QuestionID)
			assert.Equal(t, models.QuestionDetailPath(tt.wantQuestion), res.Redirect)
		})
	}
}

func TestVoteService_Toggle_MissingTarget(t *testing.T) {
	t.Parallel()

	answers := noopAnswerRepo()
	answers.getByIDFn = func(_ context.Context, id uint) (*models.Answer, error) {
		return nil, models.NewNotFoundError("Answer", id)
	}
	votes := noopVoteRepo()
	votes.toggleFn = func(_ context.Context, _ uint, _ models.VoteTarget) (bool, int64, error) {
		t.Fatal("no vote may be written for a missing target")
		return false, 0, nil
	}
	svc := NewVoteService(votes, noopQuestionRepo(), answers)

	_, err := svc.Toggle(context.Background(), 1, models.AnswerTarget(404))
	assertAppError(t, err, models.CodeNotFound)
}

func TestVoteService_Toggle_LookupErrorPropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	questions := noopQuestionRepo()
	questions.getByIDFn = func(_ context.Context, _ uint) (*models.Question, error) {
		return nil, models.NewInternalError(boom)
	}
	svc := NewVoteService(noopVoteRepo(), questions, noopAnswerRepo())

	_, err := svc.Toggle(context.Background(), 1, models.QuestionTarget(1))
	assertAppError(t, err, models.CodeInternal)
	assert.ErrorIs(t, err, boom)
}

func TestVoteService_Toggle_InvalidTarget(t *testing.T) {
	t.Parallel()

	svc := NewVoteService(noopVoteRepo(), noopQuestionRepo(), noopAnswerRepo())
	_, err := svc.Toggle(context.Background(), 1, models.VoteTarget{Kind: models.VoteTargetAnswer})
	assertAppError(t, err, models.CodeValidation)
}
