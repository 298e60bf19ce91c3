package service

import (
	"context"
	"log/slog"

	"quorum/internal/middleware"
	"quorum/internal/models"
	"quorum/internal/observability"
	"quorum/internal/repository"
)

type VoteService struct {
	votes     repository.VoteRepository
	questions repository.QuestionRepository
	answers   repository.AnswerRepository
}

func NewVoteService(
	votes repository.VoteRepository,
	questions repository.QuestionRepository,
	answers repository.AnswerRepository,
) *VoteService {
	return &VoteService{votes: votes, questions: questions, answers: answers}
}

// Toggle flips the user's vote on target. Both target kinds redirect to the
// detail of the question they belong to.
func (s *VoteService) Toggle(ctx context.Context, userID uint, target models.VoteTarget) (*models.VoteResult, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}

	questionID, err := s.resolve(ctx, target)
	if err != nil {
		return nil, err
	}

	voted, count, err := s.votes.Toggle(ctx, userID, target)
	if err != nil {
		return nil, err
	}

	state := "unvoted"
	if voted {
		state = "voted"
	}
	observability.VotesToggled.WithLabelValues(string(target.Kind), state).Inc()
	middleware.Logger.DebugContext(ctx, "vote toggled",
		slog.String("target", string(target.Kind)),
		slog.Uint64("target_id", uint64(target.ID)),
		slog.Bool("voted", voted),
	)

	return &models.VoteResult{
		Target:     target,
		Voted:      voted,
		VoteCount:  count,
		QuestionID: questionID,
		Redirect:   models.QuestionDetailPath(questionID),
	}, nil
}

// resolve loads the target and returns its question id. Missing targets are
// NOT_FOUND; any other repository error is returned unchanged.
func (s *VoteService) resolve(ctx context.Context, target models.VoteTarget) (uint, error) {
	switch target.Kind {
	case models.VoteTargetAnswer:
		a, err := s.answers.GetByID(ctx, target.ID)
		if err != nil {
			return 0, err
		}
		return a.QuestionID, nil
	default:
		q, err := s.questions.GetByID(ctx, target.ID)
		if err != nil {
			return 0, err
		}
		return q.ID, nil
	}
}
