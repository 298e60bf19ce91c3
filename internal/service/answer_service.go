package service

import (
	"context"

	"quorum/internal/models"
	"quorum/internal/observability"
	"quorum/internal/repository"
	"quorum/internal/validation"
)

const duplicateAnswerMessage = "You have already answered this question"

type AnswerService struct {
	answers   repository.AnswerRepository
	questions repository.QuestionRepository
}

type CreateAnswerInput struct {
	UserID     uint              `json:"-"`
	QuestionID uint              `json:"-"`
	Text       string            `json:"text" validate:"required"`
	Visibility models.Visibility `json:"visibility" validate:"visibility"`
	Rating     int               `json:"rating" validate:"gte=1,lte=5"`
}

type UpdateAnswerInput struct {
	UserID     uint              `json:"-"`
	AnswerID   uint              `json:"-"`
	Text       string            `json:"text" validate:"required"`
	Visibility models.Visibility `json:"visibility" validate:"visibility"`
	Rating     int               `json:"rating" validate:"gte=1,lte=5"`
}

func NewAnswerService(answers repository.AnswerRepository, questions repository.QuestionRepository) *AnswerService {
	return &AnswerService{answers: answers, questions: questions}
}

// CreateAnswer adds the user's single answer to a question. A second answer
// is FORBIDDEN, including one that loses a race on the unique index.
func (s *AnswerService) CreateAnswer(ctx context.Context, in CreateAnswerInput) (*models.Answer, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if _, err := s.questions.GetByID(ctx, in.QuestionID); err != nil {
		return nil, err
	}

	answered, err := s.answers.HasAnswered(ctx, in.UserID, in.QuestionID)
	if err != nil {
		return nil, err
	}
	if answered {
		return nil, models.NewForbiddenError(duplicateAnswerMessage)
	}

	a := &models.Answer{
		UserID:     in.UserID,
		QuestionID: in.QuestionID,
		Text:       in.Text,
		Visibility: in.Visibility,
		Rating:     in.Rating,
	}
	if err := s.answers.Create(ctx, a); err != nil {
		if models.ErrorCode(err) == models.CodeConflict {
			return nil, models.NewForbiddenError(duplicateAnswerMessage)
		}
		return nil, err
	}
	observability.AnswersCreated.Inc()
	return a, nil
}

func (s *AnswerService) UpdateAnswer(ctx context.Context, in UpdateAnswerInput) (*models.Answer, error) {
	a, err := s.answers.GetByID(ctx, in.AnswerID)
	if err != nil {
		return nil, err
	}
	if err := authorize(in.UserID, a, "answer"); err != nil {
		return nil, err
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	a.Text = in.Text
	a.Visibility = in.Visibility
	a.Rating = in.Rating
	if err := s.answers.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteAnswer returns the parent question id so callers can redirect to it.
func (s *AnswerService) DeleteAnswer(ctx context.Context, userID, answerID uint) (uint, error) {
	a, err := s.answers.GetByID(ctx, answerID)
	if err != nil {
		return 0, err
	}
	if err := authorize(userID, a, "answer"); err != nil {
		return 0, err
	}
	if err := s.answers.Delete(ctx, answerID); err != nil {
		return 0, err
	}
	return a.QuestionID, nil
}
