package service

import (
	"context"
	"strings"

	"quorum/internal/models"
	"quorum/internal/observability"
	"quorum/internal/repository"
	"quorum/internal/validation"
)

type QuestionService struct {
	questions repository.QuestionRepository
	answers   repository.AnswerRepository
	votes     repository.VoteRepository
}

type ListQuestionsInput struct {
	Page          int
	Query         string
	CurrentUserID uint
}

// QuestionPage is one page of the question list or search results.
type QuestionPage struct {
	Questions        []*models.Question `json:"questions"`
	Page             int                `json:"page"`
	PageSize         int                `json:"page_size"`
	Total            int64              `json:"total"`
	TotalPages       int                `json:"total_pages"`
	HasNext          bool               `json:"has_next"`
	Query            string             `json:"query,omitempty"`
	VotedQuestionIDs []uint             `json:"voted_question_ids"`
}

// QuestionDetail is a question with everything its detail view shows.
type QuestionDetail struct {
	Question       *models.Question `json:"question"`
	Answers        []*models.Answer `json:"answers"`
	MyAnswers      []*models.Answer `json:"my_answers"`
	VotedAnswerIDs []uint           `json:"voted_answer_ids"`
	HasVoted       bool             `json:"has_voted"`
	HasAnswered    bool             `json:"has_answered"`
	AverageRating  *float64         `json:"average_rating"`
}

type CreateQuestionInput struct {
	UserID      uint              `json:"-"`
	Title       string            `json:"title" validate:"required,max=300"`
	Description string            `json:"description" validate:"required"`
	Visibility  models.Visibility `json:"visibility" validate:"visibility"`
	ImageURL    string            `json:"image_url" validate:"omitempty,max=500"`
}

type UpdateQuestionInput struct {
	UserID      uint   `json:"-"`
	QuestionID  uint   `json:"-"`
	Title       string `json:"title" validate:"required,max=300"`
	Description string `json:"description" validate:"required"`
	ImageURL    string `json:"image_url" validate:"omitempty,max=500"`
}

func NewQuestionService(
	questions repository.QuestionRepository,
	answers repository.AnswerRepository,
	votes repository.VoteRepository,
) *QuestionService {
	return &QuestionService{questions: questions, answers: answers, votes: votes}
}

// ListQuestions returns a page of questions, newest first. A non-empty Query
// restricts the page to titles containing it.
func (s *QuestionService) ListQuestions(ctx context.Context, in ListQuestionsInput) (*QuestionPage, error) {
	page, offset := pageOffset(in.Page)
	query := strings.TrimSpace(in.Query)

	var (
		questions []*models.Question
		total     int64
		err       error
	)
	if query != "" {
		questions, total, err = s.questions.Search(ctx, query, QuestionsPerPage, offset)
	} else {
		questions, total, err = s.questions.List(ctx, QuestionsPerPage, offset)
	}
	if err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []*models.Question{}
	}

	ids := make([]uint, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	voted, err := s.questions.VotedQuestionIDs(ctx, in.CurrentUserID, ids)
	if err != nil {
		return nil, err
	}

	pages := totalPages(total)
	return &QuestionPage{
		Questions:        questions,
		Page:             page,
		PageSize:         QuestionsPerPage,
		Total:            total,
		TotalPages:       pages,
		HasNext:          page < pages,
		Query:            query,
		VotedQuestionIDs: voted,
	}, nil
}

func (s *QuestionService) GetQuestionDetail(ctx context.Context, id, currentUserID uint) (*QuestionDetail, error) {
	q, err := s.questions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	answers, err := s.answers.ListByQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	if answers == nil {
		answers = []*models.Answer{}
	}

	detail := &QuestionDetail{
		Question:       q,
		Answers:        answers,
		MyAnswers:      []*models.Answer{},
		VotedAnswerIDs: []uint{},
	}

	ids := make([]uint, 0, len(answers))
	for _, a := range answers {
		ids = append(ids, a.ID)
		if currentUserID != 0 && a.UserID == currentUserID {
			detail.MyAnswers = append(detail.MyAnswers, a)
		}
	}
	detail.HasAnswered = len(detail.MyAnswers) > 0

	if detail.AverageRating, err = s.answers.AverageRating(ctx, id); err != nil {
		return nil, err
	}

	if currentUserID != 0 {
		if detail.VotedAnswerIDs, err = s.answers.VotedAnswerIDs(ctx, currentUserID, ids); err != nil {
			return nil, err
		}
		if detail.HasVoted, err = s.votes.HasVoted(ctx, currentUserID, models.QuestionTarget(id)); err != nil {
			return nil, err
		}
	}
	return detail, nil
}

func (s *QuestionService) CreateQuestion(ctx context.Context, in CreateQuestionInput) (*models.Question, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	q := &models.Question{
		UserID:      in.UserID,
		Title:       in.Title,
		Description: in.Description,
		Visibility:  in.Visibility,
		ImageURL:    in.ImageURL,
	}
	if err := s.questions.Create(ctx, q); err != nil {
		return nil, err
	}
	observability.QuestionsCreated.WithLabelValues("direct").Inc()
	return q, nil
}

func (s *QuestionService) UpdateQuestion(ctx context.Context, in UpdateQuestionInput) (*models.Question, error) {
	q, err := s.questions.GetByID(ctx, in.QuestionID)
	if err != nil {
		return nil, err
	}
	if err := authorize(in.UserID, q, "question"); err != nil {
		return nil, err
	}

	in.Title = strings.TrimSpace(in.Title)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	q.Title = in.Title
	q.Description = in.Description
	q.ImageURL = in.ImageURL
	if err := s.questions.Update(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) DeleteQuestion(ctx context.Context, userID, questionID uint) error {
	q, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return err
	}
	if err := authorize(userID, q, "question"); err != nil {
		return err
	}
	return s.questions.Delete(ctx, questionID)
}
