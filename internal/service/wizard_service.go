package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"quorum/internal/models"
	"quorum/internal/observability"
	"quorum/internal/repository"
	"quorum/internal/wizard"

	"github.com/google/uuid"
)

// DefaultWizardTTL applies when no TTL is configured.
const DefaultWizardTTL = 30 * time.Minute

type WizardService struct {
	store     wizard.Store
	questions repository.QuestionRepository
	ttl       time.Duration
	now       func() time.Time
	newID     func() string
}

// WizardView is the client-facing state of a wizard run.
type WizardView struct {
	ID          string             `json:"id"`
	NextStep    int                `json:"next_step"`
	Completed   int                `json:"completed"`
	Title       string             `json:"title,omitempty"`
	Description string             `json:"description,omitempty"`
	Visibility  *models.Visibility `json:"visibility,omitempty"`
	ExpiresAt   time.Time          `json:"expires_at"`
}

// WizardStepResult carries the question once the final step commits it.
type WizardStepResult struct {
	Wizard   *WizardView      `json:"wizard,omitempty"`
	Question *models.Question `json:"question,omitempty"`
}

func NewWizardService(store wizard.Store, questions repository.QuestionRepository, ttl time.Duration) *WizardService {
	if ttl <= 0 {
		ttl = DefaultWizardTTL
	}
	return &WizardService{
		store:     store,
		questions: questions,
		ttl:       ttl,
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
}

func (s *WizardService) view(st *wizard.State) *WizardView {
	return &WizardView{
		ID:          st.ID,
		NextStep:    st.NextStep(),
		Completed:   st.Completed,
		Title:       st.Title,
		Description: st.Description,
		Visibility:  st.Visibility,
		ExpiresAt:   st.UpdatedAt.Add(s.ttl),
	}
}

func (s *WizardService) Start(ctx context.Context, userID uint) (*WizardView, error) {
	if userID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	now := s.now()
	st := &wizard.State{ID: s.newID(), UserID: userID, CreatedAt: now, UpdatedAt: now}
	if err := s.store.Save(ctx, st, s.ttl); err != nil {
		return nil, models.NewInternalError(err)
	}
	return s.view(st), nil
}

func (s *WizardService) Get(ctx context.Context, userID uint, id string) (*WizardView, error) {
	st, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.view(st), nil
}

// Submit records one step. The final step inserts the question and discards
// the wizard; earlier steps only refresh the stored state and its TTL.
func (s *WizardService) Submit(ctx context.Context, userID uint, id string, step int, in wizard.StepInput) (*WizardStepResult, error) {
	st, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	prev := *st
	label := strconv.Itoa(step)
	if err := st.Apply(step, in, s.now()); err != nil {
		observability.WizardSteps.WithLabelValues(label, "rejected").Inc()
		return nil, err
	}

	if !st.Done() {
		if err := s.store.Save(ctx, st, s.ttl); err != nil {
			return nil, models.NewInternalError(err)
		}
		observability.WizardSteps.WithLabelValues(label, "accepted").Inc()
		return &WizardStepResult{Wizard: s.view(st)}, nil
	}

	// Deleting the state claims the run, so a concurrent final submit loses
	// with NOT_FOUND instead of inserting a second question.
	if err := s.store.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, wizard.ErrNotFound) {
			return nil, models.NewNotFoundError("Wizard", id)
		}
		return nil, models.NewInternalError(err)
	}
	q := st.Question()
	if err := s.questions.Create(ctx, q); err != nil {
		if serr := s.store.Save(ctx, &prev, s.ttl); serr != nil {
			return nil, models.NewInternalError(errors.Join(err, serr))
		}
		return nil, err
	}
	observability.WizardSteps.WithLabelValues(label, "committed").Inc()
	observability.QuestionsCreated.WithLabelValues("wizard").Inc()
	return &WizardStepResult{Question: q}, nil
}

// Abandon discards the wizard without creating anything.
func (s *WizardService) Abandon(ctx context.Context, userID uint, id string) error {
	if err := s.store.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, wizard.ErrNotFound) {
			return models.NewNotFoundError("Wizard", id)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (s *WizardService) load(ctx context.Context, userID uint, id string) (*wizard.State, error) {
	st, err := s.store.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, wizard.ErrNotFound) {
			return nil, models.NewNotFoundError("Wizard", id)
		}
		return nil, models.NewInternalError(err)
	}
	return st, nil
}
