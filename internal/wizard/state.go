// Package wizard holds the multi-step question creation flow and its state stores.
package wizard

import (
	"errors"
	"fmt"
	"time"

	"quorum/internal/models"
	"quorum/internal/validation"
)

// Steps in the order they must be completed.
const (
	StepTitle       = 1
	StepDescription = 2
	StepVisibility  = 3
	LastStep        = StepVisibility
)

// ErrNotFound is returned for unknown, expired, or foreign wizard ids.
var ErrNotFound = errors.New("wizard not found")

// State is the data collected so far by one wizard run.
type State struct {
	ID          string             `json:"id"`
	UserID      uint               `json:"user_id"`
	Completed   int                `json:"completed"`
	Title       string             `json:"title,omitempty"`
	Description string             `json:"description,omitempty"`
	Visibility  *models.Visibility `json:"visibility,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// StepInput carries the fields a client may submit for any step.
// Only the fields of the submitted step are read.
type StepInput struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Visibility  models.Visibility `json:"visibility"`
}

type titleStep struct {
	Title string `json:"title" validate:"required,max=300"`
}

type descriptionStep struct {
	Description string `json:"description" validate:"required"`
}

type visibilityStep struct {
	Visibility models.Visibility `json:"visibility" validate:"visibility"`
}

// NextStep is the first step not yet completed, or 0 once all are done.
func (s *State) NextStep() int {
	if s.Completed >= LastStep {
		return 0
	}
	return s.Completed + 1
}

// Apply validates and records one step. A step may be submitted once every
// earlier step is complete; completed steps may be resubmitted.
func (s *State) Apply(step int, in StepInput, now time.Time) error {
	if step < StepTitle || step > LastStep {
		return models.NewValidationError(fmt.Sprintf("Unknown wizard step %d", step))
	}
	if step > s.Completed+1 {
		return models.NewValidationError(fmt.Sprintf("Complete step %d before step %d", s.Completed+1, step))
	}

	switch step {
	case StepTitle:
		if err := validation.Struct(titleStep{Title: in.Title}); err != nil {
			return err
		}
		s.Title = in.Title
	case StepDescription:
		if err := validation.Struct(descriptionStep{Description: in.Description}); err != nil {
			return err
		}
		s.Description = in.Description
	case StepVisibility:
		if err := validation.Struct(visibilityStep{Visibility: in.Visibility}); err != nil {
			return err
		}
		v := in.Visibility
		s.Visibility = &v
	}

	if step > s.Completed {
		s.Completed = step
	}
	s.UpdatedAt = now
	return nil
}

// Done reports whether every step has been recorded.
func (s *State) Done() bool {
	return s.Completed >= LastStep
}

// Question builds the question the wizard collected.
func (s *State) Question() *models.Question {
	q := &models.Question{
		UserID:      s.UserID,
		Title:       s.Title,
		Description: s.Description,
	}
	if s.Visibility != nil {
		q.Visibility = *s.Visibility
	}
	return q
}
