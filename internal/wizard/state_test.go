package wizard

import (
	"strings"
	"testing"
	"time"

	"quorum/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_StepsInOrder(t *testing.T) {
	now := time.Now()
	s := &State{ID: "w1", UserID: 1}
	assert.Equal(t, StepTitle, s.NextStep())

	err := s.Apply(StepDescription, StepInput{Description: "d"}, now)
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
	assert.Equal(t, 0, s.Completed)

	require.NoError(t, s.Apply(StepTitle, StepInput{Title: "How do channels work?"}, now))
	require.NoError(t, s.Apply(StepDescription, StepInput{Description: "Buffered vs unbuffered"}, now))
	assert.False(t, s.Done())
	assert.Equal(t, StepVisibility, s.NextStep())

	// resubmitting an earlier step keeps progress
	require.NoError(t, s.Apply(StepTitle, StepInput{Title: "Channels?"}, now))
	assert.Equal(t, StepDescription, s.Completed)

	require.NoError(t, s.Apply(StepVisibility, StepInput{Visibility: models.VisibilityPrivate}, now))
	assert.True(t, s.Done())
	assert.Equal(t, 0, s.NextStep())

	q := s.Question()
	assert.Equal(t, uint(1), q.UserID)
	assert.Equal(t, "Channels?", q.Title)
	assert.Equal(t, "Buffered vs unbuffered", q.Description)
	assert.Equal(t, models.VisibilityPrivate, q.Visibility)
}

func TestState_StepValidation(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name  string
		state State
		step  int
		in    StepInput
	}{
		{"unknown step", State{}, 4, StepInput{}},
		{"zero step", State{}, 0, StepInput{}},
		{"empty title", State{}, StepTitle, StepInput{}},
		{"long title", State{}, StepTitle, StepInput{Title: strings.Repeat("t", 301)}},
		{"empty description", State{Completed: 1}, StepDescription, StepInput{}},
		{"bad visibility", State{Completed: 2}, StepVisibility, StepInput{Visibility: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.state
			err := s.Apply(tt.step, tt.in, now)
			assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
			assert.Equal(t, tt.state.Completed, s.Completed)
		})
	}
}
