package server

import (
	"fmt"
	"net/http"
	"testing"

	"quorum/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAnswer(t *testing.T) {
	e := newTestEnv(t)
	aliceToken, _ := e.register(t, "alice")
	bobToken, bobID := e.register(t, "bob")
	q := e.createQuestion(t, aliceToken, "Answer me", models.VisibilityPublic)
	path := fmt.Sprintf("/api/questions/%d/answers", q.ID)

	var res answerResponse
	require.Equal(t, http.StatusCreated, e.do(t, http.MethodPost, path, bobToken, fiber.Map{
		"text":       "Use a mutex",
		"visibility": models.VisibilityPrivate,
		"rating":     5,
	}, &res))
	assert.Equal(t, bobID, res.Answer.UserID)
	assert.Equal(t, models.QuestionDetailPath(q.ID), res.Redirect)

	var errRes models.ErrorResponse
	status := e.do(t, http.MethodPost, path, bobToken, fiber.Map{"text": "again", "rating": 3}, &errRes)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "You have already answered this question", errRes.Error)

	var count int64
	require.NoError(t, e.db.Model(&models.Answer{}).Where("question_id = ?", q.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateAnswer_Rejects(t *testing.T) {
	e := newTestEnv(t)
	token, _ := e.register(t, "alice")
	q := e.createQuestion(t, token, "Q", models.VisibilityPublic)
	path := fmt.Sprintf("/api/questions/%d/answers", q.ID)

	tests := []struct {
		name           string
		path           string
		body           fiber.Map
		expectedStatus int
	}{
		{"rating too low", path, fiber.Map{"text": "x", "rating": 0}, http.StatusBadRequest},
		{"rating too high", path, fiber.Map{"text": "x", "rating": 6}, http.StatusBadRequest},
		{"missing text", path, fiber.Map{"rating": 3}, http.StatusBadRequest},
		{"unknown question", "/api/questions/999/answers", fiber.Map{"text": "x", "rating": 3}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedStatus, e.do(t, http.MethodPost, tt.path, token, tt.body, nil))
		})
	}
}

func TestUpdateAnswer_OwnerOnly(t *testing.T) {
	e := newTestEnv(t)
	aliceToken, _ := e.register(t, "alice")
	bobToken, _ := e.register(t, "bob")
	q := e.createQuestion(t, aliceToken, "Q", models.VisibilityPublic)
	a := e.createAnswer(t, bobToken, q.ID, 3)
	path := fmt.Sprintf("/api/answers/%d", a.ID)
	body := fiber.Map{"text": "revised", "visibility": models.VisibilityPublic, "rating": 4}

	assert.Equal(t, http.StatusForbidden, e.do(t, http.MethodPut, path, aliceToken, body, nil))

	var res answerResponse
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPut, path, bobToken, body, &res))
	assert.Equal(t, "revised", res.Answer.Text)
	assert.Equal(t, 4, res.Answer.Rating)
	assert.Equal(t, models.QuestionDetailPath(q.ID), res.Redirect)
}

func TestDeleteAnswer_OwnerOnly(t *testing.T) {
	e := newTestEnv(t)
	aliceToken, _ := e.register(t, "alice")
	bobToken, _ := e.register(t, "bob")
	q := e.createQuestion(t, aliceToken, "Q", models.VisibilityPublic)
	a := e.createAnswer(t, bobToken, q.ID, 3)
	path := fmt.Sprintf("/api/answers/%d", a.ID)

	assert.Equal(t, http.StatusForbidden, e.do(t, http.MethodDelete, path, aliceToken, nil, nil))

	var res map[string]any
	require.Equal(t, http.StatusOK, e.do(t, http.MethodDelete, path, bobToken, nil, &res))
	assert.Equal(t, models.QuestionDetailPath(q.ID), res["redirect"])

	// the answer is gone, so bob may answer again
	e.createAnswer(t, bobToken, q.ID, 2)
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodDelete, path, bobToken, nil, nil))
}
