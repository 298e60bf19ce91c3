package server

import (
	"context"
	"errors"
	"time"

	"quorum/internal/models"
	"quorum/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListQuestions handles GET /api/questions?page=N
func (s *Server) ListQuestions(c *fiber.Ctx) error {
	return s.listQuestions(c, "")
}

// SearchQuestions handles GET /api/questions/search?query=...
func (s *Server) SearchQuestions(c *fiber.Ctx) error {
	return s.listQuestions(c, c.Query("query"))
}

func (s *Server) listQuestions(c *fiber.Ctx, query string) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	userID, _ := s.optionalUserID(c)
	page, err := s.questionService.ListQuestions(ctx, service.ListQuestionsInput{
		Page:          parsePage(c),
		Query:         query,
		CurrentUserID: userID,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{
				"error": "Request timeout",
			})
		}
		return respondServiceError(c, err)
	}

	return c.JSON(page)
}

// GetQuestion handles GET /api/questions/:id
func (s *Server) GetQuestion(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	userID, _ := s.optionalUserID(c)
	detail, err := s.questionService.GetQuestionDetail(c.UserContext(), id, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(detail)
}

// CreateQuestion handles POST /api/questions
func (s *Server) CreateQuestion(c *fiber.Ctx) error {
	var req service.CreateQuestionInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	req.UserID = currentUserID(c)

	q, err := s.questionService.CreateQuestion(c.UserContext(), req)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"question": q,
		"redirect": models.QuestionListPath,
	})
}

// UpdateQuestion handles PUT /api/questions/:id
func (s *Server) UpdateQuestion(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req service.UpdateQuestionInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	req.UserID = currentUserID(c)
	req.QuestionID = id

	q, err := s.questionService.UpdateQuestion(c.UserContext(), req)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"question": q,
		"redirect": q.DetailPath(),
	})
}

// DeleteQuestion handles DELETE /api/questions/:id
func (s *Server) DeleteQuestion(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.questionService.DeleteQuestion(c.UserContext(), currentUserID(c), id); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Question deleted",
		"redirect": models.QuestionListPath,
	})
}
