package server

import (
	"quorum/internal/models"
	"quorum/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateAnswer handles POST /api/questions/:id/answers
func (s *Server) CreateAnswer(c *fiber.Ctx) error {
	questionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req service.CreateAnswerInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	req.UserID = currentUserID(c)
	req.QuestionID = questionID

	a, err := s.answerService.CreateAnswer(c.UserContext(), req)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"answer":   a,
		"redirect": models.QuestionDetailPath(questionID),
	})
}

// UpdateAnswer handles PUT /api/answers/:id
func (s *Server) UpdateAnswer(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req service.UpdateAnswerInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	req.UserID = currentUserID(c)
	req.AnswerID = id

	a, err := s.answerService.UpdateAnswer(c.UserContext(), req)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"answer":   a,
		"redirect": models.QuestionDetailPath(a.QuestionID),
	})
}

// DeleteAnswer handles DELETE /api/answers/:id
func (s *Server) DeleteAnswer(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	questionID, err := s.answerService.DeleteAnswer(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Answer deleted",
		"redirect": models.QuestionDetailPath(questionID),
	})
}
