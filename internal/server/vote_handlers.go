package server

import (
	"quorum/internal/models"

	"github.com/gofiber/fiber/v2"
)

// VoteQuestion handles POST /api/questions/:id/vote
func (s *Server) VoteQuestion(c *fiber.Ctx) error {
	return s.toggleVote(c, models.VoteTargetQuestion)
}

// VoteAnswer handles POST /api/answers/:id/vote
func (s *Server) VoteAnswer(c *fiber.Ctx) error {
	return s.toggleVote(c, models.VoteTargetAnswer)
}

// toggleVote flips the caller's vote. The target kind comes from the route,
// never from the request body.
func (s *Server) toggleVote(c *fiber.Ctx, kind models.VoteTargetKind) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	res, err := s.voteService.Toggle(c.UserContext(), currentUserID(c),
		models.VoteTarget{Kind: kind, ID: id})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(res)
}
