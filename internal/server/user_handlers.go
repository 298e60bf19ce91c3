package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"quorum/internal/middleware"
	"quorum/internal/models"
	"quorum/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetTopAskers handles GET /api/users
func (s *Server) GetTopAskers(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	top, err := s.userService.TopAskers(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{
				"error": "Request timeout",
			})
		}
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"users": top})
}

// GetUserDetail handles GET /api/users/:username
func (s *Server) GetUserDetail(c *fiber.Ctx) error {
	detail, err := s.userService.GetUserDetail(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(detail)
}

// UpdateUser handles PUT /api/users/:username
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	var req service.UpdateUserInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	req.ActorID = currentUserID(c)
	req.Username = c.Params("username")

	user, err := s.userService.UpdateUser(c.UserContext(), req)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":     user,
		"redirect": models.UserDetailPath(user.Username),
	})
}

// DeleteUser handles DELETE /api/users/:username. The account is deactivated
// and the current token revoked.
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	username := c.Params("username")
	if err := s.userService.DeactivateUser(c.UserContext(), currentUserID(c), username); err != nil {
		return respondServiceError(c, err)
	}

	if err := s.revokeCurrentToken(c); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "failed to revoke token after deactivation",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
	}

	return c.JSON(fiber.Map{
		"message":  "Account deactivated",
		"redirect": LogoutPath,
	})
}
