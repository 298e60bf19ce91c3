package server

import (
	"log/slog"
	"time"

	"quorum/internal/cache"
	"quorum/internal/middleware"
	"quorum/internal/models"
	"quorum/internal/service"

	"github.com/gofiber/fiber/v2"
)

const defaultTokenTTL = 7 * 24 * time.Hour

// Register handles POST /api/auth/register
func (s *Server) Register(c *fiber.Ctx) error {
	var req service.RegisterInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.userService.Register(c.UserContext(), req)
	if err != nil {
		return respondServiceError(c, err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token":    token,
		"user":     user,
		"redirect": models.QuestionListPath,
	})
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if req.Username == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username and password are required"))
	}

	user, err := s.userService.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return respondServiceError(c, err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token":    token,
		"user":     user,
		"redirect": models.QuestionListPath,
	})
}

// Logout handles POST /api/auth/logout. The token stays revoked until it
// would have expired anyway.
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.revokeCurrentToken(c); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{
		"message":  "Logged out",
		"redirect": models.QuestionListPath,
	})
}

func (s *Server) revokeCurrentToken(c *fiber.Ctx) error {
	claims, ok := c.Locals("tokenClaims").(*middleware.TokenClaims)
	if !ok || claims == nil {
		return nil
	}
	if cache.GetClient() == nil {
		middleware.Logger.WarnContext(c.UserContext(), "redis unavailable, token stays valid until expiry",
			slog.Uint64("user_id", uint64(claims.UserID)),
			slog.String("jti", claims.JTI))
		return nil
	}
	return cache.Revoke(c.UserContext(), claims.JTI, time.Until(claims.ExpiresAt))
}

func (s *Server) issueToken(user *models.User) (string, error) {
	ttl := time.Duration(s.config.JWTTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	token, _, err := middleware.IssueToken(s.config.JWTSecret, user.ID, user.Username, ttl)
	return token, err
}
