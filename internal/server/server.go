// Package server contains the HTTP handlers and routes of the Quorum API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"quorum/internal/bootstrap"
	"quorum/internal/cache"
	"quorum/internal/config"
	"quorum/internal/database"
	"quorum/internal/middleware"
	"quorum/internal/models"
	"quorum/internal/repository"
	"quorum/internal/service"
	"quorum/internal/wizard"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config          *config.Config
	db              *gorm.DB
	redis           *redis.Client
	app             *fiber.App
	promMiddleware  *fiberprometheus.FiberPrometheus
	rateLimiter     *middleware.RateLimiter
	userRepo        repository.UserRepository
	questionRepo    repository.QuestionRepository
	answerRepo      repository.AnswerRepository
	voteRepo        repository.VoteRepository
	questionService *service.QuestionService
	answerService   *service.AnswerService
	voteService     *service.VoteService
	userService     *service.UserService
	wizardService   *service.WizardService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, redisClient, err := bootstrap.InitRuntime(cfg, bootstrap.Options{SeedDemoData: cfg.SeedDemoData})
	if err != nil {
		return nil, err
	}

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// A nil redisClient keeps wizard state in process memory and turns caching off.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("quorum-api"),
		userRepo:       repository.NewUserRepository(db),
		questionRepo:   repository.NewQuestionRepository(db),
		answerRepo:     repository.NewAnswerRepository(db),
		voteRepo:       repository.NewVoteRepository(db),
	}

	policy := middleware.FailClosed
	if cfg.RateLimitFailOpen {
		policy = middleware.FailOpen
	}
	s.rateLimiter = middleware.NewRateLimiter(redisClient, cfg.Env, policy)

	s.questionService = service.NewQuestionService(s.questionRepo, s.answerRepo, s.voteRepo)
	s.answerService = service.NewAnswerService(s.answerRepo, s.questionRepo)
	s.voteService = service.NewVoteService(s.voteRepo, s.questionRepo, s.answerRepo)
	s.userService = service.NewUserService(s.userRepo, s.questionRepo, s.answerRepo)

	ttl := time.Duration(cfg.WizardTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = service.DefaultWizardTTL
	}
	s.wizardService = service.NewWizardService(wizard.NewStore(redisClient), s.questionRepo, ttl)

	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	// Tracing runs before the context middleware so trace_id reaches the logger.
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so error responses still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Quorum Metrics Dashboard",
	}))

	auth := api.Group("/auth")
	auth.Post("/register", s.rateLimiter.Limit(3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", s.rateLimiter.Limit(10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", s.AuthRequired(), s.Logout)

	// Public routes. Specific paths before the generic /:id.
	questions := api.Group("/questions")
	questions.Get("/", s.ListQuestions)
	questions.Get("/search", s.rateLimiter.Limit(30, time.Minute, "search"), s.SearchQuestions)
	questions.Get("/:id", s.GetQuestion)

	users := api.Group("/users")
	users.Get("/", s.GetTopAskers)
	users.Get("/:username", s.GetUserDetail)

	// Everything registered below requires a valid token.
	protected := api.Group("", s.AuthRequired())

	wiz := protected.Group("/questions/wizard")
	wiz.Post("/", s.StartWizard)
	wiz.Get("/:wizardId", s.GetWizard)
	wiz.Post("/:wizardId/steps/:step", s.SubmitWizardStep)
	wiz.Delete("/:wizardId", s.AbandonWizard)

	myQuestions := protected.Group("/questions")
	myQuestions.Post("/", s.rateLimiter.Limit(10, time.Minute, "create_question"), s.CreateQuestion)
	myQuestions.Post("/:id/answers", s.rateLimiter.Limit(10, time.Minute, "create_answer"), s.CreateAnswer)
	myQuestions.Post("/:id/vote", s.rateLimiter.Limit(60, time.Minute, "vote"), s.VoteQuestion)
	myQuestions.Put("/:id", s.UpdateQuestion)
	myQuestions.Delete("/:id", s.DeleteQuestion)

	answers := protected.Group("/answers")
	answers.Post("/:id/vote", s.rateLimiter.Limit(60, time.Minute, "vote"), s.VoteAnswer)
	answers.Put("/:id", s.UpdateAnswer)
	answers.Delete("/:id", s.DeleteAnswer)

	me := protected.Group("/users")
	me.Put("/:username", s.UpdateUser)
	me.Delete("/:username", s.DeleteUser)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional: without
// it the service runs degraded but stays ready.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "Quorum",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware. Revoked tokens and
// tokens of deactivated users are rejected.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := middleware.ParseToken(s.config.JWTSecret, middleware.BearerToken(c.Get("Authorization")))
		if err != nil {
			if errors.Is(err, middleware.ErrMissingToken) {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Authorization required"))
			}
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		revoked, err := cache.IsRevoked(c.Context(), claims.JTI)
		if err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "token revocation check failed",
				slog.String("error", err.Error()))
		}
		if revoked {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Token has been revoked"))
		}

		user, err := s.userService.GetUserByID(c.Context(), claims.UserID)
		if err != nil {
			if models.ErrorCode(err) == models.CodeNotFound {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Invalid or expired token"))
			}
			return respondServiceError(c, err)
		}
		if !user.IsActive {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Account is inactive"))
		}

		c.Locals("userID", user.ID)
		c.Locals("username", user.Username)
		c.Locals("tokenClaims", claims)
		c.SetUserContext(middleware.WithUserID(c.UserContext(), user.ID))

		return c.Next()
	}
}

// optionalUserID extracts the caller from the Authorization header without
// enforcing it. Revoked tokens and deactivated or unknown users count as
// anonymous.
func (s *Server) optionalUserID(c *fiber.Ctx) (uint, bool) {
	token := middleware.BearerToken(c.Get("Authorization"))
	if token == "" {
		return 0, false
	}
	claims, err := middleware.ParseToken(s.config.JWTSecret, token)
	if err != nil {
		return 0, false
	}
	if revoked, _ := cache.IsRevoked(c.Context(), claims.JTI); revoked {
		return 0, false
	}
	user, err := s.userService.GetUserByID(c.Context(), claims.UserID)
	if err != nil || !user.IsActive {
		return 0, false
	}
	return user.ID, true
}

// NewApp builds the Fiber app with middleware and routes applied.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Quorum API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", slog.String("error", err.Error()))
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Start starts the server
func (s *Server) Start() error {
	s.app = s.NewApp()

	middleware.Logger.Info("server starting", slog.String("port", s.config.Port))
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", slog.String("error", err.Error()))
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
