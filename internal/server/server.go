// Package server contains the HTTP handlers for the film recommendation API.
package server

import (
	"context"
	"fmt"
	"time"

	"cinemate/internal/bootstrap"
	"cinemate/internal/config"
	"cinemate/internal/middleware"
	"cinemate/internal/models"
	"cinemate/internal/notifications"
	"cinemate/internal/observability"
	"cinemate/internal/repository"
	"cinemate/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	// writeWindow is the rate-limit window for every mutating route.
	writeWindow = time.Minute

	defaultAllowedOrigins = "http://localhost:3000,http://localhost:5173"
	exposedHeaders        = "X-Request-ID, " + middleware.TraceIDHeader + ", X-RateLimit-Limit, X-RateLimit-Remaining, Retry-After"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	filmService           *service.FilmService
	likeService           *service.LikeService
	friendService         *service.FriendService
	recommendationService *service.RecommendationService
	feedService           *service.FeedService
	reviewService         *service.ReviewService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	// Redis only carries feed fan-out and write throttling; the API serves without it.
	db, rdb, err := bootstrap.InitRuntime(context.Background(), cfg, bootstrap.Options{
		SeedCatalog: cfg.SeedCatalog && !cfg.IsProduction(),
	})
	if err != nil {
		return nil, err
	}

	return NewServerWithDeps(cfg, db, rdb)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	userRepo := repository.NewUserRepository(db)
	filmRepo := repository.NewFilmRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	directorRepo := repository.NewDirectorRepository(db)
	eventRepo := repository.NewEventRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	tx := repository.NewTransactor(db)

	var publisher service.EventPublisher
	if redisClient != nil {
		publisher = notifications.NewNotifier(redisClient)
	}
	feed := service.NewFeedService(eventRepo, userRepo, publisher)

	return &Server{
		config:                cfg,
		db:                    db,
		redis:                 redisClient,
		promMiddleware:        middleware.InitMetrics("cinemate-api"),
		filmService:           service.NewFilmService(filmRepo, directorRepo, userRepo, likeRepo),
		likeService:           service.NewLikeService(likeRepo, filmRepo, userRepo, feed, tx),
		friendService:         service.NewFriendService(friendRepo, userRepo, feed, tx),
		recommendationService: service.NewRecommendationService(likeRepo, filmRepo, userRepo),
		feedService:           feed,
		reviewService:         service.NewReviewService(reviewRepo, filmRepo, userRepo, feed, tx),
	}, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and Correlation ID
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS before anything that can short-circuit, so 429s still carry the headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = defaultAllowedOrigins
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, " + middleware.CorrelationIDHeader,
		ExposeHeaders: exposedHeaders,
		MaxAge:        86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	health := app.Group("/health")
	health.Get("/live", s.LivenessCheck)
	health.Get("/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	writeLimit := middleware.RateLimit(s.redis, s.writeRateLimit(), writeWindow, "writes")

	films := app.Group("/films")
	// Specific collection routes before the generic /:id route
	films.Get("/popular", s.GetPopularFilms)
	films.Get("/search", s.SearchFilms)
	films.Get("/common", s.GetCommonFilms)
	films.Get("/director/:directorId", s.GetDirectorFilms)
	films.Put("/:id/like/:userId", writeLimit, s.LikeFilm)
	films.Delete("/:id/like/:userId", writeLimit, s.UnlikeFilm)
	films.Get("/:id", s.GetFilm)

	users := app.Group("/users")
	users.Get("/:id/friends/common/:otherId", s.GetCommonFriends)
	users.Get("/:id/friends", s.GetFriends)
	users.Put("/:id/friends/:friendId", writeLimit, s.AddFriend)
	users.Delete("/:id/friends/:friendId", writeLimit, s.RemoveFriend)
	users.Get("/:id/recommendations", s.GetRecommendations)
	users.Get("/:id/feed", s.GetFeed)

	reviews := app.Group("/reviews")
	reviews.Get("/", s.ListReviews)
	reviews.Post("/", writeLimit, s.CreateReview)
	reviews.Put("/", writeLimit, s.UpdateReview)
	reviews.Get("/:id", s.GetReview)
	reviews.Delete("/:id", writeLimit, s.DeleteReview)
	reviews.Put("/:id/like/:userId", writeLimit, s.LikeReview)
	reviews.Delete("/:id/like/:userId", writeLimit, s.UnlikeReview)
	reviews.Put("/:id/dislike/:userId", writeLimit, s.DislikeReview)
	reviews.Delete("/:id/dislike/:userId", writeLimit, s.UndislikeReview)
}

func (s *Server) writeRateLimit() int {
	if s.config == nil {
		return 0
	}
	return s.config.WriteRateLimit
}

func (s *Server) popularDefaultLimit() int {
	if s.config == nil || s.config.PopularDefaultLimit <= 0 {
		return 10
	}
	return s.config.PopularDefaultLimit
}

// NewApp builds the Fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Cinemate API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			observability.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// LivenessCheck handles GET /health/live
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles GET /health/ready. Redis is optional, so its
// absence is reported but does not fail readiness.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	} else if redisStatus == "unhealthy" {
		overallStatus = "degraded"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	s.app = s.NewApp()

	observability.Logger.Info("server starting", "port", s.config.Port)
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			observability.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			observability.Logger.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			observability.Logger.Error("error closing redis", "error", rerr)
		}
	}

	observability.Logger.Info("server shutdown complete")
	return nil
}
