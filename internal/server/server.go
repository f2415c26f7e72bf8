package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hearthplan/backend/config"
	"github.com/hearthplan/backend/internal/api"
	"github.com/hearthplan/backend/internal/database"
	"github.com/hearthplan/backend/internal/middleware"
	"github.com/hearthplan/backend/internal/router"
	"github.com/hearthplan/backend/internal/service"
)

const sweepInterval = time.Hour

// Server owns the HTTP listener, the session sweeper and the shared
// connections.
type Server struct {
	engine    *gin.Engine
	http      *http.Server
	gormDB    *gorm.DB
	healthDB  *database.DB
	auth      *service.AuthService
	sweepStop chan struct{}
}

// New wires the full application from configuration.
func New(cfg *config.Config) (*Server, error) {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	gormDB, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(gormDB); err != nil {
		return nil, err
	}

	healthDB, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	authService := service.NewAuthService(gormDB)

	llmService, err := service.NewLLMService()
	if err != nil {
		return nil, err
	}
	shoppingService := service.NewShoppingService(gormDB, llmService)

	var avatarService *service.AvatarService
	if s3Config, err := config.NewS3Config(context.Background()); err != nil {
		log.Printf("[Server] S3 unavailable, avatar uploads disabled: %v", err)
	} else {
		avatarService = service.NewAvatarService(s3Config)
	}

	var aiLimit *middleware.RateLimiter
	if redisClient, err := database.NewRedisClient(cfg); err != nil {
		log.Printf("[Server] Redis unavailable, AI endpoints unthrottled: %v", err)
	} else {
		aiLimit = middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Window:    time.Hour,
			Limit:     30,
			KeyPrefix: "ai-rate",
		})
	}

	handlers := router.Handlers{
		Auth:       api.NewAuthHandler(authService),
		Users:      api.NewUsersHandler(gormDB, authService, avatarService),
		Meals:      api.NewMealsHandler(gormDB, llmService),
		MealPlans:  api.NewMealPlansHandler(gormDB),
		Activities: api.NewActivitiesHandler(gormDB),
		Shopping:   api.NewShoppingHandler(gormDB, shoppingService),
	}

	engine := router.SetupRouter(handlers, authService, aiLimit)

	srv := &Server{
		engine:    engine,
		gormDB:    gormDB,
		healthDB:  healthDB,
		auth:      authService,
		sweepStop: make(chan struct{}),
	}
	engine.GET("/health", srv.health)

	return srv, nil
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.healthDB.HealthCheck(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Start begins serving and blocks until the listener stops.
func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.engine,
	}

	go s.sweepSessions()

	log.Printf("[Server] listening on :%s", port)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the listener and the session sweeper.
func (s *Server) Shutdown(ctx context.Context) error {
	close(s.sweepStop)
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}

// sweepSessions periodically removes expired sessions so the sessions
// table does not grow without bound.
func (s *Server) sweepSessions() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			removed, err := s.auth.SweepSessions(ctx)
			cancel()
			if err != nil {
				log.Printf("[Server] session sweep failed: %v", err)
			} else if removed > 0 {
				log.Printf("[Server] swept %d expired sessions", removed)
			}
		case <-s.sweepStop:
			return
		}
	}
}
