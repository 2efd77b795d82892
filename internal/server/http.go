package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	analyticsservice "github.com/leadpilot/leadpilot-backend/internal/analytics/service"
	"github.com/gin-gonic/gin"
	"github.com/leadpilot/leadpilot-backend/internal/auth"
	"github.com/leadpilot/leadpilot-backend/internal/auth/middleware"
	authservice "github.com/leadpilot/leadpilot-backend/internal/auth/service"
	"github.com/leadpilot/leadpilot-backend/internal/conf"
	historyservice "github.com/leadpilot/leadpilot-backend/internal/history/service"
	leadservice "github.com/leadpilot/leadpilot-backend/internal/lead/service"
	leadgenservice "github.com/leadpilot/leadpilot-backend/internal/leadgen/service"
	"github.com/leadpilot/leadpilot-backend/internal/pkg/logger"
	redispkg "github.com/leadpilot/leadpilot-backend/internal/pkg/redis"
	templateservice "github.com/leadpilot/leadpilot-backend/internal/template/service"
	userservice "github.com/leadpilot/leadpilot-backend/internal/user/service"
	"go.uber.org/zap"
)

// Services bundles the HTTP handler groups the server mounts
type Services struct {
	Auth      *authservice.AuthService
	User      *userservice.UserService
	Leadgen   *leadgenservice.LeadgenService
	Lead      *leadservice.LeadService
	History   *historyservice.HistoryService
	Template  *templateservice.TemplateService
	Analytics *analyticsservice.AnalyticsService
}

// HTTPServer wraps the gin engine and net/http server
type HTTPServer struct {
	engine *gin.Engine
	server *http.Server
	logger *zap.Logger
}

// NewHTTPServer builds the router with middleware and all API routes
func NewHTTPServer(
	cfg *conf.Config,
	log *logger.Logger,
	jwtManager *auth.JWTManager,
	redisClient *redispkg.Client,
	services *Services,
) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS())
	engine.Use(logger.GinLogger(log))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Format(time.RFC3339)})
	})

	api := engine.Group("/api/v1")

	// Public routes
	services.Auth.RegisterRoutes(api)

	// Authenticated routes
	protected := api.Group("")
	protected.Use(middleware.JWTAuth(jwtManager))
	protected.Use(middleware.APIRateLimiter(redisClient, log.Logger))

	services.Auth.RegisterProtectedRoutes(protected)
	services.User.RegisterRoutes(protected)
	services.Leadgen.RegisterRoutes(protected)
	services.Lead.RegisterRoutes(protected)
	services.History.RegisterRoutes(protected)
	services.Template.RegisterRoutes(protected)
	services.Analytics.RegisterRoutes(protected)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	return &HTTPServer{
		engine: engine,
		server: &http.Server{
			Addr:         addr,
			Handler:      engine,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		logger: log.Logger,
	}
}

// Start begins serving; it blocks until the listener fails or closes
func (s *HTTPServer) Start() error {
	s.logger.Info("http server starting", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// Stop shuts the server down gracefully
func (s *HTTPServer) Stop(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.server.Shutdown(ctx)
}
