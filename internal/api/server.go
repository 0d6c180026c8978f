package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/martijn/jobboard/internal/api/docs"
	"github.com/martijn/jobboard/internal/api/handler"
	"github.com/martijn/jobboard/internal/api/middleware"
	"github.com/martijn/jobboard/internal/core/service"
	"github.com/martijn/jobboard/pkg/config"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Server struct {
	router *gin.Engine
	srv    *http.Server
	config *config.Config
	logger *slog.Logger
}

// NewServer creates a new API server. A nil limiter disables rate limiting
// on the /auth routes.
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	authService *service.AuthService,
	userService *service.UserService,
	jobService *service.JobService,
	limiter middleware.Limiter,
) *Server {
	// Set Gin mode
	if !cfg.IsDevMode() && gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// Request bodies carrying fields we do not know about are rejected.
	binding.EnableDecoderDisallowUnknownFields = true

	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.ErrorHandlerMiddleware(logger))
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	router.Use(middleware.Authenticate(authService))

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService, authService)
	jobHandler := handler.NewJobHandler(jobService)

	authLimit := middleware.RateLimit(limiter, cfg.AuthRateLimit, cfg.AuthRateWindow)

	// Auth
	auth := router.Group("/auth")
	auth.Use(authLimit)
	{
		auth.POST("/token", authHandler.Token)
		auth.POST("/register", authHandler.Register)
	}

	adminOnly := middleware.EnsureAdmin()
	adminOrSelf := middleware.EnsureAdminOrSelf("username")

	// Users
	users := router.Group("/users")
	{
		users.POST("", adminOnly, userHandler.CreateUser)
		users.GET("", adminOnly, userHandler.ListUsers)
		users.GET("/:username", adminOrSelf, userHandler.GetUser)
		users.PATCH("/:username", adminOrSelf, userHandler.UpdateUser)
		users.DELETE("/:username", adminOrSelf, userHandler.DeleteUser)
		users.POST("/:username/jobs/:id", adminOrSelf, userHandler.ApplyForJob)
	}

	// Jobs
	jobs := router.Group("/jobs")
	{
		jobs.POST("", adminOnly, jobHandler.CreateJob)
		jobs.GET("", jobHandler.ListJobs)
		jobs.GET("/:id", jobHandler.GetJob)
		jobs.PATCH("/:id", adminOnly, jobHandler.UpdateJob)
		jobs.DELETE("/:id", adminOnly, jobHandler.DeleteJob)
	}

	// API docs
	router.GET("/openapi.yaml", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/yaml", docs.OpenAPI)
	})
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/openapi.yaml")))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return &Server{
		router: router,
		config: cfg,
		logger: logger,
	}
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.APIHost, s.config.APIPort)

	s.srv = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	// Start with or without SSL
	if s.config.SSLCert != "" && s.config.SSLKey != "" {
		s.logger.Info("starting HTTPS server", slog.String("addr", addr))
		return s.srv.ListenAndServeTLS(s.config.SSLCert, s.config.SSLKey)
	}

	s.logger.Info("starting HTTP server", slog.String("addr", addr))
	return s.srv.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}
