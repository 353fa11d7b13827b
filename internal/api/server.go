// Package api exposes the allocation service over HTTP.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/application/service"
	"github.com/OKUMUKOKUMU/SPP-Ingredients-Cost-allocation/internal/infrastructure/storage"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string

	// MinSharePercent and Precision are the allocation defaults applied when
	// a request omits them. An explicit zero in the request still wins.
	MinSharePercent float64
	Precision       int32
}

// DefaultConfig returns sensible defaults for local development.
func DefaultConfig() Config {
	return Config{
		Port:            8080,
		AllowedOrigins:  []string{"http://localhost:3000", "http://localhost:5173"},
		MinSharePercent: 1.0,
	}
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	engine     *gin.Engine
	httpServer *http.Server
	logger     *slog.Logger
	svc        *service.AllocationService
	store      *storage.Storage
}

// NewServer creates the API server. store may be nil, in which case the run
// history and stats endpoints respond 503.
func NewServer(cfg Config, svc *service.AllocationService, store *storage.Storage, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		config: cfg,
		engine: engine,
		logger: logger,
		svc:    svc,
		store:  store,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.engine.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	s.engine.Use(s.requestLogger())
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

func (s *Server) setupRoutes() {
	// Health check outside /api for load balancers.
	s.engine.GET("/health", s.handleHealth)

	apiGroup := s.engine.Group("/api")
	{
		apiGroup.GET("/items", s.handleItems)
		apiGroup.GET("/usage", s.handleUsage)
		apiGroup.POST("/allocate", s.handleAllocate)
		apiGroup.POST("/refresh", s.handleRefresh)
		apiGroup.GET("/runs", s.handleListRuns)
		apiGroup.GET("/runs/:id", s.handleGetRun)
		apiGroup.GET("/stats", s.handleStats)
	}
}

// Start runs the HTTP server until Shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Engine exposes the gin engine for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
