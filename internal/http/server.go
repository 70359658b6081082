// Package http provides the HTTP server, its router and shared middleware.
package http

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/orchestrator/internal/auth/http"
	authService "github.com/allisson/orchestrator/internal/auth/service"
	"github.com/allisson/orchestrator/internal/config"
	"github.com/allisson/orchestrator/internal/gateway"
	"github.com/allisson/orchestrator/internal/metrics"
	processHTTP "github.com/allisson/orchestrator/internal/process/http"
	queueHTTP "github.com/allisson/orchestrator/internal/queue/http"
	rpaHTTP "github.com/allisson/orchestrator/internal/rpa/http"
)

// Handlers groups the domain handlers mounted under /v1.
type Handlers struct {
	Queue   *queueHTTP.QueueHandler
	RPA     *rpaHTTP.RPAHandler
	Process *processHTTP.ProcessHandler
	Gateway *gateway.Gateway
}

// Server represents the HTTP server
type Server struct {
	db      *sql.DB
	router  *gin.Engine
	server  *http.Server
	gateway *gateway.Gateway
	logger  *slog.Logger
}

// NewServer creates a new HTTP server. Routes are mounted by SetupRouter.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: newHTTPServer(fmt.Sprintf("%s:%d", host, port), nil),
	}
}

// SetupRouter builds the gin router with every route of the service.
//
// Operator routes (queues, items, processes, process events, automation tasks, audit export and
// the worker WebSocket) sit behind the API key middleware. The provider callback is
// authenticated by its correlation token and is only rate limited per IP.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	handlers Handlers,
	keyService authService.APIKeyService,
	metricsProvider *metrics.Provider,
) {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if cors := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOriginList(), s.logger); cors != nil {
		router.Use(cors)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	var callbackMiddlewares []gin.HandlerFunc
	if cfg.RateLimitWebhookEnabled {
		callbackMiddlewares = append(callbackMiddlewares, authHTTP.IPRateLimitMiddleware(
			ctx,
			cfg.RateLimitWebhookRequestsPerSec,
			cfg.RateLimitWebhookBurst,
			s.logger,
		))
	}
	if handlers.RPA != nil {
		handlers.RPA.RegisterCallbackRoute(v1, callbackMiddlewares...)
	}

	protected := v1.Group("")
	protected.Use(authHTTP.APIKeyMiddleware(keyService, cfg.APIKeyHashList(), s.logger))

	if handlers.Queue != nil {
		handlers.Queue.RegisterRoutes(protected)
	}
	if handlers.RPA != nil {
		handlers.RPA.RegisterRoutes(protected)
	}
	if handlers.Process != nil {
		handlers.Process.RegisterRoutes(protected)
	}
	if handlers.Gateway != nil {
		handlers.Gateway.RegisterRoutes(protected)
		s.gateway = handlers.Gateway
	}

	s.router = router
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return errors.New("router not configured")
	}
	s.server.Handler = s.router
	return listenAndServe(s.server, s.logger, "http server")
}

// Shutdown stops accepting requests and closes live worker sessions. Hijacked WebSocket
// connections are not tracked by http.Server, so the gateway is shut down explicitly.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")

	err := s.server.Shutdown(ctx)
	if s.gateway != nil {
		if gwErr := s.gateway.Shutdown(ctx); gwErr != nil {
			err = errors.Join(err, fmt.Errorf("gateway shutdown: %w", gwErr))
		}
	}
	return err
}

// healthHandler reports liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the database is reachable.
func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if s.db == nil || s.db.PingContext(ctx) != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}
