package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/trambui/portfolio-contact/internal/api/handlers"
	"github.com/trambui/portfolio-contact/internal/api/middleware"
	"github.com/trambui/portfolio-contact/internal/contact"
	"github.com/trambui/portfolio-contact/internal/logging"
	"github.com/trambui/portfolio-contact/internal/server/routes"
	"github.com/trambui/portfolio-contact/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// NewServer builds the gin engine and wraps it in an http.Server.
func NewServer(cfg Config, submitter handlers.Submitter, metrics *telemetry.Metrics, logger *logging.Logger) (*Server, error) {
	// Set release mode unless a test already picked a mode
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// Disable Gin's default logger entirely because we're using our custom logger
	gin.DisableConsoleColor()
	gin.DefaultWriter = io.Discard

	// Create a new engine without default middleware
	router := gin.New()
	router.ContextWithFallback = true

	// gin trusts every proxy by default; rate limiting keys on ClientIP.
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	var extra []gin.HandlerFunc
	if cfg.Tracing {
		extra = append(extra, otelgin.Middleware(cfg.ServiceName))
	}
	var metricsHandler http.Handler
	if metrics != nil {
		extra = append(extra, metrics.Middleware())
		metricsHandler = metrics.Handler()
	}

	routes.SetupGlobalMiddleware(router, logger, routes.GlobalConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		Development:    cfg.Development,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		Extra:          extra,
	})

	limiter := middleware.NewClientRateLimiter(cfg.RateLimit)
	routes.Setup(router, &routes.Handlers{
		Contact: handlers.NewContactHandler(submitter, logger),
		Health:  handlers.NewHealthHandler(),
		Metrics: metricsHandler,
	}, &routes.Middleware{
		RateLimit: middleware.RateLimitMiddleware(limiter),
	}, logger)

	return &Server{
		router: router,
		cfg:    cfg,
		logger: logger,
		http: &http.Server{
			Addr:              cfg.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}, nil
}

// Router exposes the engine for adapters that do not listen themselves.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start listens until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server on %s", s.cfg.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown waits for in-flight submissions to finish, bounded by ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.http.Shutdown(ctx)
}

var _ handlers.Submitter = (*contact.Service)(nil)
