package server

import (
	"net/http"

	"github.com/trambui/portfolio-contact/internal/api/middleware"
	"github.com/trambui/portfolio-contact/internal/logging"

	"github.com/gin-gonic/gin"
)

// Config holds the HTTP-facing settings.
type Config struct {
	Addr           string
	AllowedOrigins []string
	Development    bool
	MaxBodyBytes   int64
	// TrustedProxies lists the peers whose forwarding headers set the client
	// IP. Empty means the TCP peer is always the client.
	TrustedProxies []string
	RateLimit      middleware.RateLimitConfig
	Tracing        bool
	ServiceName    string
}

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	cfg    Config
	logger *logging.Logger
	http   *http.Server
}
