package routes

import (
	"net/http"

	"github.com/trambui/portfolio-contact/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// Handlers contains all the route handlers
type Handlers struct {
	Contact *handlers.ContactHandler
	Health  *handlers.HealthHandler
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

// Middleware contains route-scoped middleware
type Middleware struct {
	// RateLimit guards the submission routes.
	RateLimit gin.HandlerFunc
}
