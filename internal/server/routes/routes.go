package routes

import (
	"net/http"

	"github.com/trambui/portfolio-contact/internal/api/dto/common"
	"github.com/trambui/portfolio-contact/internal/api/middleware"
	"github.com/trambui/portfolio-contact/internal/logging"

	"github.com/gin-gonic/gin"
)

// MsgMethodNotAllowed is returned with 405.
const MsgMethodNotAllowed = "Method Not Allowed"

// Setup configures all route groups
func Setup(router *gin.Engine, h *Handlers, m *Middleware, logger *logging.Logger) {
	SetupHealthRoutes(router, h.Health, h.Metrics)
	SetupContactRoutes(router, h.Contact, m)

	router.HandleMethodNotAllowed = true
	router.NoMethod(methodNotAllowed)
	router.NoRoute(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusNotFound, common.NewErrorResponse("Not Found"))
	})

	logger.Debug("All routes have been set up successfully")
}

// GlobalConfig holds the settings for middleware that applies to all routes.
type GlobalConfig struct {
	AllowedOrigins []string
	Development    bool
	MaxBodyBytes   int64
	// Extra runs after the built-in chain, e.g. tracing and metrics.
	Extra []gin.HandlerFunc
}

// SetupGlobalMiddleware configures middleware that applies to all routes
func SetupGlobalMiddleware(router *gin.Engine, logger *logging.Logger, cfg GlobalConfig) {
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(cfg.Extra...)
	router.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		Development:    cfg.Development,
	}))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
}

// methodNotAllowed answers a known path hit with the wrong method. The body
// is never read.
func methodNotAllowed(c *gin.Context) {
	if c.Writer.Header().Get("Allow") == "" {
		c.Header("Allow", http.MethodPost)
	}
	c.AbortWithStatusJSON(http.StatusMethodNotAllowed, common.NewErrorResponse(MsgMethodNotAllowed))
}
