package routes

import (
	"github.com/trambui/portfolio-contact/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// Submission paths. The Netlify path keeps the static site's form action
// working when the service runs behind a plain reverse proxy.
const (
	PathSendEmail     = "/send-email"
	PathNetlifyFunc   = "/.netlify/functions/send-email"
	PathContactSubmit = "/api/v1/contact/submit"
)

// SetupContactRoutes configures contact form routes
func SetupContactRoutes(router *gin.Engine, contact *handlers.ContactHandler, m *Middleware) {
	chain := []gin.HandlerFunc{}
	if m != nil && m.RateLimit != nil {
		chain = append(chain, m.RateLimit)
	}
	chain = append(chain, contact.Submit)

	for _, path := range []string{PathSendEmail, PathNetlifyFunc, PathContactSubmit} {
		router.POST(path, chain...)
	}
}
