package middleware

import (
	"time"

	"github.com/trambui/portfolio-contact/internal/api/constants"
	"github.com/trambui/portfolio-contact/internal/logging"

	"github.com/gin-gonic/gin"
)

// RequestLogger is a middleware that logs request information.
// It only logs when the logger was built with LOG_REQUESTS enabled.
func RequestLogger(logger *logging.Logger) gin.HandlerFunc {
	// If logging is disabled, return a no-op middleware
	if !logger.RequestsEnabled() {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		// Process request
		c.Next()

		logger.LogHTTPRequest(
			method,
			path,
			c.ClientIP(),
			c.GetString(constants.ContextKeyRequestID),
			c.Writer.Status(),
			c.Writer.Size(),
			time.Since(start),
		)
	}
}
