package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/trambui/portfolio-contact/internal/api/constants"
	"github.com/trambui/portfolio-contact/internal/api/dto/common"
	"github.com/trambui/portfolio-contact/internal/contact"
	"github.com/trambui/portfolio-contact/internal/logging"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panic in any later handler into a 500 envelope.
func Recovery(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("[PANIC] %s %s | %s | %s | %v\n%s",
					c.Request.Method,
					c.Request.URL.Path,
					c.ClientIP(),
					c.GetString(constants.ContextKeyRequestID),
					err,
					debug.Stack(),
				)

				if c.Writer.Written() {
					c.Abort()
					return
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, common.NewErrorResponse(contact.MsgInternal))
			}
		}()

		c.Next()
	}
}
