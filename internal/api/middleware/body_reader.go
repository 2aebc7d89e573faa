package middleware

import (
	"net/http"

	"github.com/trambui/portfolio-contact/internal/api/dto/common"

	"github.com/gin-gonic/gin"
)

// MsgBodyTooLarge is returned with 413.
const MsgBodyTooLarge = "Request body too large."

// BodyLimit caps the request body at maxBytes. Declared oversize bodies are
// rejected before any read; undeclared ones fail the first read past the
// limit with *http.MaxBytesError, which handlers map to 413.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, common.NewErrorResponse(MsgBodyTooLarge))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
