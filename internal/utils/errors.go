package utils

import (
	"github.com/trambui/portfolio-contact/internal/api/dto/common"
	"github.com/trambui/portfolio-contact/internal/contact"
	"github.com/trambui/portfolio-contact/internal/logging"

	"github.com/gin-gonic/gin"
)

// HandleAPIError is a utility function for consistent error handling across the API.
// The full error is logged; the client only ever sees the public message for its kind.
func HandleAPIError(c *gin.Context, logger *logging.Logger, err error) {
	status := contact.StatusCode(err)
	message := contact.PublicMessage(err)

	if logger != nil {
		logger.LogHTTPError(
			c.Request.Method,
			c.Request.URL.Path,
			c.ClientIP(),
			status,
			message,
			err,
		)
	}

	c.AbortWithStatusJSON(status, common.NewErrorResponse(message))
}
