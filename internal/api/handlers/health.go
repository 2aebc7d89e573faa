package handlers

import (
	"github.com/trambui/portfolio-contact/internal/utils"
	"github.com/trambui/portfolio-contact/internal/version"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Check reports liveness. It does not dial the SMTP relay or the CAPTCHA
// provider; use contactctl check-smtp for that.
func (h *HealthHandler) Check(c *gin.Context) {
	c.Header("X-Service-Version", version.Version)
	utils.HandleSuccess(c, "Health check OK")
}
