package handlers

import (
	"context"
	"errors"
	"net/http"

	contactdto "github.com/trambui/portfolio-contact/internal/api/dto/v1/contact"
	"github.com/trambui/portfolio-contact/internal/api/middleware"
	"github.com/trambui/portfolio-contact/internal/contact"
	"github.com/trambui/portfolio-contact/internal/logging"
	"github.com/trambui/portfolio-contact/internal/utils"

	"github.com/gin-gonic/gin"
)

// Submitter runs one submission through the contact pipeline.
type Submitter interface {
	Submit(ctx context.Context, sub contact.Submission) error
}

type ContactHandler struct {
	submitter Submitter
	logger    *logging.Logger
}

func NewContactHandler(submitter Submitter, logger *logging.Logger) *ContactHandler {
	return &ContactHandler{
		submitter: submitter,
		logger:    logger,
	}
}

// Submit accepts a JSON, urlencoded or multipart contact form.
func (h *ContactHandler) Submit(c *gin.Context) {
	var req contactdto.ContactRequest
	if err := c.ShouldBind(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			utils.HandleStatus(c, http.StatusRequestEntityTooLarge, middleware.MsgBodyTooLarge)
			return
		}
		utils.HandleAPIError(c, h.logger, contact.Wrap(contact.ErrMalformedRequest, err))
		return
	}

	if err := h.submitter.Submit(c.Request.Context(), req.ToSubmission(c.ClientIP())); err != nil {
		utils.HandleAPIError(c, h.logger, err)
		return
	}

	utils.HandleSuccess(c, contact.MsgSuccess)
}
