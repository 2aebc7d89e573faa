package contact

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/trambui/portfolio-contact/internal/api/sanitization"
)

// Submission is one contact-form post as decoded from the request body.
// Missing fields are empty strings.
type Submission struct {
	Name         string
	Email        string
	Message      string
	CaptchaToken string
	RemoteIP     string
}

// Lead is a sanitized submission. Name, Email and Message are HTML-escaped
// and safe to embed in a body; Address is the trimmed, unescaped email used
// only in address headers.
type Lead struct {
	Name    string
	Email   string
	Message string
	Address string
}

// Email is a single outbound message. Values are never mutated after
// composition.
type Email struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

var validate = validator.New()

// Sanitize escapes the free-text fields of s and checks that every required
// value is present. It performs no I/O.
func Sanitize(s Submission) (Lead, error) {
	lead := Lead{
		Name:    sanitization.SanitizeName(s.Name),
		Email:   sanitization.SanitizeEmail(s.Email),
		Message: sanitization.SanitizeField(s.Message),
		Address: strings.TrimSpace(s.Email),
	}

	if lead.Name == "" || lead.Email == "" || lead.Message == "" {
		return Lead{}, ErrInvalidInput
	}
	if strings.TrimSpace(s.CaptchaToken) == "" {
		return Lead{}, ErrCaptchaRequired
	}
	if err := validate.Var(lead.Address, "required,email"); err != nil {
		return Lead{}, Wrap(ErrInvalidInput, err)
	}

	return lead, nil
}
