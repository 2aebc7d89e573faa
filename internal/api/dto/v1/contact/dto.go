package contact

import (
	"github.com/trambui/portfolio-contact/internal/contact"
)

// ContactRequest represents a contact form submission. The same tags serve
// JSON, urlencoded and multipart bodies. Fields are validated by the
// pipeline, not by binding tags, so missing values decode as empty strings.
type ContactRequest struct {
	Name              string `json:"name" form:"name"`
	Email             string `json:"email" form:"email"`
	Message           string `json:"message" form:"message"`
	RecaptchaResponse string `json:"g-recaptcha-response" form:"g-recaptcha-response"`
	// RecaptchaToken is accepted from clients that post the token under the
	// API-style name.
	RecaptchaToken string `json:"recaptcha_token" form:"recaptcha_token"`
}

// ToSubmission converts the request into a pipeline submission.
func (r ContactRequest) ToSubmission(remoteIP string) contact.Submission {
	token := r.RecaptchaResponse
	if token == "" {
		token = r.RecaptchaToken
	}
	return contact.Submission{
		Name:         r.Name,
		Email:        r.Email,
		Message:      r.Message,
		CaptchaToken: token,
		RemoteIP:     remoteIP,
	}
}
