package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/trambui/portfolio-contact/internal/contact"
	"github.com/trambui/portfolio-contact/internal/version"
)

// DefaultRecaptchaVerifyURL is Google's siteverify endpoint.
const DefaultRecaptchaVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// RecaptchaConfig configures a RecaptchaService.
type RecaptchaConfig struct {
	SecretKey string
	VerifyURL string
	Timeout   time.Duration
	// MinScore rejects v3 tokens scoring below it. Zero disables the check,
	// which is what v2 checkbox keys need since they report no score.
	MinScore float64
}

// RecaptchaService handles reCAPTCHA verification
type RecaptchaService struct {
	secretKey string
	verifyURL string
	minScore  float64
	client    *http.Client
}

// NewRecaptchaService creates a new reCAPTCHA service
func NewRecaptchaService(cfg RecaptchaConfig) (*RecaptchaService, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("reCAPTCHA secret key not configured")
	}
	if cfg.VerifyURL == "" {
		cfg.VerifyURL = DefaultRecaptchaVerifyURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	return &RecaptchaService{
		secretKey: cfg.SecretKey,
		verifyURL: cfg.VerifyURL,
		minScore:  cfg.MinScore,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

// recaptchaResponse represents the response from Google's reCAPTCHA API
type recaptchaResponse struct {
	Success     bool     `json:"success"`
	Score       float64  `json:"score"`
	Action      string   `json:"action"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes,omitempty"`
}

// Verify checks token with the provider. Transport failures and non-2xx
// replies match contact.ErrCaptchaUnavailable; anything the provider did not
// explicitly accept matches contact.ErrCaptchaRejected.
func (s *RecaptchaService) Verify(ctx context.Context, token, remoteIP string) error {
	if token == "" {
		return fmt.Errorf("%w: token is required", contact.ErrCaptchaRejected)
	}

	// Prepare the request
	data := url.Values{}
	data.Set("secret", s.secretKey)
	data.Set("response", token)
	if remoteIP != "" {
		data.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.verifyURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", contact.ErrCaptchaUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", version.UserAgent())

	// Send verification request
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to verify reCAPTCHA: %v", contact.ErrCaptchaUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: reCAPTCHA API returned status %d", contact.ErrCaptchaUnavailable, resp.StatusCode)
	}

	// Parse response
	var result recaptchaResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&result); err != nil {
		return fmt.Errorf("%w: failed to parse reCAPTCHA response: %v", contact.ErrCaptchaRejected, err)
	}

	// Check if verification was successful
	if !result.Success {
		return fmt.Errorf("%w: reCAPTCHA verification failed: %v", contact.ErrCaptchaRejected, result.ErrorCodes)
	}

	// Check score (for reCAPTCHA v3)
	if s.minScore > 0 && result.Score < s.minScore {
		return fmt.Errorf("%w: reCAPTCHA score too low: %.2f < %.2f", contact.ErrCaptchaRejected, result.Score, s.minScore)
	}

	return nil
}
