package contact

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/trambui/portfolio-contact/internal/logging"
)

// MailSender delivers one message through the relay.
type MailSender interface {
	Send(ctx context.Context, email Email) error
}

// CaptchaVerifier checks a client token with the CAPTCHA provider. It returns
// an error matching ErrCaptchaRejected when the provider does not report
// success and ErrCaptchaUnavailable when the provider cannot be reached.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// Recorder observes pipeline outcomes. A nil Recorder is allowed.
type Recorder interface {
	Submission(kind Kind)
	Dispatch(message string, elapsed time.Duration, err error)
}

// CaptchaPolicy decides what happens when the CAPTCHA provider is unreachable.
type CaptchaPolicy string

const (
	// FailClosed rejects the submission.
	FailClosed CaptchaPolicy = "closed"
	// FailOpen logs the outage and sends the mail anyway.
	FailOpen CaptchaPolicy = "open"
)

// ParseCaptchaPolicy validates a policy name.
func ParseCaptchaPolicy(s string) (CaptchaPolicy, error) {
	switch CaptchaPolicy(s) {
	case FailClosed, FailOpen:
		return CaptchaPolicy(s), nil
	default:
		return "", fmt.Errorf("unknown captcha failure policy %q (want %q or %q)", s, FailClosed, FailOpen)
	}
}

// Options configures a Service.
type Options struct {
	Composer         Composer
	SendConfirmation bool
	CaptchaPolicy    CaptchaPolicy
}

// Service runs the submission pipeline: sanitize, validate, verify the
// CAPTCHA, then send the alert and the optional confirmation in order.
type Service struct {
	captcha  CaptchaVerifier
	mail     MailSender
	opts     Options
	logger   *logging.Logger
	recorder Recorder
	tracer   trace.Tracer
}

// Option customizes a Service.
type Option func(*Service)

// WithRecorder attaches an outcome recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// NewService wires the pipeline to its collaborators.
func NewService(captcha CaptchaVerifier, mail MailSender, opts Options, logger *logging.Logger, options ...Option) (*Service, error) {
	if captcha == nil {
		return nil, errors.New("contact: captcha verifier is required")
	}
	if mail == nil {
		return nil, errors.New("contact: mail sender is required")
	}
	if opts.Composer.AlertTo == "" {
		return nil, errors.New("contact: alert recipient is required")
	}
	if opts.CaptchaPolicy == "" {
		opts.CaptchaPolicy = FailClosed
	}
	if _, err := ParseCaptchaPolicy(string(opts.CaptchaPolicy)); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Nop()
	}

	s := &Service{
		captcha: captcha,
		mail:    mail,
		opts:    opts,
		logger:  logger,
		tracer:  otel.Tracer("github.com/trambui/portfolio-contact/internal/contact"),
	}
	for _, o := range options {
		o(s)
	}
	return s, nil
}

// Submit processes one submission. The returned error, if any, is a *Error
// suitable for StatusCode and PublicMessage.
func (s *Service) Submit(ctx context.Context, sub Submission) (err error) {
	ctx, span := s.tracer.Start(ctx, "contact.Submit")
	defer func() {
		kind := KindOf(err)
		if s.recorder != nil {
			s.recorder.Submission(kind)
		}
		if err != nil {
			span.SetStatus(codes.Error, string(kind))
			span.RecordError(err)
		}
		span.End()
	}()

	lead, err := Sanitize(sub)
	if err != nil {
		return err
	}

	if err := s.verifyCaptcha(ctx, sub, lead); err != nil {
		return err
	}

	alert, err := s.opts.Composer.Alert(lead)
	if err != nil {
		return Wrap(ErrDispatch, err)
	}
	if err := s.dispatch(ctx, "alert", alert); err != nil {
		return err
	}

	if !s.opts.SendConfirmation {
		return nil
	}

	confirmation, err := s.opts.Composer.Confirmation(lead)
	if err != nil {
		return Wrap(ErrDispatch, err)
	}
	return s.dispatch(ctx, "confirmation", confirmation)
}

func (s *Service) verifyCaptcha(ctx context.Context, sub Submission, lead Lead) error {
	ctx, span := s.tracer.Start(ctx, "contact.VerifyCaptcha")
	defer span.End()

	err := s.captcha.Verify(ctx, sub.CaptchaToken, sub.RemoteIP)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrCaptchaUnavailable):
		if s.opts.CaptchaPolicy == FailOpen {
			s.logger.Warn("CAPTCHA network error, continuing without verification: %v", err)
			span.SetAttributes(attribute.Bool("captcha.fail_open", true))
			return nil
		}
		s.logger.Error("CAPTCHA network error: %v", err)
		return Wrap(ErrCaptchaUnavailable, err)
	case errors.Is(err, ErrCaptchaRejected):
		s.logger.Warn("CAPTCHA FAILED for email: %s: %v", lead.Email, err)
		return Wrap(ErrCaptchaRejected, err)
	default:
		// Verifiers outside this package may not classify their errors.
		s.logger.Warn("CAPTCHA FAILED for email: %s: %v", lead.Email, err)
		return Wrap(ErrCaptchaRejected, err)
	}
}

func (s *Service) dispatch(ctx context.Context, message string, email Email) error {
	ctx, span := s.tracer.Start(ctx, "contact.Dispatch", trace.WithAttributes(attribute.String("mail.message", message)))
	defer span.End()

	start := time.Now()
	err := s.mail.Send(ctx, email)
	if s.recorder != nil {
		s.recorder.Dispatch(message, time.Since(start), err)
	}
	if err != nil {
		s.logger.Error("CRITICAL: %s email send failed (SMTP/Network Error): %v", message, err)
		span.SetStatus(codes.Error, "send failed")
		return Wrap(ErrDispatch, fmt.Errorf("send %s: %w", message, err))
	}
	s.logger.Info("%s email sent", message)
	return nil
}
