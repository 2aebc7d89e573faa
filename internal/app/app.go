package app

import (
	"context"
	"fmt"

	"github.com/trambui/portfolio-contact/internal/api/middleware"
	"github.com/trambui/portfolio-contact/internal/config"
	"github.com/trambui/portfolio-contact/internal/contact"
	"github.com/trambui/portfolio-contact/internal/logging"
	"github.com/trambui/portfolio-contact/internal/server"
	"github.com/trambui/portfolio-contact/internal/service"
	"github.com/trambui/portfolio-contact/internal/telemetry"
)

// Dependencies holds everything built once per process and shared by every
// request.
type Dependencies struct {
	Config    *config.Config
	Logger    *logging.Logger
	Mailer    *service.MailService
	Recaptcha *service.RecaptchaService
	Metrics   *telemetry.Metrics
	Contact   *contact.Service
	Server    *server.Server

	shutdownTracer func(context.Context) error
}

// Build wires the pipeline, its collaborators and the HTTP engine.
func Build(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*Dependencies, error) {
	shutdown, err := telemetry.InitTracer(ctx, cfg.TracingConfig())
	if err != nil {
		return nil, fmt.Errorf("initialise tracing: %w", err)
	}

	mailer, err := service.NewMailService(cfg.MailConfig())
	if err != nil {
		return nil, fmt.Errorf("initialise mailer: %w", err)
	}

	recaptcha, err := service.NewRecaptchaService(cfg.RecaptchaConfig())
	if err != nil {
		return nil, fmt.Errorf("initialise reCAPTCHA: %w", err)
	}

	metrics, err := telemetry.NewMetrics()
	if err != nil {
		return nil, fmt.Errorf("initialise metrics: %w", err)
	}

	svc, err := contact.NewService(recaptcha, mailer, cfg.ContactOptions(), logger, contact.WithRecorder(metrics))
	if err != nil {
		return nil, fmt.Errorf("initialise contact service: %w", err)
	}

	srv, err := server.NewServer(server.Config{
		Addr:           cfg.HTTPAddr(),
		AllowedOrigins: cfg.AllowedOrigins,
		Development:    !cfg.IsProduction(),
		MaxBodyBytes:   cfg.MaxBodyBytes,
		TrustedProxies: cfg.TrustedProxies,
		RateLimit: middleware.RateLimitConfig{
			RPS:   cfg.RateLimitRPS,
			Burst: cfg.RateLimitBurst,
		},
		Tracing:     cfg.TracingConfig().Enabled(),
		ServiceName: cfg.ServiceName,
	}, svc, metrics, logger)
	if err != nil {
		return nil, fmt.Errorf("initialise HTTP server: %w", err)
	}

	logger.Info("Contact pipeline ready (relay=%s, confirmation=%t, captcha_policy=%s)",
		mailer.Host(), cfg.SendConfirmation, cfg.CaptchaFailurePolicy)

	return &Dependencies{
		Config:         cfg,
		Logger:         logger,
		Mailer:         mailer,
		Recaptcha:      recaptcha,
		Metrics:        metrics,
		Contact:        svc,
		Server:         srv,
		shutdownTracer: shutdown,
	}, nil
}

// Close flushes pending spans.
func (d *Dependencies) Close(ctx context.Context) error {
	if d.shutdownTracer == nil {
		return nil
	}
	return d.shutdownTracer(ctx)
}
