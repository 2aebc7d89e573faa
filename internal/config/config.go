package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/trambui/portfolio-contact/internal/contact"
	"github.com/trambui/portfolio-contact/internal/logging"
	"github.com/trambui/portfolio-contact/internal/service"
	"github.com/trambui/portfolio-contact/internal/telemetry"
)

// Config holds all configuration for the application
type Config struct {
	// Server Configuration
	Environment string `env:"ENV" envDefault:"development"`
	Port        string `env:"PORT" envDefault:"3000"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile     string `env:"LOG_FILE"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text"`
	LogRequests bool   `env:"LOG_REQUESTS" envDefault:"false"`

	// HTTP Configuration
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
	MaxBodyBytes   int64    `env:"MAX_BODY_BYTES" envDefault:"65536"`
	RateLimitRPS   float64  `env:"RATE_LIMIT_RPS" envDefault:"1"`
	RateLimitBurst int      `env:"RATE_LIMIT_BURST" envDefault:"5"`

	// SMTP Relay Configuration
	SMTPHost      string        `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort      int           `env:"SMTP_PORT" envDefault:"587"`
	SMTPTLSPolicy string        `env:"SMTP_TLS_POLICY" envDefault:"opportunistic"`
	SMTPTimeout   time.Duration `env:"SMTP_TIMEOUT" envDefault:"10s"`
	EmailUser     string        `env:"EMAIL_USER,required,notEmpty"`
	EmailPass     string        `env:"EMAIL_PASS,required,notEmpty,unset"`
	EmailTo       string        `env:"EMAIL_TO,required,notEmpty"`

	// Message Configuration
	SenderName       string `env:"SENDER_NAME" envDefault:"Tram Bui - Portfolio"`
	OwnerName        string `env:"OWNER_NAME" envDefault:"Tram Bui"`
	SendConfirmation bool   `env:"SEND_CONFIRMATION" envDefault:"true"`

	// reCAPTCHA Configuration
	RecaptchaSecret      string        `env:"RECAPTCHA_SECRET_KEY,required,notEmpty,unset"`
	RecaptchaVerifyURL   string        `env:"RECAPTCHA_VERIFY_URL" envDefault:"https://www.google.com/recaptcha/api/siteverify"`
	RecaptchaTimeout     time.Duration `env:"RECAPTCHA_TIMEOUT" envDefault:"5s"`
	RecaptchaMinScore    float64       `env:"RECAPTCHA_MIN_SCORE" envDefault:"0"`
	CaptchaFailurePolicy string        `env:"CAPTCHA_FAILURE_POLICY" envDefault:"closed"`

	// Telemetry Configuration
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `env:"OTEL_SERVICE_NAME" envDefault:"portfolio-contact"`
}

// Load loads the configuration from environment variables and .env files
func Load() (*Config, error) {
	// Outside production, a local .env supplies credentials. godotenv.Load
	// never overrides variables that are already set.
	if os.Getenv("ENV") != "production" {
		envLocations := []string{".env"}
		if envName := os.Getenv("ENV"); envName != "" {
			envLocations = append([]string{fmt.Sprintf(".env.%s", envName)}, envLocations...)
		}
		for _, loc := range envLocations {
			if err := godotenv.Load(loc); err == nil {
				break
			}
		}
	}

	return parse(env.Options{})
}

// FromMap parses configuration from the given variables only. Tests use it
// to avoid touching the process environment.
func FromMap(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that struct tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(strings.TrimPrefix(c.Port, ":")); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be a valid TCP port, got %q", c.Port))
	}
	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		errs = append(errs, fmt.Errorf("SMTP_PORT must be a valid TCP port, got %d", c.SMTPPort))
	}
	switch strings.ToLower(c.SMTPTLSPolicy) {
	case service.TLSPolicyMandatory, service.TLSPolicyOpportunistic, service.TLSPolicyImplicit, service.TLSPolicyNone:
	default:
		errs = append(errs, fmt.Errorf("SMTP_TLS_POLICY %q is not one of mandatory, opportunistic, implicit, none", c.SMTPTLSPolicy))
	}
	if c.SMTPTimeout <= 0 {
		errs = append(errs, errors.New("SMTP_TIMEOUT must be positive"))
	}
	if c.RecaptchaTimeout <= 0 {
		errs = append(errs, errors.New("RECAPTCHA_TIMEOUT must be positive"))
	}
	if c.RecaptchaMinScore < 0 || c.RecaptchaMinScore > 1 {
		errs = append(errs, fmt.Errorf("RECAPTCHA_MIN_SCORE must be between 0 and 1, got %v", c.RecaptchaMinScore))
	}
	if _, err := contact.ParseCaptchaPolicy(c.CaptchaFailurePolicy); err != nil {
		errs = append(errs, fmt.Errorf("CAPTCHA_FAILURE_POLICY: %w", err))
	}
	for _, proxy := range c.TrustedProxies {
		if !validProxy(proxy) {
			errs = append(errs, fmt.Errorf("TRUSTED_PROXIES entry %q is not an IP or CIDR", proxy))
		}
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("MAX_BODY_BYTES must be positive"))
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"))
	}
	if err := c.LogConfig().Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func validProxy(s string) bool {
	if _, _, err := net.ParseCIDR(s); err == nil {
		return true
	}
	return net.ParseIP(s) != nil
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// LogConfig derives the logger configuration.
func (c *Config) LogConfig() *logging.Config {
	return &logging.Config{
		Level:      strings.ToLower(c.LogLevel),
		Format:     strings.ToLower(c.LogFormat),
		File:       c.LogFile,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
		Requests:   c.LogRequests,
	}
}

// MailConfig derives the SMTP relay configuration.
func (c *Config) MailConfig() service.MailConfig {
	return service.MailConfig{
		Host:      c.SMTPHost,
		Port:      c.SMTPPort,
		Username:  c.EmailUser,
		Password:  c.EmailPass,
		TLSPolicy: c.SMTPTLSPolicy,
		Timeout:   c.SMTPTimeout,
	}
}

// RecaptchaConfig derives the CAPTCHA verifier configuration.
func (c *Config) RecaptchaConfig() service.RecaptchaConfig {
	return service.RecaptchaConfig{
		SecretKey: c.RecaptchaSecret,
		VerifyURL: c.RecaptchaVerifyURL,
		Timeout:   c.RecaptchaTimeout,
		MinScore:  c.RecaptchaMinScore,
	}
}

// ContactOptions derives the pipeline options.
func (c *Config) ContactOptions() contact.Options {
	return contact.Options{
		Composer:         contact.NewComposer(c.SenderName, c.EmailUser, c.EmailTo, c.OwnerName),
		SendConfirmation: c.SendConfirmation,
		CaptchaPolicy:    contact.CaptchaPolicy(c.CaptchaFailurePolicy),
	}
}

// Redacted returns a printable summary with secrets masked.
func (c *Config) Redacted() map[string]string {
	return map[string]string{
		"ENV":                    c.Environment,
		"PORT":                   c.Port,
		"SMTP_HOST":              c.SMTPHost,
		"SMTP_PORT":              strconv.Itoa(c.SMTPPort),
		"SMTP_TLS_POLICY":        c.SMTPTLSPolicy,
		"EMAIL_USER":             c.EmailUser,
		"EMAIL_PASS":             mask(c.EmailPass),
		"EMAIL_TO":               c.EmailTo,
		"SEND_CONFIRMATION":      strconv.FormatBool(c.SendConfirmation),
		"RECAPTCHA_SECRET_KEY":   mask(c.RecaptchaSecret),
		"RECAPTCHA_VERIFY_URL":   c.RecaptchaVerifyURL,
		"CAPTCHA_FAILURE_POLICY": c.CaptchaFailurePolicy,
		"ALLOWED_ORIGINS":        strings.Join(c.AllowedOrigins, ","),
		"TRUSTED_PROXIES":        strings.Join(c.TrustedProxies, ","),
	}
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "[MASKED]"
}

// TracingConfig derives the OpenTelemetry exporter configuration.
func (c *Config) TracingConfig() telemetry.TracingConfig {
	return telemetry.TracingConfig{
		ServiceName: c.ServiceName,
		Endpoint:    c.OTLPEndpoint,
		Environment: c.Environment,
	}
}
