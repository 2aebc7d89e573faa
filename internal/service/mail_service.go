package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/trambui/portfolio-contact/internal/contact"
	"github.com/trambui/portfolio-contact/internal/version"
)

// TLS policies accepted in MailConfig.TLSPolicy.
const (
	TLSPolicyMandatory     = "mandatory"
	TLSPolicyOpportunistic = "opportunistic"
	TLSPolicyImplicit      = "implicit"
	TLSPolicyNone          = "none"
)

// MailConfig describes the SMTP relay. It is read once at startup.
type MailConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	TLSPolicy string
	Timeout   time.Duration
}

// MailService sends contact emails through an authenticated SMTP relay.
// The relay options are immutable; every Send dials its own connection so
// concurrent requests never share SMTP state.
type MailService struct {
	host    string
	options []mail.Option
	timeout time.Duration
}

// NewMailService validates cfg and prepares the relay options.
func NewMailService(cfg MailConfig) (*MailService, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host not configured")
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("SMTP credentials not configured")
	}
	if cfg.Port <= 0 {
		cfg.Port = 587
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	options := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTimeout(cfg.Timeout),
	}

	switch strings.ToLower(cfg.TLSPolicy) {
	case "", TLSPolicyOpportunistic:
		options = append(options, mail.WithTLSPolicy(mail.TLSOpportunistic))
	case TLSPolicyMandatory:
		options = append(options, mail.WithTLSPolicy(mail.TLSMandatory))
	case TLSPolicyImplicit:
		options = append(options, mail.WithSSL())
	case TLSPolicyNone:
		options = append(options, mail.WithTLSPolicy(mail.NoTLS))
	default:
		return nil, fmt.Errorf("unknown SMTP TLS policy %q", cfg.TLSPolicy)
	}

	// Fail fast on options the library rejects.
	if _, err := mail.NewClient(cfg.Host, options...); err != nil {
		return nil, fmt.Errorf("failed to configure SMTP client: %w", err)
	}

	return &MailService{
		host:    cfg.Host,
		options: options,
		timeout: cfg.Timeout,
	}, nil
}

// Send delivers email, bounded by the configured timeout.
func (s *MailService) Send(ctx context.Context, email contact.Email) error {
	msg, err := buildMessage(email)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.host, s.options...)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail via %s: %w", s.host, err)
	}
	return nil
}

// Ping connects and authenticates against the relay without sending.
func (s *MailService) Ping(ctx context.Context) error {
	client, err := mail.NewClient(s.host, s.options...)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to %s: %w", s.host, err)
	}
	return client.Close()
}

// Host returns the relay host name.
func (s *MailService) Host() string {
	return s.host
}

func buildMessage(email contact.Email) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(email.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", email.From, err)
	}
	if err := msg.To(email.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", email.To, err)
	}
	if email.ReplyTo != "" {
		if err := msg.ReplyTo(email.ReplyTo); err != nil {
			return nil, fmt.Errorf("invalid reply-to %q: %w", email.ReplyTo, err)
		}
	}
	msg.Subject(email.Subject)
	msg.SetDate()
	msg.SetMessageID()
	msg.SetUserAgent(version.UserAgent())
	msg.SetBodyString(mail.TypeTextHTML, email.HTML)
	return msg, nil
}
