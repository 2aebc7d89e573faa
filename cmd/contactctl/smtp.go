package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/trambui/portfolio-contact/internal/contact"
	"github.com/trambui/portfolio-contact/internal/service"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var checkSMTPCmd = &cobra.Command{
	Use:   "check-smtp",
	Short: "Connect and authenticate against the SMTP relay",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		mailer, err := service.NewMailService(cfg.MailConfig())
		if err != nil {
			logger.Error("Invalid SMTP configuration: %v", err)
			os.Exit(1)
		}

		s := spinner.New(spinner.CharSets[14], 120*time.Millisecond)
		s.Suffix = fmt.Sprintf(" Connecting to %s:%d...", cfg.SMTPHost, cfg.SMTPPort)
		s.Start()
		err = mailer.Ping(context.Background())
		s.Stop()

		if err != nil {
			logger.Error("SMTP relay check failed: %v", err)
			os.Exit(1)
		}
		fmt.Printf("✅ Authenticated with %s as %s\n", mailer.Host(), cfg.EmailUser)
	},
}

var sendTestCmd = &cobra.Command{
	Use:   "send-test",
	Short: "Send one test alert through the real relay",
	Long: `Compose a lead alert from a fixed test submission and send it through the
configured relay. No CAPTCHA check is made and no confirmation is sent.

Example:
  contactctl send-test
  contactctl send-test --to someone@example.com`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		to, _ := cmd.Flags().GetString("to")

		mailer, err := service.NewMailService(cfg.MailConfig())
		if err != nil {
			logger.Error("Invalid SMTP configuration: %v", err)
			os.Exit(1)
		}

		lead, err := contact.Sanitize(contact.Submission{
			Name:         "contactctl",
			Email:        cfg.EmailUser,
			Message:      "Test message sent by contactctl send-test.",
			CaptchaToken: "contactctl",
		})
		if err != nil {
			logger.Error("Failed to build test lead: %v", err)
			os.Exit(1)
		}

		composer := cfg.ContactOptions().Composer
		if to != "" {
			composer.AlertTo = to
		}
		email, err := composer.Alert(lead)
		if err != nil {
			logger.Error("Failed to compose test alert: %v", err)
			os.Exit(1)
		}

		s := spinner.New(spinner.CharSets[14], 120*time.Millisecond)
		s.Suffix = fmt.Sprintf(" Sending test alert to %s...", email.To)
		s.Start()
		err = mailer.Send(context.Background(), email)
		s.Stop()

		if err != nil {
			logger.Error("Failed to send test alert: %v", err)
			os.Exit(1)
		}
		fmt.Printf("✅ Test alert sent to %s\n", email.To)
	},
}
