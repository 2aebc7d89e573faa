package main

import (
	"fmt"
	"os"

	"github.com/trambui/portfolio-contact/internal/config"
	"github.com/trambui/portfolio-contact/internal/logging"
	"github.com/trambui/portfolio-contact/internal/version"

	"github.com/spf13/cobra"
)

var logger *logging.Logger

func initLogger() {
	var err error
	logger, err = logging.NewLogger(&logging.Config{
		Level:  logging.LevelInfo,
		Format: logging.FormatText,
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads and validates the environment or exits.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Error loading config: %v", err)
		os.Exit(1)
	}
	return cfg
}

var rootCmd = &cobra.Command{
	Use:   "contactctl",
	Short: "Operator tools for the portfolio contact service",
	Long: `contactctl checks the contact service configuration and its SMTP relay
without going through the public form.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		info := version.GetBuildInfo()
		fmt.Printf("contactctl %s\n", version.Info())
		fmt.Printf("  Go version: %s\n", info.GoVersion)
		fmt.Printf("  Platform:   %s\n", info.Platform)
	},
}

func init() {
	initLogger()

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(checkConfigCmd)
	rootCmd.AddCommand(checkSMTPCmd)
	rootCmd.AddCommand(sendTestCmd)

	sendTestCmd.Flags().String("to", "", "Recipient for the test alert (default: EMAIL_TO)")
}

func main() {
	defer logger.Close()

	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}
