// Command netlify is the Netlify Functions entry point. Build it as
// netlify/functions/send-email so the form action
// /.netlify/functions/send-email reaches it.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/trambui/portfolio-contact/internal/app"
	"github.com/trambui/portfolio-contact/internal/config"
	"github.com/trambui/portfolio-contact/internal/logging"
	"github.com/trambui/portfolio-contact/internal/netlify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Function logs are collected from stdout; no file rotation here.
	logCfg := cfg.LogConfig()
	logCfg.File = ""
	logCfg.Format = logging.FormatJSON
	logger, err := logging.NewLogger(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	deps, err := app.Build(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize service: %v", err)
		os.Exit(1)
	}

	lambda.Start(netlify.NewHandler(deps.Server.Router()).Handle)
}
