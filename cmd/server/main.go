package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/trambui/portfolio-contact/internal/app"
	"github.com/trambui/portfolio-contact/internal/config"
	"github.com/trambui/portfolio-contact/internal/logging"
	"github.com/trambui/portfolio-contact/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.LogConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	logger.Info("Starting portfolio contact service %s in %s mode", version.Info(), cfg.Environment)

	deps, err := app.Build(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize service: %v", err)
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- deps.Server.Start()
	}()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Received signal %v, shutting down", sig)
	case err := <-errCh:
		if err != nil {
			logger.Error("Failed to start server: %v", err)
			os.Exit(1)
		}
	}

	// SMTP_TIMEOUT bounds each send; allow the alert and confirmation of an
	// in-flight request to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.SMTPTimeout+5*time.Second)
	defer cancel()

	if err := deps.Server.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
	if err := deps.Close(ctx); err != nil {
		logger.Error("Failed to flush traces: %v", err)
	}
	logger.Info("Server stopped")
}
