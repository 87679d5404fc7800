// Package main implements the entry point for the lingua-api server, the
// backend for a spaced-repetition language learning application: accounts
// and sessions, course content, and answer evaluation with SM-2 scheduling.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/mpalmer-dev/lingua-api/internal/config"
	"github.com/mpalmer-dev/lingua-api/internal/platform/logger"
)

func main() {
	// A missing .env file is fine; real deployments configure through the
	// environment directly.
	_ = godotenv.Load()

	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	router := app.setupRouter()
	if err := app.startHTTPServer(context.Background(), router); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration, sets up logging and wires the
// application components.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	app, err := newApplication(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	return app, nil
}
