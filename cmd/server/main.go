// Package main is the entry point for the mini diary server.
//
// The main package stays small. Its job is to:
// 1. Load configuration (.env file, then the real environment)
// 2. Build the logger
// 3. Hand both to internal/server and block until shutdown
//
// Storage, image handling and routing all live under internal/.
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/sakif/mini-diary/internal/config"
	"github.com/sakif/mini-diary/internal/server"
)

func main() {
	// === 1. LOAD .env ===
	// Optional in every environment. godotenv never overrides variables that
	// are already set, so the real environment always wins.
	envErr := godotenv.Load()

	// === 2. READ CONFIGURATION ===
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 3. SET UP LOGGING ===
	// Text logs for a terminal in development, JSON for log collectors in
	// production.
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if envErr != nil && !os.IsNotExist(envErr) {
		logger.Warn("could not read .env file", slog.String("error", envErr.Error()))
	}

	// === 4. CREATE AND START THE SERVER ===
	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	// LOG_LEVEL was validated by config.Load, so UnmarshalText cannot fail here.
	_ = level.UnmarshalText([]byte(cfg.LogLevel))

	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
