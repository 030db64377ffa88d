// Package main implements the interactive stocktake inventory session.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/abgdnv/stocktake/internal/app"
	"github.com/abgdnv/stocktake/internal/config"
	"github.com/google/uuid"
)

func main() {
	// Load configuration
	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		log.Fatalf("Error loading configuration: %v", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	// Set up structured logging
	logLevel, logger, closeLog := newLogger(cfg)
	defer closeLog()
	logger.Info("Stocktake starting...", "config_log_level", cfg.Log.Level, "actual_slog_level", logLevel.String())

	// SIGINT or SIGTERM ends the session between menu iterations
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := app.SetupDependencies(cfg, os.Stdin, os.Stdout, logger)

	if err := deps.LoadInventory(); err != nil {
		logger.Error("Error loading inventory", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := deps.Menu.Run(ctx); err != nil {
		logger.Error("Session ended with input error", "error", err)
	}

	// The session exits through a single save; in-memory state is not rolled
	// back when it fails.
	if err := deps.SaveInventory(); err != nil {
		logger.Error("Error saving inventory", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("Stocktake finished")
}

// newLogger builds the session logger. Output goes to the configured log file
// because the menu owns stdout; an empty path or an unopenable file falls back
// to stderr. Every record carries the session id.
func newLogger(cfg *config.Config) (slog.Level, *slog.Logger, func()) {
	logLevel := toLevel(cfg.Log.Level)
	loggerOpts := &slog.HandlerOptions{
		AddSource: logLevel == slog.LevelDebug,
		Level:     logLevel,
	}
	out := io.Writer(os.Stderr)
	closeLog := func() {}
	if cfg.Log.File != "" {
		logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Printf("WARN: cannot open log file '%s', logging to stderr: %v", cfg.Log.File, err)
		} else {
			out = logFile
			closeLog = func() { _ = logFile.Close() }
		}
	}
	logHandler := slog.NewJSONHandler(out, loggerOpts)
	logger := slog.New(logHandler).With("session_id", uuid.NewString())
	return logLevel, logger, closeLog
}

// toLevel converts a string representation of a log level to slog.Level.
func toLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
