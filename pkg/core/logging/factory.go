// ============================================================================
// mTix - Concert ticketing client
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating injected structured loggers
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"log/slog"
	"os"
)

// Config holds configuration for creating loggers
type Config struct {
	// Name is attached to every record as "service"
	Name string

	// Level (debug, info, warn, error)
	Level string

	// Format is "json" or "text" (default: text)
	Format string

	// Output defaults to stderr
	Output io.Writer
}

// DefaultConfig returns a default configuration
func DefaultConfig(name string) Config {
	return Config{
		Name:   name,
		Level:  "info",
		Format: "text",
	}
}

// New creates a logger for one client or server instance. There is no
// package-level logger; callers pass the result down through constructors.
func New(cfg Config) *slog.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level).slogLevel()}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	logger := slog.New(handler)
	if cfg.Name != "" {
		logger = logger.With("service", cfg.Name)
	}
	return logger
}

// Discard returns a logger that drops every record
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// Component scopes a logger to a named component. A nil logger yields Discard().
func Component(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		logger = Discard()
	}
	return logger.With("component", name)
}
