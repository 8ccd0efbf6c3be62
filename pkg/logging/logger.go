// Copyright (C) 2025 The Veribench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package logging provides structured logging for veribench components.
//
// The package wraps the standard library slog with the small amount of
// policy this CLI needs: a parseable level type, stderr output by default
// (stdout is reserved for benchmark reports), optional JSON format for
// machine consumption, and a quiet mode for scripted runs.
//
// Basic usage:
//
//	logger := logging.New(logging.Config{Level: logging.LevelDebug})
//	logger.Info("starting run", "scenarios", 10)
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// =============================================================================
// Log Levels
// =============================================================================

// Level represents log severity, ordered Debug < Info < Warn < Error.
// Setting a minimum level filters out everything below it.
type Level int

const (
	// LevelDebug is for development troubleshooting.
	LevelDebug Level = iota

	// LevelInfo is for normal operational messages.
	LevelInfo

	// LevelWarn is for recoverable, unexpected situations.
	LevelWarn

	// LevelError is for failed operations the system survives.
	LevelError
)

// String returns "DEBUG", "INFO", "WARN", "ERROR" or "UNKNOWN".
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// toSlogLevel bridges Level to the standard library.
func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel converts a flag value ("debug", "info", "warn", "error",
// case-insensitive) to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// =============================================================================
// Configuration
// =============================================================================

// Config configures logger construction. The zero value creates a logger
// writing Info+ messages to stderr in text format.
type Config struct {
	// Level sets the minimum log level. Default: LevelInfo.
	Level Level

	// JSON enables JSON output format for machine processing.
	// Default: false (human-readable text).
	JSON bool

	// Quiet discards all log output. Benchmark reports on stdout are
	// unaffected. Default: false.
	Quiet bool

	// Writer overrides the output destination. Default: os.Stderr.
	// Primarily for tests.
	Writer io.Writer
}

// =============================================================================
// Construction
// =============================================================================

// New creates a logger from the given configuration.
//
// Outputs:
//   - *slog.Logger: The configured logger. Never nil.
func New(cfg Config) *slog.Logger {
	var w io.Writer = os.Stderr
	if cfg.Writer != nil {
		w = cfg.Writer
	}
	if cfg.Quiet {
		w = io.Discard
	}

	opts := &slog.HandlerOptions{Level: cfg.Level.toSlogLevel()}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// Default returns a logger with the zero configuration: Info level,
// text format, stderr.
func Default() *slog.Logger {
	return New(Config{})
}
