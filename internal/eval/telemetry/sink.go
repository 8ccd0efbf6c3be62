// Copyright (C) 2025 The Veribench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package telemetry exports scenario run outcomes to monitoring systems.
package telemetry

import (
	"context"
	"errors"

	"github.com/veribench/veribench/internal/eval"
)

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

var (
	// ErrNilContext is returned when a nil context is provided.
	ErrNilContext = errors.New("context must not be nil")

	// ErrNilReport is returned when a nil report is provided.
	ErrNilReport = errors.New("report must not be nil")

	// ErrSinkClosed is returned when attempting to use a closed sink.
	ErrSinkClosed = errors.New("sink has been closed")
)

// -----------------------------------------------------------------------------
// Interface
// -----------------------------------------------------------------------------

// Sink receives scenario run outcomes.
//
// Description:
//
//	Sink is the abstraction the benchmark runner records into after every
//	scenario run. Implementations handle the export format; recording
//	errors are advisory and never abort a run.
//
// Thread Safety: All implementations must be safe for concurrent use.
type Sink interface {
	// RecordRun records the outcome of one scenario run: pass/fail,
	// per-method durations and mismatch count.
	RecordRun(ctx context.Context, report *eval.Report) error

	// Flush ensures buffered data is exported. Called automatically on
	// Close, but can be invoked explicitly.
	Flush(ctx context.Context) error

	// Close flushes and releases resources. The sink is unusable after.
	Close() error
}

// -----------------------------------------------------------------------------
// Noop Sink
// -----------------------------------------------------------------------------

// NoopSink discards all telemetry. It is the runner default.
type NoopSink struct{}

// NewNoopSink creates a sink that discards everything.
func NewNoopSink() *NoopSink { return &NoopSink{} }

// RecordRun discards the report.
func (s *NoopSink) RecordRun(_ context.Context, _ *eval.Report) error { return nil }

// Flush does nothing.
func (s *NoopSink) Flush(_ context.Context) error { return nil }

// Close does nothing.
func (s *NoopSink) Close() error { return nil }
