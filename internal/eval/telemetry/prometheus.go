// Copyright (C) 2025 The Veribench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package telemetry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/veribench/veribench/internal/eval"
)

var (
	// ErrInvalidConfig is returned when the Prometheus configuration is invalid.
	ErrInvalidConfig = errors.New("invalid prometheus configuration")

	// ErrRegistrationFailed is returned when metric registration fails.
	ErrRegistrationFailed = errors.New("metric registration failed")
)

// -----------------------------------------------------------------------------
// Configuration
// -----------------------------------------------------------------------------

// PrometheusConfig configures the Prometheus sink.
//
// Thread Safety: Immutable after creation; safe for concurrent read access.
type PrometheusConfig struct {
	// Namespace is the metrics namespace (e.g. "veribench"). Required.
	Namespace string

	// Subsystem is the metrics subsystem (e.g. "scenario"). Required.
	Subsystem string

	// Registry is the Prometheus registry to use.
	// If nil, uses prometheus.DefaultRegisterer.
	Registry prometheus.Registerer

	// DurationBuckets defines histogram buckets for method durations
	// (seconds). If nil, sensible micro-benchmark defaults are used.
	DurationBuckets []float64
}

// DefaultPrometheusConfig returns a configuration with sensible defaults.
func DefaultPrometheusConfig() *PrometheusConfig {
	return &PrometheusConfig{
		Namespace: "veribench",
		Subsystem: "scenario",
		DurationBuckets: []float64{
			0.000001, 0.00001, 0.0001, 0.001, 0.01, 0.1, 1, 10,
		},
	}
}

// Validate checks the configuration.
func (c *PrometheusConfig) Validate() error {
	if c.Namespace == "" {
		return fmt.Errorf("%w: namespace is required", ErrInvalidConfig)
	}
	if c.Subsystem == "" {
		return fmt.Errorf("%w: subsystem is required", ErrInvalidConfig)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Prometheus Sink
// -----------------------------------------------------------------------------

// PrometheusSink exports scenario outcomes as Prometheus metrics.
//
// Description:
//
//	Exposes a runs_total counter labelled by scenario and outcome, a
//	mismatches_total counter, and a method_duration_seconds histogram
//	labelled by scenario and method.
//
// Thread Safety: Safe for concurrent use.
type PrometheusSink struct {
	mu     sync.RWMutex
	closed bool

	runsTotal       *prometheus.CounterVec
	mismatchesTotal *prometheus.CounterVec
	methodDuration  *prometheus.HistogramVec
}

// NewPrometheusSink creates and registers the sink's metrics.
//
// Inputs:
//   - config: Sink configuration. If nil, defaults are used.
//
// Outputs:
//   - *PrometheusSink: The new sink.
//   - error: Non-nil if the config is invalid or registration fails.
func NewPrometheusSink(config *PrometheusConfig) (*PrometheusSink, error) {
	if config == nil {
		config = DefaultPrometheusConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	registerer := config.Registry
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	buckets := config.DurationBuckets
	if buckets == nil {
		buckets = DefaultPrometheusConfig().DurationBuckets
	}

	s := &PrometheusSink{
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "runs_total",
			Help:      "Scenario runs by verification outcome.",
		}, []string{"scenario", "outcome"}),
		mismatchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "mismatches_total",
			Help:      "Disagreeing method pairs observed per scenario.",
		}, []string{"scenario"}),
		methodDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "method_duration_seconds",
			Help:      "Wall-clock duration of a single method execution.",
			Buckets:   buckets,
		}, []string{"scenario", "method"}),
	}

	for _, c := range []prometheus.Collector{s.runsTotal, s.mismatchesTotal, s.methodDuration} {
		if err := registerer.Register(c); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRegistrationFailed, err)
		}
	}

	return s, nil
}

// RecordRun records the outcome of one scenario run.
//
// Thread Safety: Safe for concurrent use.
func (s *PrometheusSink) RecordRun(ctx context.Context, report *eval.Report) error {
	if ctx == nil {
		return ErrNilContext
	}
	if report == nil {
		return ErrNilReport
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrSinkClosed
	}

	outcome := "pass"
	if !report.Passed() {
		outcome = "fail"
	}
	s.runsTotal.WithLabelValues(report.Scenario, outcome).Inc()

	if n := len(report.Verification.Mismatches); n > 0 {
		s.mismatchesTotal.WithLabelValues(report.Scenario).Add(float64(n))
	}

	for _, mr := range report.Methods {
		s.methodDuration.WithLabelValues(report.Scenario, mr.Method).Observe(mr.Duration.Seconds())
	}

	return nil
}

// Flush is a no-op; Prometheus metrics are pull-based.
func (s *PrometheusSink) Flush(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrSinkClosed
	}
	return nil
}

// Close marks the sink closed. Subsequent records fail with ErrSinkClosed.
func (s *PrometheusSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
