// Copyright (C) 2025 The Veribench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package benchmark executes self-verifying benchmark scenarios.
//
// A scenario run executes every method exactly once against a private copy
// of the scenario input, captures each output and its wall-clock duration,
// and cross-checks the outputs: pairwise exact equality when the scenario
// has two or more methods, the scenario's named postcondition when it has
// one. Verification failures are reported, never fatal; method errors fail
// the run closed.
package benchmark

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/veribench/veribench/internal/eval"
	"github.com/veribench/veribench/internal/eval/telemetry"
)

const tracerName = "veribench.eval.benchmark"

var (
	// ErrInvalidConfig is returned when the run configuration is invalid.
	ErrInvalidConfig = errors.New("invalid benchmark configuration")

	// ErrMethodFailed is returned when a method raises an unexpected
	// error. The runner fails closed: the error is surfaced and no
	// default result is substituted.
	ErrMethodFailed = errors.New("method execution failed")
)

// -----------------------------------------------------------------------------
// Configuration
// -----------------------------------------------------------------------------

// Config controls a scenario run.
//
// Each method runs exactly once; there is no warmup, no repetition and no
// statistical aggregation. Timing exists purely as an external observation
// around the single execution.
type Config struct {
	// Timeout bounds the whole scenario run.
	Timeout time.Duration

	// MethodTimeout bounds a single method execution.
	MethodTimeout time.Duration
}

// DefaultConfig returns the default run configuration.
func DefaultConfig() *Config {
	return &Config{
		Timeout:       5 * time.Minute,
		MethodTimeout: time.Minute,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	if c.MethodTimeout <= 0 {
		return fmt.Errorf("%w: method timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// RunOption configures a scenario run. Options are applied in order, so
// later options override earlier ones.
type RunOption func(*Config)

// WithTimeout sets the total run timeout.
// Non-positive values are ignored.
func WithTimeout(d time.Duration) RunOption {
	return func(c *Config) {
		if d > 0 {
			c.Timeout = d
		}
	}
}

// WithMethodTimeout sets the per-method timeout.
// Non-positive values are ignored.
func WithMethodTimeout(d time.Duration) RunOption {
	return func(c *Config) {
		if d > 0 {
			c.MethodTimeout = d
		}
	}
}

// -----------------------------------------------------------------------------
// Runner
// -----------------------------------------------------------------------------

// Runner executes scenarios from a registry.
//
// Thread Safety: Safe for concurrent use.
type Runner struct {
	registry *eval.Registry
	logger   *slog.Logger
	sink     telemetry.Sink
}

// NewRunner creates a new benchmark runner.
//
// Description:
//
//	The runner executes scenarios from the given registry. It uses
//	slog.Default() for logging and a noop telemetry sink; use SetLogger
//	and SetSink to override.
//
// Inputs:
//   - registry: The scenario registry. Must not be nil.
//
// Outputs:
//   - *Runner: The new runner. Never nil.
func NewRunner(registry *eval.Registry) *Runner {
	return &Runner{
		registry: registry,
		logger:   slog.Default(),
		sink:     telemetry.NewNoopSink(),
	}
}

// SetLogger sets the logger for the runner. Nil values are ignored.
func (r *Runner) SetLogger(logger *slog.Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// SetSink sets the telemetry sink. Nil values are ignored.
func (r *Runner) SetSink(sink telemetry.Sink) {
	if sink != nil {
		r.sink = sink
	}
}

// Run executes a single scenario.
//
// Description:
//
//	Executes every method of the scenario in declared order, exactly once
//	each, against a clone of the scenario input so mutating methods never
//	observe each other. Captures each output and duration, then
//	cross-checks the outputs. A verification failure is recorded in the
//	report, not returned as an error; a method error aborts the run.
//
// Inputs:
//   - ctx: Context for cancellation and timeout. Must not be nil.
//   - name: The registered scenario name.
//   - opts: Optional configuration options.
//
// Outputs:
//   - *eval.Report: The run report. Never nil on success.
//   - error: Non-nil if the scenario is unknown, its input is invalid,
//     or a method failed.
//
// Thread Safety: Safe for concurrent use.
func (r *Runner) Run(ctx context.Context, name string, opts ...RunOption) (*eval.Report, error) {
	if ctx == nil {
		return nil, errors.New("context must not be nil")
	}

	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "benchmark.Runner.Run",
		trace.WithAttributes(
			attribute.String("scenario.name", name),
		),
	)
	defer span.End()

	scenario, ok := r.registry.Get(name)
	if !ok {
		span.RecordError(eval.ErrNotFound)
		span.SetStatus(codes.Error, "scenario not found")
		return nil, fmt.Errorf("getting scenario %s: %w", name, eval.ErrNotFound)
	}

	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}
	if err := config.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid config")
		return nil, err
	}

	input := scenario.Input()
	if input.N < 0 {
		err := fmt.Errorf("%w: %s: negative scale %d", eval.ErrInvalidInput, name, input.N)
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid input")
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("scenario.input", input.N),
		attribute.Int("scenario.methods", len(scenario.Methods())),
	)

	ctx, cancel := context.WithTimeout(ctx, config.Timeout)
	defer cancel()

	report := &eval.Report{
		Scenario:  name,
		RunID:     uuid.NewString(),
		Input:     input,
		Timestamp: time.Now(),
	}

	start := time.Now()
	for _, method := range scenario.Methods() {
		select {
		case <-ctx.Done():
			span.RecordError(ctx.Err())
			span.SetStatus(codes.Error, "run interrupted")
			return nil, fmt.Errorf("running %s: %w", name, ctx.Err())
		default:
		}

		result, err := r.runMethod(ctx, method, input, config.MethodTimeout)
		if err != nil {
			// Fail closed: surface the error, substitute nothing.
			span.RecordError(err)
			span.SetStatus(codes.Error, "method failed")
			return nil, fmt.Errorf("%w: %s.%s: %v", ErrMethodFailed, name, method.Name, err)
		}
		report.Methods = append(report.Methods, result)
	}
	report.Duration = time.Since(start)

	report.Verification = Verify(scenario, report.Methods)

	if err := r.sink.RecordRun(ctx, report); err != nil {
		r.logger.Warn("telemetry record failed",
			slog.String("scenario", name),
			slog.String("error", err.Error()),
		)
	}

	r.logger.Debug("scenario run complete",
		slog.String("scenario", name),
		slog.String("run_id", report.RunID),
		slog.Bool("match", report.Verification.Match),
		slog.Duration("duration", report.Duration),
	)

	span.SetAttributes(
		attribute.Bool("scenario.match", report.Verification.Match),
		attribute.Int("scenario.mismatches", len(report.Verification.Mismatches)),
		attribute.Int64("scenario.duration_ns", int64(report.Duration)),
	)
	span.SetStatus(codes.Ok, "run completed")

	return report, nil
}

// runMethod executes one method against a private clone of the input.
func (r *Runner) runMethod(ctx context.Context, method eval.Method, input eval.Input, timeout time.Duration) (eval.MethodResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	private := input.Clone()

	start := time.Now()
	output, err := method.Compute(ctx, private)
	elapsed := time.Since(start)

	if err != nil {
		return eval.MethodResult{}, err
	}

	return eval.MethodResult{
		Method:   method.Name,
		Output:   output,
		Duration: elapsed,
	}, nil
}

// RunAll executes every registered scenario sequentially in List order.
//
// Description:
//
//	Scenarios never overlap; a verification failure of one scenario does
//	not abort the rest, and a scenario whose method fails is logged and
//	skipped so the remaining scenarios still run.
//
// Inputs:
//   - ctx: Context for cancellation. Must not be nil.
//   - opts: Optional configuration options (applied to every scenario).
//
// Outputs:
//   - []*eval.Report: Reports for every scenario that completed.
//   - error: Non-nil only if the run could not proceed at all.
//
// Thread Safety: Safe for concurrent use.
func (r *Runner) RunAll(ctx context.Context, opts ...RunOption) ([]*eval.Report, error) {
	if ctx == nil {
		return nil, errors.New("context must not be nil")
	}

	names := r.registry.List()
	reports := make([]*eval.Report, 0, len(names))

	for _, name := range names {
		select {
		case <-ctx.Done():
			return reports, ctx.Err()
		default:
		}

		report, err := r.Run(ctx, name, opts...)
		if err != nil {
			r.logger.Warn("scenario failed",
				slog.String("scenario", name),
				slog.String("error", err.Error()),
			)
			continue
		}

		reports = append(reports, report)
	}

	return reports, nil
}

// Verify cross-checks the captured method outputs of one scenario run.
//
// Description:
//
//	With two or more methods, every output pair is compared for exact
//	equality and each disagreeing pair is recorded with both values.
//	With exactly one method, the scenario's named postcondition is
//	checked over the single output instead.
//
// Inputs:
//   - scenario: The scenario the results belong to.
//   - results: One result per method, in declared order.
//
// Outputs:
//   - eval.VerificationResult: Match, or the recorded disagreements.
func Verify(scenario eval.Scenario, results []eval.MethodResult) eval.VerificationResult {
	if len(results) >= 2 {
		verification := eval.VerificationResult{Match: true}
		for i := 0; i < len(results); i++ {
			for j := i + 1; j < len(results); j++ {
				if !eval.OutputsEqual(results[i].Output, results[j].Output) {
					verification.Match = false
					verification.Mismatches = append(verification.Mismatches, eval.Mismatch{
						MethodA: results[i].Method,
						MethodB: results[j].Method,
						ValueA:  results[i].Output,
						ValueB:  results[j].Output,
					})
				}
			}
		}
		if !verification.Match {
			verification.Err = eval.ErrVerificationFailed
		}
		return verification
	}

	pc := scenario.Postcondition()
	if pc == nil {
		// Unreachable for registered scenarios; ValidateScenario
		// rejects single-method scenarios without a postcondition.
		return eval.VerificationResult{
			Match: false,
			Err:   fmt.Errorf("%w: no postcondition to check", eval.ErrVerificationFailed),
		}
	}

	verification := eval.VerificationResult{Postcondition: pc.Name}
	if err := pc.Check(scenario.Input(), results[0].Output); err != nil {
		verification.Match = false
		verification.Err = fmt.Errorf("%w: %s: %v", eval.ErrVerificationFailed, pc.Name, err)
		return verification
	}
	verification.Match = true
	return verification
}
