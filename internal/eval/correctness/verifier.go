// Copyright (C) 2025 The Veribench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package correctness runs property-based verification of scenario
// invariants: method agreement over generated inputs, generator
// determinism, sortedness postconditions.
package correctness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/veribench/veribench/internal/eval"
)

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

var (
	// ErrNoProperties indicates that the scenario has no properties to verify.
	ErrNoProperties = errors.New("scenario has no properties")

	// ErrNoGenerator indicates that a property has no input generator.
	ErrNoGenerator = errors.New("property has no generator")
)

// -----------------------------------------------------------------------------
// Verifier Options
// -----------------------------------------------------------------------------

// VerifyOption configures verification behavior.
type VerifyOption func(*verifyConfig)

type verifyConfig struct {
	iterations       int
	timeout          time.Duration
	propertyTimeout  time.Duration
	stopOnFailure    bool
	tags             []string
	logger           *slog.Logger
	shrinkIterations int
	seed             int64
}

func defaultConfig() *verifyConfig {
	return &verifyConfig{
		iterations:       100,
		timeout:          5 * time.Minute,
		propertyTimeout:  30 * time.Second,
		stopOnFailure:    false,
		shrinkIterations: 100,
		seed:             1,
	}
}

// WithIterations sets the number of generated inputs per property.
// Default is 100.
func WithIterations(n int) VerifyOption {
	return func(c *verifyConfig) {
		if n > 0 {
			c.iterations = n
		}
	}
}

// WithTimeout sets the total verification timeout.
// Default is 5 minutes.
func WithTimeout(d time.Duration) VerifyOption {
	return func(c *verifyConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithPropertyTimeout sets the timeout per property.
// Default is 30 seconds.
func WithPropertyTimeout(d time.Duration) VerifyOption {
	return func(c *verifyConfig) {
		if d > 0 {
			c.propertyTimeout = d
		}
	}
}

// WithStopOnFailure causes verification to stop at the first failure.
// Default is false (verify all properties).
func WithStopOnFailure(stop bool) VerifyOption {
	return func(c *verifyConfig) {
		c.stopOnFailure = stop
	}
}

// WithTags filters properties to only those with specified tags.
// If empty, all properties are verified.
func WithTags(tags ...string) VerifyOption {
	return func(c *verifyConfig) {
		c.tags = tags
	}
}

// WithLogger sets the logger for verification progress.
func WithLogger(logger *slog.Logger) VerifyOption {
	return func(c *verifyConfig) {
		c.logger = logger
	}
}

// WithShrinkIterations sets the maximum shrink iterations on failure.
// Default is 100.
func WithShrinkIterations(n int) VerifyOption {
	return func(c *verifyConfig) {
		if n >= 0 {
			c.shrinkIterations = n
		}
	}
}

// WithSeed sets the seed of the input generator source, so failing runs
// can be replayed exactly. Default is 1.
func WithSeed(seed int64) VerifyOption {
	return func(c *verifyConfig) {
		c.seed = seed
	}
}

// -----------------------------------------------------------------------------
// Verifier
// -----------------------------------------------------------------------------

// Verifier runs property-based tests against registered scenarios.
//
// Thread Safety: Safe for concurrent use.
type Verifier struct {
	registry *eval.Registry
	mu       sync.RWMutex
	logger   *slog.Logger
}

// NewVerifier creates a new Verifier.
//
// Inputs:
//   - registry: The scenario registry. Must not be nil.
//
// Outputs:
//   - *Verifier: The new verifier. Never nil.
func NewVerifier(registry *eval.Registry) *Verifier {
	return &Verifier{
		registry: registry,
		logger:   slog.Default(),
	}
}

// SetLogger sets the logger for the verifier.
//
// Thread Safety: Safe for concurrent use.
func (v *Verifier) SetLogger(logger *slog.Logger) {
	if logger == nil {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.logger = logger
}

// Verify runs all property tests for a scenario.
//
// Description:
//
//	For each property, generates inputs from a seeded source, runs the
//	Check function, and reports failures. When a failure is found and the
//	property has a Shrink function, attempts to find a minimal
//	counterexample.
//
// Inputs:
//   - ctx: Context for cancellation. Must not be nil.
//   - name: The scenario to verify.
//   - opts: Optional configuration options.
//
// Outputs:
//   - *eval.VerifyResult: The verification results.
//   - error: Non-nil if verification could not be performed (not if
//     properties fail).
func (v *Verifier) Verify(ctx context.Context, name string, opts ...VerifyOption) (*eval.VerifyResult, error) {
	if ctx == nil {
		return nil, errors.New("context must not be nil")
	}

	scenario, ok := v.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", eval.ErrNotFound, name)
	}

	config := defaultConfig()
	for _, opt := range opts {
		opt(config)
	}

	var logger *slog.Logger
	if config.logger != nil {
		logger = config.logger
	} else {
		v.mu.RLock()
		logger = v.logger
		v.mu.RUnlock()
	}

	properties := scenario.Properties()
	if len(properties) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoProperties, name)
	}

	if len(config.tags) > 0 {
		properties = filterByTags(properties, config.tags)
		if len(properties) == 0 {
			return nil, fmt.Errorf("%w: no properties match tags %v", ErrNoProperties, config.tags)
		}
	}

	logger.Debug("starting verification",
		slog.String("scenario", name),
		slog.Int("properties", len(properties)),
		slog.Int("iterations", config.iterations),
		slog.Int64("seed", config.seed),
	)

	ctx, cancel := context.WithTimeout(ctx, config.timeout)
	defer cancel()

	start := time.Now()

	result := &eval.VerifyResult{
		Scenario:   name,
		Properties: make([]eval.PropertyResult, 0, len(properties)),
		Passed:     true,
	}

	// Properties are checked strictly sequentially, matching the
	// execution model of the scenarios themselves.
	for _, prop := range properties {
		select {
		case <-ctx.Done():
			result.Duration = time.Since(start)
			return result, ctx.Err()
		default:
		}

		pr := v.verifyProperty(ctx, prop, config)
		result.Properties = append(result.Properties, pr)
		result.Iterations += pr.Iterations

		if !pr.Passed {
			result.Passed = false
			if config.stopOnFailure {
				break
			}
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

// VerifyAll runs property tests for all registered scenarios.
//
// Description:
//
//	Scenarios without properties are skipped. A scenario whose
//	verification cannot be performed is logged and skipped; the verifier
//	continues with the others.
func (v *Verifier) VerifyAll(ctx context.Context, opts ...VerifyOption) ([]*eval.VerifyResult, error) {
	if ctx == nil {
		return nil, errors.New("context must not be nil")
	}

	v.mu.RLock()
	logger := v.logger
	v.mu.RUnlock()

	names := v.registry.List()
	results := make([]*eval.VerifyResult, 0, len(names))

	for _, name := range names {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		scenario, _ := v.registry.Get(name)
		if len(scenario.Properties()) == 0 {
			continue
		}

		result, err := v.Verify(ctx, name, opts...)
		if err != nil {
			logger.Warn("verification failed",
				slog.String("scenario", name),
				slog.String("error", err.Error()),
			)
			continue
		}

		results = append(results, result)
	}

	return results, nil
}

// verifyProperty verifies a single property.
func (v *Verifier) verifyProperty(ctx context.Context, prop eval.Property, config *verifyConfig) eval.PropertyResult {
	start := time.Now()

	result := eval.PropertyResult{
		Name:   prop.Name,
		Passed: true,
	}

	if err := prop.Validate(); err != nil {
		result.Passed = false
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	if prop.Generator == nil {
		result.Passed = false
		result.Err = fmt.Errorf("%w: %s", ErrNoGenerator, prop.Name)
		result.Duration = time.Since(start)
		return result
	}

	timeout := config.propertyTimeout
	if prop.Timeout > 0 {
		timeout = prop.Timeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rng := rand.New(rand.NewSource(config.seed))

	for i := 0; i < config.iterations; i++ {
		select {
		case <-ctx.Done():
			result.Iterations = i
			result.Duration = time.Since(start)
			if result.Err == nil && ctx.Err() != nil {
				result.Err = ctx.Err()
				result.Passed = false
			}
			return result
		default:
		}

		input := prop.Generator(rng)

		if err := prop.Check(input); err != nil {
			result.Passed = false
			result.FailingInput = input
			result.Err = err
			result.Iterations = i + 1

			if prop.Shrink != nil && config.shrinkIterations > 0 {
				shrunk, steps := v.shrinkInput(ctx, prop, input, config.shrinkIterations)
				if shrunk != nil {
					result.FailingInput = shrunk
					result.ShrinkSteps = steps
				}
			}

			result.Duration = time.Since(start)
			return result
		}

		result.Iterations = i + 1
	}

	result.Duration = time.Since(start)
	return result
}

// shrinkInput attempts to find a minimal failing input.
func (v *Verifier) shrinkInput(ctx context.Context, prop eval.Property, input any, maxIterations int) (any, int) {
	current := input
	steps := 0

	for i := 0; i < maxIterations; i++ {
		select {
		case <-ctx.Done():
			return current, steps
		default:
		}

		candidates := prop.Shrink(current)
		if len(candidates) == 0 {
			break
		}

		foundSmaller := false
		for _, candidate := range candidates {
			if err := prop.Check(candidate); err != nil {
				current = candidate
				steps++
				foundSmaller = true
				break
			}
		}

		if !foundSmaller {
			break
		}
	}

	return current, steps
}

// filterByTags filters properties to those with at least one specified tag.
func filterByTags(properties []eval.Property, tags []string) []eval.Property {
	var filtered []eval.Property
	for _, prop := range properties {
		for _, tag := range tags {
			if prop.HasTag(tag) {
				filtered = append(filtered, prop)
				break
			}
		}
	}
	return filtered
}
