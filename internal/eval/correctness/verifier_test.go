// Copyright (C) 2025 The Veribench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package correctness

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/veribench/veribench/internal/eval"
)

func noopMethod(_ context.Context, in eval.Input) (any, error) {
	return in.N, nil
}

// scenarioWithProperties builds a two-method scenario carrying the given
// properties, so registration validation passes.
func scenarioWithProperties(name string, props ...eval.Property) eval.Scenario {
	s := eval.NewScenario(name, 1).
		AddMethod("a", noopMethod).
		AddMethod("b", noopMethod)
	for _, p := range props {
		s.AddProperty(p)
	}
	return s
}

func passingProperty(name string) eval.Property {
	return eval.Property{
		Name:        name,
		Description: "always holds",
		Generator:   func(r *rand.Rand) any { return r.Int63n(100) },
		Check:       func(any) error { return nil },
	}
}

func TestVerifierVerify(t *testing.T) {
	t.Run("passing property", func(t *testing.T) {
		registry := eval.NewRegistry()
		registry.MustRegister(scenarioWithProperties("good", passingProperty("p")))

		verifier := NewVerifier(registry)
		result, err := verifier.Verify(context.Background(), "good", WithIterations(10))
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if !result.Passed {
			t.Error("result.Passed = false for a passing property")
		}
		if result.Iterations != 10 {
			t.Errorf("Iterations = %d, want 10", result.Iterations)
		}
	})

	t.Run("failing property records failing input", func(t *testing.T) {
		registry := eval.NewRegistry()
		registry.MustRegister(scenarioWithProperties("bad", eval.Property{
			Name:        "fails_above_threshold",
			Description: "fails for inputs above 10",
			Generator:   func(r *rand.Rand) any { return r.Int63n(100) },
			Check: func(input any) error {
				if input.(int64) > 10 {
					return fmt.Errorf("input %d above threshold", input)
				}
				return nil
			},
		}))

		verifier := NewVerifier(registry)
		result, err := verifier.Verify(context.Background(), "bad", WithIterations(100))
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if result.Passed {
			t.Fatal("result.Passed = true for a failing property")
		}
		pr := result.Properties[0]
		if pr.FailingInput == nil {
			t.Error("FailingInput not recorded")
		}
		if pr.Err == nil {
			t.Error("Err not recorded")
		}
	})

	t.Run("shrinking finds smaller input", func(t *testing.T) {
		registry := eval.NewRegistry()
		registry.MustRegister(scenarioWithProperties("shrink", eval.Property{
			Name:        "fails_above_ten",
			Description: "fails for inputs above 10",
			Generator:   func(r *rand.Rand) any { return int64(1000) },
			Check: func(input any) error {
				if input.(int64) > 10 {
					return fmt.Errorf("too big")
				}
				return nil
			},
			Shrink: func(input any) []any {
				n := input.(int64)
				if n <= 0 {
					return nil
				}
				return []any{n / 2, n - 1}
			},
		}))

		verifier := NewVerifier(registry)
		result, err := verifier.Verify(context.Background(), "shrink", WithIterations(1))
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		pr := result.Properties[0]
		if pr.Passed {
			t.Fatal("property should fail")
		}
		// Repeated halving of 1000 bottoms out at the smallest still
		// failing input, 11.
		if got := pr.FailingInput.(int64); got != 11 {
			t.Errorf("shrunk input = %d, want 11", got)
		}
		if pr.ShrinkSteps == 0 {
			t.Error("ShrinkSteps = 0, want > 0")
		}
	})

	t.Run("seed reproducibility", func(t *testing.T) {
		var firstRun, secondRun []int64
		collect := func(sink *[]int64) eval.Property {
			return eval.Property{
				Name:        "collector",
				Description: "records generated inputs",
				Generator:   func(r *rand.Rand) any { return r.Int63n(1 << 40) },
				Check: func(input any) error {
					*sink = append(*sink, input.(int64))
					return nil
				},
			}
		}

		registry := eval.NewRegistry()
		registry.MustRegister(scenarioWithProperties("first", collect(&firstRun)))
		registry.MustRegister(scenarioWithProperties("second", collect(&secondRun)))

		verifier := NewVerifier(registry)
		for _, name := range []string{"first", "second"} {
			if _, err := verifier.Verify(context.Background(), name, WithIterations(20), WithSeed(7)); err != nil {
				t.Fatalf("Verify(%s): %v", name, err)
			}
		}

		if len(firstRun) != 20 || len(secondRun) != 20 {
			t.Fatalf("runs recorded %d and %d inputs, want 20 each", len(firstRun), len(secondRun))
		}
		for i := range firstRun {
			if firstRun[i] != secondRun[i] {
				t.Fatalf("same seed generated different inputs at %d: %d vs %d", i, firstRun[i], secondRun[i])
			}
		}
	})

	t.Run("no properties", func(t *testing.T) {
		registry := eval.NewRegistry()
		registry.MustRegister(scenarioWithProperties("empty"))

		verifier := NewVerifier(registry)
		if _, err := verifier.Verify(context.Background(), "empty"); !errors.Is(err, ErrNoProperties) {
			t.Errorf("got %v, want ErrNoProperties", err)
		}
	})

	t.Run("unknown scenario", func(t *testing.T) {
		verifier := NewVerifier(eval.NewRegistry())
		if _, err := verifier.Verify(context.Background(), "missing"); !errors.Is(err, eval.ErrNotFound) {
			t.Errorf("got %v, want ErrNotFound", err)
		}
	})

	t.Run("missing generator fails the property", func(t *testing.T) {
		registry := eval.NewRegistry()
		registry.MustRegister(scenarioWithProperties("nogen", eval.Property{
			Name:        "no_generator",
			Description: "has no generator",
			Check:       func(any) error { return nil },
		}))

		verifier := NewVerifier(registry)
		result, err := verifier.Verify(context.Background(), "nogen")
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if result.Passed {
			t.Error("result.Passed = true for a property without generator")
		}
		if !errors.Is(result.Properties[0].Err, ErrNoGenerator) {
			t.Errorf("got %v, want ErrNoGenerator", result.Properties[0].Err)
		}
	})
}

func TestVerifierTagFiltering(t *testing.T) {
	tagged := passingProperty("tagged")
	tagged.Tags = []string{"agreement"}
	untagged := passingProperty("untagged")

	registry := eval.NewRegistry()
	registry.MustRegister(scenarioWithProperties("mix", tagged, untagged))

	verifier := NewVerifier(registry)

	t.Run("matching tag selects subset", func(t *testing.T) {
		result, err := verifier.Verify(context.Background(), "mix",
			WithIterations(1), WithTags("agreement"))
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if len(result.Properties) != 1 || result.Properties[0].Name != "tagged" {
			t.Errorf("got %d properties, want only the tagged one", len(result.Properties))
		}
	})

	t.Run("no matching tag errors", func(t *testing.T) {
		_, err := verifier.Verify(context.Background(), "mix", WithTags("nonexistent"))
		if !errors.Is(err, ErrNoProperties) {
			t.Errorf("got %v, want ErrNoProperties", err)
		}
	})
}

func TestVerifierStopOnFailure(t *testing.T) {
	failing := eval.Property{
		Name:        "always_fails",
		Description: "fails immediately",
		Generator:   func(r *rand.Rand) any { return int64(0) },
		Check:       func(any) error { return fmt.Errorf("nope") },
	}

	registry := eval.NewRegistry()
	registry.MustRegister(scenarioWithProperties("stop", failing, passingProperty("after")))

	verifier := NewVerifier(registry)
	result, err := verifier.Verify(context.Background(), "stop",
		WithIterations(5), WithStopOnFailure(true))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(result.Properties) != 1 {
		t.Errorf("got %d property results, want 1 (stopped at first failure)", len(result.Properties))
	}
}

func TestVerifierVerifyAll(t *testing.T) {
	registry := eval.NewRegistry()
	registry.MustRegister(scenarioWithProperties("with_props", passingProperty("p")))
	registry.MustRegister(scenarioWithProperties("without_props"))

	verifier := NewVerifier(registry)
	results, err := verifier.VerifyAll(context.Background(), WithIterations(2))
	if err != nil {
		t.Fatalf("VerifyAll: %v", err)
	}

	// Scenarios without properties are skipped, not failed.
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Scenario != "with_props" {
		t.Errorf("result scenario = %q, want with_props", results[0].Scenario)
	}
}
