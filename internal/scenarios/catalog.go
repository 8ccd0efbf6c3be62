// Copyright (C) 2025 The Veribench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package scenarios defines the catalog of self-verifying benchmark
// scenarios: loops, recursion, arithmetic and sorting, each computed by
// independent methods whose outputs must agree.
package scenarios

import (
	"fmt"
	"sort"

	"github.com/veribench/veribench/internal/eval"
)

// Default scale parameters, taken from the reference benchmark scripts.
const (
	DefaultFibonacciN    = 25
	DefaultFactorialN    = 12
	DefaultSumOfSquaresN = 12
	DefaultPrimeLimit    = 1000
	DefaultLoopSumN      = 1000
	DefaultNestedLoopN   = 50
	DefaultNestedMulN    = 500
	DefaultComplexLoopN  = 500
	DefaultArraySize     = 1000
	DefaultSortSize      = 1000
)

// factory builds a scenario for a given scale parameter.
type factory struct {
	defaultN int64
	build    func(n int64) eval.Scenario
}

var factories = map[string]factory{
	"fibonacci":       {DefaultFibonacciN, NewFibonacci},
	"factorial":       {DefaultFactorialN, NewFactorial},
	"sum_of_squares":  {DefaultSumOfSquaresN, NewSumOfSquares},
	"prime_count":     {DefaultPrimeLimit, NewPrimeCount},
	"loop_sum":        {DefaultLoopSumN, NewLoopSum},
	"nested_loop":     {DefaultNestedLoopN, NewNestedLoop},
	"nested_loop_mul": {DefaultNestedMulN, NewNestedLoopMul},
	"complex_loop":    {DefaultComplexLoopN, NewComplexLoop},
	"array_sum":       {DefaultArraySize, NewArraySum},
	"quicksort":       {DefaultSortSize, NewQuicksort},
}

// Names returns every catalog scenario name in sorted order.
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultScale returns the default scale parameter of a catalog scenario.
func DefaultScale(name string) (int64, bool) {
	f, ok := factories[name]
	if !ok {
		return 0, false
	}
	return f.defaultN, true
}

// Build constructs a catalog scenario with an explicit scale parameter.
//
// Outputs:
//   - eval.Scenario: The scenario.
//   - error: eval.ErrNotFound (wrapped) if the name is unknown,
//     eval.ErrInvalidInput (wrapped) if n is negative.
func Build(name string, n int64) (eval.Scenario, error) {
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", eval.ErrNotFound, name)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: %s: negative scale %d", eval.ErrInvalidInput, name, n)
	}
	return f.build(n), nil
}

// All returns every catalog scenario at its default scale, sorted by name.
func All() []eval.Scenario {
	names := Names()
	all := make([]eval.Scenario, 0, len(names))
	for _, name := range names {
		all = append(all, factories[name].build(factories[name].defaultN))
	}
	return all
}

// Register registers every catalog scenario at its default scale.
func Register(reg *eval.Registry) error {
	for _, s := range All() {
		if err := reg.Register(s); err != nil {
			return fmt.Errorf("registering %s: %w", s.Name(), err)
		}
	}
	return nil
}

// shrinkScale shrinks an int64 scale toward zero: halving first, then
// decrementing.
func shrinkScale(input any) []any {
	n, ok := input.(int64)
	if !ok || n <= 0 {
		return nil
	}
	candidates := []any{n / 2}
	if n-1 != n/2 {
		candidates = append(candidates, n-1)
	}
	return candidates
}
