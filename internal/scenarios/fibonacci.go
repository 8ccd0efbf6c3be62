// Copyright (C) 2025 The Veribench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package scenarios

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/veribench/veribench/internal/eval"
)

// fibRecursive is the naive exponential recursion. n <= 1 returns n.
func fibRecursive(n int64) int64 {
	if n <= 1 {
		return n
	}
	return fibRecursive(n-1) + fibRecursive(n-2)
}

// fibIterative is the linear iterative form. n <= 1 returns n.
func fibIterative(n int64) int64 {
	if n <= 1 {
		return n
	}
	a, b := int64(0), int64(1)
	for i := int64(2); i <= n; i++ {
		a, b = b, a+b
	}
	return b
}

// NewFibonacci builds the fibonacci scenario: naive recursion against the
// iterative form, both of which must produce the same value.
func NewFibonacci(n int64) eval.Scenario {
	return eval.NewScenario("fibonacci", n).
		SetDescription("Naive recursive fibonacci cross-checked against the linear iterative form.").
		AddMethod("recursive", func(_ context.Context, in eval.Input) (any, error) {
			return fibRecursive(in.N), nil
		}).
		AddMethod("iterative", func(_ context.Context, in eval.Input) (any, error) {
			return fibIterative(in.N), nil
		}).
		AddProperty(eval.Property{
			Name:        "recursive_matches_iterative",
			Description: "Both fibonacci methods agree for every small n.",
			Generator: func(r *rand.Rand) any {
				// Naive recursion is exponential; keep n small.
				return r.Int63n(21)
			},
			Check: func(input any) error {
				n := input.(int64)
				rec, it := fibRecursive(n), fibIterative(n)
				if rec != it {
					return fmt.Errorf("fib(%d): recursive %d, iterative %d", n, rec, it)
				}
				return nil
			},
			Shrink: shrinkScale,
			Tags:   []string{"agreement"},
		})
}
