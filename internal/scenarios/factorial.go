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

// factorialRecursive computes n! by recursion. n <= 1 returns 1.
func factorialRecursive(n int64) int64 {
	if n <= 1 {
		return 1
	}
	return n * factorialRecursive(n-1)
}

// factorialIterative computes n! by iteration. n <= 1 returns 1.
func factorialIterative(n int64) int64 {
	result := int64(1)
	for i := int64(2); i <= n; i++ {
		result *= i
	}
	return result
}

// NewFactorial builds the factorial scenario: recursive against iterative
// factorial, both of which must produce the same value.
func NewFactorial(n int64) eval.Scenario {
	return eval.NewScenario("factorial", n).
		SetDescription("Recursive factorial cross-checked against the iterative form.").
		AddMethod("recursive", func(_ context.Context, in eval.Input) (any, error) {
			return factorialRecursive(in.N), nil
		}).
		AddMethod("iterative", func(_ context.Context, in eval.Input) (any, error) {
			return factorialIterative(in.N), nil
		}).
		AddProperty(eval.Property{
			Name:        "recursive_matches_iterative",
			Description: "Both factorial methods agree for every n that fits int64.",
			Generator: func(r *rand.Rand) any {
				// 20! is the largest factorial representable in int64.
				return r.Int63n(21)
			},
			Check: func(input any) error {
				n := input.(int64)
				rec, it := factorialRecursive(n), factorialIterative(n)
				if rec != it {
					return fmt.Errorf("factorial(%d): recursive %d, iterative %d", n, rec, it)
				}
				return nil
			},
			Shrink: shrinkScale,
			Tags:   []string{"agreement"},
		})
}
