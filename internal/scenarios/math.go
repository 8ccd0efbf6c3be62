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

// sumOfSquaresIterative sums i*i for i in [1, n]. n = 0 yields 0.
func sumOfSquaresIterative(n int64) int64 {
	var sum int64
	for i := int64(1); i <= n; i++ {
		sum += i * i
	}
	return sum
}

// sumOfSquaresClosed is the closed form n(n+1)(2n+1)/6.
func sumOfSquaresClosed(n int64) int64 {
	return n * (n + 1) * (2*n + 1) / 6
}

// NewSumOfSquares builds the sum-of-squares scenario: the iterative sum
// cross-checked against the closed form.
func NewSumOfSquares(n int64) eval.Scenario {
	return eval.NewScenario("sum_of_squares", n).
		SetDescription("Iterative sum of squares cross-checked against the closed form n(n+1)(2n+1)/6.").
		AddMethod("iterative", func(_ context.Context, in eval.Input) (any, error) {
			return sumOfSquaresIterative(in.N), nil
		}).
		AddMethod("closed_form", func(_ context.Context, in eval.Input) (any, error) {
			return sumOfSquaresClosed(in.N), nil
		}).
		AddProperty(eval.Property{
			Name:        "iterative_matches_closed_form",
			Description: "The iterative sum of squares equals the closed form for every n.",
			Generator: func(r *rand.Rand) any {
				return r.Int63n(5000)
			},
			Check: func(input any) error {
				n := input.(int64)
				it, cf := sumOfSquaresIterative(n), sumOfSquaresClosed(n)
				if it != cf {
					return fmt.Errorf("sum_of_squares(%d): iterative %d, closed form %d", n, it, cf)
				}
				return nil
			},
			Shrink: shrinkScale,
			Tags:   []string{"agreement"},
		})
}
