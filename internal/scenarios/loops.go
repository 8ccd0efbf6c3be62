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

// forLoopSum sums 1..n with a bounded for loop.
func forLoopSum(n int64) int64 {
	var sum int64
	for i := int64(1); i <= n; i++ {
		sum += i
	}
	return sum
}

// whileLoopSum sums 1..n with a condition-only loop.
func whileLoopSum(n int64) int64 {
	var sum int64
	i := int64(1)
	for i <= n {
		sum += i
		i++
	}
	return sum
}

// gaussSum is the closed form n(n+1)/2.
func gaussSum(n int64) int64 {
	return n * (n + 1) / 2
}

// nestedLoopCount increments an accumulator n*n times with two
// while-style loops.
func nestedLoopCount(n int64) int64 {
	var sum int64
	i := int64(1)
	for i <= n {
		j := int64(1)
		for j <= n {
			sum++
			j++
		}
		i++
	}
	return sum
}

// nestedLoopMul sums i*j over the full n×n grid.
func nestedLoopMul(n int64) int64 {
	var sum int64
	i := int64(1)
	for i <= n {
		j := int64(1)
		for j <= n {
			sum += i * j
			j++
		}
		i++
	}
	return sum
}

// nestedLoopMulClosed is the closed form (n(n+1)/2)² of the weighted grid
// sum, since Σi*j factors into (Σi)(Σj).
func nestedLoopMulClosed(n int64) int64 {
	t := gaussSum(n)
	return t * t
}

// complexLoop accumulates, for each i in [1, n], an inner pass over
// j in [1, i] adding j when odd and j² when even.
func complexLoop(n int64) int64 {
	var result int64
	for i := int64(1); i <= n; i++ {
		var temp int64
		j := int64(1)
		for j <= i {
			if j%2 == 0 {
				temp += j * j
			} else {
				temp += j
			}
			j++
		}
		result += temp
	}
	return result
}

// complexLoopClosed replaces the inner pass with closed forms: the odd
// terms up to i sum to ⌈i/2⌉², the even squares to 4·Σm² for m up to ⌊i/2⌋.
func complexLoopClosed(n int64) int64 {
	var result int64
	for i := int64(1); i <= n; i++ {
		k := (i + 1) / 2
		m := i / 2
		result += k*k + 4*(m*(m+1)*(2*m+1)/6)
	}
	return result
}

// NewLoopSum builds the loop-sum scenario: for-style and while-style
// iteration against the Gauss closed form, all summing 1..n.
func NewLoopSum(n int64) eval.Scenario {
	return eval.NewScenario("loop_sum", n).
		SetDescription("for-style and while-style summation of 1..n cross-checked against n(n+1)/2.").
		AddMethod("for_loop", func(_ context.Context, in eval.Input) (any, error) {
			return forLoopSum(in.N), nil
		}).
		AddMethod("while_loop", func(_ context.Context, in eval.Input) (any, error) {
			return whileLoopSum(in.N), nil
		}).
		AddMethod("closed_form", func(_ context.Context, in eval.Input) (any, error) {
			return gaussSum(in.N), nil
		}).
		AddProperty(eval.Property{
			Name:        "loops_match_gauss",
			Description: "Both loop styles sum 1..n to exactly n(n+1)/2.",
			Generator: func(r *rand.Rand) any {
				return r.Int63n(10000)
			},
			Check: func(input any) error {
				n := input.(int64)
				forSum, whileSum, want := forLoopSum(n), whileLoopSum(n), gaussSum(n)
				if forSum != want || whileSum != want {
					return fmt.Errorf("sum(1..%d): for %d, while %d, want %d", n, forSum, whileSum, want)
				}
				return nil
			},
			Shrink: shrinkScale,
			Tags:   []string{"agreement"},
		})
}

// NewNestedLoop builds the unweighted nested loop scenario: double
// iteration counting to exactly n².
func NewNestedLoop(n int64) eval.Scenario {
	return eval.NewScenario("nested_loop", n).
		SetDescription("Double iteration incrementing an accumulator n*n times, cross-checked against n².").
		AddMethod("nested_count", func(_ context.Context, in eval.Input) (any, error) {
			return nestedLoopCount(in.N), nil
		}).
		AddMethod("closed_form", func(_ context.Context, in eval.Input) (any, error) {
			return in.N * in.N, nil
		}).
		AddProperty(eval.Property{
			Name:        "count_is_n_squared",
			Description: "The nested counting loop reaches exactly n².",
			Generator: func(r *rand.Rand) any {
				return r.Int63n(200)
			},
			Check: func(input any) error {
				n := input.(int64)
				if got := nestedLoopCount(n); got != n*n {
					return fmt.Errorf("nested_loop(%d) = %d, want %d", n, got, n*n)
				}
				return nil
			},
			Shrink: shrinkScale,
			Tags:   []string{"agreement"},
		})
}

// NewNestedLoopMul builds the weighted nested loop scenario: the grid sum
// of i*j against its factored closed form.
func NewNestedLoopMul(n int64) eval.Scenario {
	return eval.NewScenario("nested_loop_mul", n).
		SetDescription("Weighted grid sum Σi*j cross-checked against (n(n+1)/2)².").
		AddMethod("nested_mul", func(_ context.Context, in eval.Input) (any, error) {
			return nestedLoopMul(in.N), nil
		}).
		AddMethod("closed_form", func(_ context.Context, in eval.Input) (any, error) {
			return nestedLoopMulClosed(in.N), nil
		}).
		AddProperty(eval.Property{
			Name:        "grid_sum_factors",
			Description: "The grid sum of i*j equals the square of the Gauss sum.",
			Generator: func(r *rand.Rand) any {
				return r.Int63n(500)
			},
			Check: func(input any) error {
				n := input.(int64)
				loop, cf := nestedLoopMul(n), nestedLoopMulClosed(n)
				if loop != cf {
					return fmt.Errorf("nested_loop_mul(%d): loop %d, closed form %d", n, loop, cf)
				}
				return nil
			},
			Shrink: shrinkScale,
			Tags:   []string{"agreement"},
		})
}

// NewComplexLoop builds the complex loop scenario: the conditional inner
// accumulation against its per-i closed form.
func NewComplexLoop(n int64) eval.Scenario {
	return eval.NewScenario("complex_loop", n).
		SetDescription("Conditional inner accumulation (odd j added, even j squared) cross-checked against closed forms.").
		AddMethod("nested_conditional", func(_ context.Context, in eval.Input) (any, error) {
			return complexLoop(in.N), nil
		}).
		AddMethod("closed_form", func(_ context.Context, in eval.Input) (any, error) {
			return complexLoopClosed(in.N), nil
		}).
		AddProperty(eval.Property{
			Name:        "conditional_matches_closed_form",
			Description: "The conditional accumulation equals the closed-form accumulation for every n.",
			Generator: func(r *rand.Rand) any {
				return r.Int63n(500)
			},
			Check: func(input any) error {
				n := input.(int64)
				loop, cf := complexLoop(n), complexLoopClosed(n)
				if loop != cf {
					return fmt.Errorf("complex_loop(%d): loop %d, closed form %d", n, loop, cf)
				}
				return nil
			},
			Shrink: shrinkScale,
			Tags:   []string{"agreement"},
		})
}
