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

// isPrime is trial division skipping multiples of 2 and 3, checking
// divisors of the form 6k±1. n <= 1 is not prime; 2 and 3 are.
func isPrime(n int64) bool {
	if n <= 1 {
		return false
	}
	if n <= 3 {
		return true
	}
	if n%2 == 0 || n%3 == 0 {
		return false
	}
	for i := int64(5); i*i <= n; i += 6 {
		if n%i == 0 || n%(i+2) == 0 {
			return false
		}
	}
	return true
}

// countPrimesTrial counts primes in [2, limit] by trial division.
// limit < 2 yields 0.
func countPrimesTrial(limit int64) int64 {
	var count int64
	for n := int64(2); n <= limit; n++ {
		if isPrime(n) {
			count++
		}
	}
	return count
}

// countPrimesSieve counts primes in [2, limit] with a sieve of
// Eratosthenes, independent of the trial-division path. limit < 2 yields 0.
func countPrimesSieve(limit int64) int64 {
	if limit < 2 {
		return 0
	}
	composite := make([]bool, limit+1)
	var count int64
	for p := int64(2); p <= limit; p++ {
		if composite[p] {
			continue
		}
		count++
		for m := p * p; m <= limit; m += p {
			composite[m] = true
		}
	}
	return count
}

// NewPrimeCount builds the prime counting scenario: 6k±1 trial division
// against an independent sieve, both of which must count the same primes.
func NewPrimeCount(limit int64) eval.Scenario {
	return eval.NewScenario("prime_count", limit).
		SetDescription("Prime counting by 6k±1 trial division cross-checked against a sieve of Eratosthenes.").
		AddMethod("trial_division", func(_ context.Context, in eval.Input) (any, error) {
			return countPrimesTrial(in.N), nil
		}).
		AddMethod("sieve", func(_ context.Context, in eval.Input) (any, error) {
			return countPrimesSieve(in.N), nil
		}).
		AddProperty(eval.Property{
			Name:        "trial_matches_sieve",
			Description: "Both prime counting methods agree for every limit.",
			Generator: func(r *rand.Rand) any {
				return r.Int63n(2000)
			},
			Check: func(input any) error {
				limit := input.(int64)
				trial, sieve := countPrimesTrial(limit), countPrimesSieve(limit)
				if trial != sieve {
					return fmt.Errorf("count_primes(%d): trial %d, sieve %d", limit, trial, sieve)
				}
				return nil
			},
			Shrink: shrinkScale,
			Tags:   []string{"agreement"},
		}).
		AddProperty(eval.Property{
			Name:        "primality_edge_cases",
			Description: "The primality test rejects n<=1 and accepts 2 and 3.",
			Generator: func(r *rand.Rand) any {
				return r.Int63n(4) // 0..3
			},
			Check: func(input any) error {
				n := input.(int64)
				want := n == 2 || n == 3
				if got := isPrime(n); got != want {
					return fmt.Errorf("is_prime(%d) = %v, want %v", n, got, want)
				}
				return nil
			},
			Tags: []string{"boundary"},
		})
}
