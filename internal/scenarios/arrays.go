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

// GenerateSequence produces the deterministic pseudo-random sequence
// value[i] = (i*17 + 23) mod 1000.
//
// Description:
//
//	This seedless formula is the oracle input of the sort scenario and
//	must stay bit-exact: two generations of the same size are identical,
//	and size 5 yields [23 40 57 74 91].
func GenerateSequence(size int64) []int64 {
	seq := make([]int64, size)
	for i := int64(0); i < size; i++ {
		seq[i] = (i*17 + 23) % 1000
	}
	return seq
}

// arrayBuildAndSum builds the sequence 0..size-1 element by element, then
// sums it with a second pass.
func arrayBuildAndSum(size int64) int64 {
	arr := make([]int64, 0, size)
	i := int64(0)
	for i < size {
		arr = append(arr, i)
		i++
	}
	var sum int64
	j := 0
	for j < len(arr) {
		sum += arr[j]
		j++
	}
	return sum
}

// quicksort sorts the slice in place with recursive Lomuto partitioning.
// Slices of 0 or 1 elements are no-ops.
func quicksort(a []int64) {
	if len(a) < 2 {
		return
	}
	quicksortRange(a, 0, int64(len(a))-1)
}

func quicksortRange(a []int64, lo, hi int64) {
	if lo >= hi {
		return
	}
	p := partition(a, lo, hi)
	quicksortRange(a, lo, p-1)
	quicksortRange(a, p+1, hi)
}

// partition is the Lomuto scheme with the last element as pivot.
// Elements equal to the pivot go to the less-than-or-equal side, which
// fixes pivot placement and keeps the output deterministic.
func partition(a []int64, lo, hi int64) int64 {
	pivot := a[hi]
	i := lo - 1
	for j := lo; j < hi; j++ {
		if a[j] <= pivot {
			i++
			a[i], a[j] = a[j], a[i]
		}
	}
	a[i+1], a[hi] = a[hi], a[i+1]
	return i + 1
}

// isSorted reports whether the sequence is non-decreasing.
func isSorted(a []int64) bool {
	for i := 1; i < len(a); i++ {
		if a[i-1] > a[i] {
			return false
		}
	}
	return true
}

// NewArraySum builds the array iteration scenario: build 0..size-1 and
// sum it, cross-checked against size(size-1)/2.
func NewArraySum(size int64) eval.Scenario {
	return eval.NewScenario("array_sum", size).
		SetDescription("Build a sequence 0..size-1 and sum it, cross-checked against size(size-1)/2.").
		AddMethod("build_and_sum", func(_ context.Context, in eval.Input) (any, error) {
			return arrayBuildAndSum(in.N), nil
		}).
		AddMethod("closed_form", func(_ context.Context, in eval.Input) (any, error) {
			return in.N * (in.N - 1) / 2, nil
		}).
		AddProperty(eval.Property{
			Name:        "sum_matches_closed_form",
			Description: "The iterated array sum equals size(size-1)/2 for every size including 0.",
			Generator: func(r *rand.Rand) any {
				return r.Int63n(5000)
			},
			Check: func(input any) error {
				size := input.(int64)
				got, want := arrayBuildAndSum(size), size*(size-1)/2
				if got != want {
					return fmt.Errorf("array_sum(%d) = %d, want %d", size, got, want)
				}
				return nil
			},
			Shrink: shrinkScale,
			Tags:   []string{"agreement"},
		})
}

// NewQuicksort builds the sort scenario. It owns the deterministic
// generated sequence; the runner hands the single method a private copy,
// and the postcondition asserts the output is non-decreasing with its
// length preserved.
func NewQuicksort(size int64) eval.Scenario {
	return eval.NewScenario("quicksort", size).
		SetDescription("In-place Lomuto quicksort of the deterministic pseudo-random sequence, checked for sortedness.").
		SetSequence(GenerateSequence(size)).
		AddMethod("lomuto_quicksort", func(_ context.Context, in eval.Input) (any, error) {
			quicksort(in.Seq)
			return in.Seq, nil
		}).
		SetPostcondition(eval.Postcondition{
			Name:        "is_sorted",
			Description: "The output sequence is non-decreasing and has the input's length.",
			Check: func(in eval.Input, output any) error {
				seq, ok := output.([]int64)
				if !ok {
					return fmt.Errorf("output is %T, want []int64", output)
				}
				if len(seq) != len(in.Seq) {
					return fmt.Errorf("output has %d elements, input had %d", len(seq), len(in.Seq))
				}
				if !isSorted(seq) {
					return fmt.Errorf("output sequence is not non-decreasing")
				}
				return nil
			},
		}).
		AddProperty(eval.Property{
			Name:        "sorts_arbitrary_sequences",
			Description: "Quicksort yields a non-decreasing sequence of unchanged length for arbitrary input, including empty and single-element sequences.",
			Generator: func(r *rand.Rand) any {
				seq := make([]int64, r.Intn(65))
				for i := range seq {
					seq[i] = r.Int63n(1000)
				}
				return seq
			},
			Check: func(input any) error {
				seq := input.([]int64)
				work := make([]int64, len(seq))
				copy(work, seq)
				quicksort(work)
				if len(work) != len(seq) {
					return fmt.Errorf("sort changed length from %d to %d", len(seq), len(work))
				}
				if !isSorted(work) {
					return fmt.Errorf("sort of %v produced unsorted %v", seq, work)
				}
				return nil
			},
			Shrink: shrinkSequence,
			Tags:   []string{"postcondition"},
		}).
		AddProperty(eval.Property{
			Name:        "sorted_input_is_fixed_point",
			Description: "Sorting an already-sorted sequence yields the same sequence.",
			Generator: func(r *rand.Rand) any {
				seq := make([]int64, r.Intn(65))
				for i := range seq {
					seq[i] = r.Int63n(1000)
				}
				quicksort(seq)
				return seq
			},
			Check: func(input any) error {
				seq := input.([]int64)
				work := make([]int64, len(seq))
				copy(work, seq)
				quicksort(work)
				if !eval.OutputsEqual(work, seq) {
					return fmt.Errorf("re-sorting %v produced %v", seq, work)
				}
				return nil
			},
			Shrink: shrinkSequence,
			Tags:   []string{"postcondition"},
		}).
		AddProperty(eval.Property{
			Name:        "generator_is_deterministic",
			Description: "Two generations of the same size produce identical sequences.",
			Generator: func(r *rand.Rand) any {
				return r.Int63n(2000)
			},
			Check: func(input any) error {
				size := input.(int64)
				if !eval.OutputsEqual(GenerateSequence(size), GenerateSequence(size)) {
					return fmt.Errorf("generate(%d) is not deterministic", size)
				}
				return nil
			},
			Shrink: shrinkScale,
			Tags:   []string{"determinism"},
		})
}

// shrinkSequence shrinks a failing sequence: each half, then the sequence
// minus its last element.
func shrinkSequence(input any) []any {
	seq, ok := input.([]int64)
	if !ok || len(seq) == 0 {
		return nil
	}
	var candidates []any
	if len(seq) > 1 {
		mid := len(seq) / 2
		candidates = append(candidates,
			append([]int64(nil), seq[:mid]...),
			append([]int64(nil), seq[mid:]...),
		)
	}
	candidates = append(candidates, append([]int64(nil), seq[:len(seq)-1]...))
	return candidates
}
