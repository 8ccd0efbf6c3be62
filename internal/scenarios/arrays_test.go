// Copyright (C) 2025 The Veribench Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package scenarios

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veribench/veribench/internal/eval"
)

func TestGenerateSequence(t *testing.T) {
	t.Run("known prefix", func(t *testing.T) {
		assert.Equal(t, []int64{23, 40, 57, 74, 91}, GenerateSequence(5))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, GenerateSequence(0))
	})

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, GenerateSequence(1000), GenerateSequence(1000))
	})

	t.Run("values wrap at 1000", func(t *testing.T) {
		for i, v := range GenerateSequence(200) {
			assert.Equal(t, (int64(i)*17+23)%1000, v)
			assert.Less(t, v, int64(1000))
		}
	})
}

func TestArrayBuildAndSum(t *testing.T) {
	tests := []struct {
		size int64
		want int64
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{10, 45},
		{1000, 499500},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, arrayBuildAndSum(tt.size), "arrayBuildAndSum(%d)", tt.size)
	}
}

func TestQuicksort(t *testing.T) {
	tests := []struct {
		name string
		in   []int64
		want []int64
	}{
		{"empty", []int64{}, []int64{}},
		{"single", []int64{7}, []int64{7}},
		{"already sorted", []int64{1, 2, 3}, []int64{1, 2, 3}},
		{"reverse sorted", []int64{5, 4, 3, 2, 1}, []int64{1, 2, 3, 4, 5}},
		{"duplicates", []int64{3, 1, 3, 1, 2}, []int64{1, 1, 2, 3, 3}},
		{"all equal", []int64{9, 9, 9}, []int64{9, 9, 9}},
		{"negatives", []int64{0, -5, 3, -1}, []int64{-5, -1, 0, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := make([]int64, len(tt.in))
			copy(got, tt.in)
			quicksort(got)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("generated sequence", func(t *testing.T) {
		seq := GenerateSequence(1000)
		quicksort(seq)
		assert.True(t, isSorted(seq))
		assert.Len(t, seq, 1000)
	})

	t.Run("idempotent", func(t *testing.T) {
		seq := GenerateSequence(100)
		quicksort(seq)
		again := append([]int64(nil), seq...)
		quicksort(again)
		assert.Equal(t, seq, again)
	})
}

func TestIsSorted(t *testing.T) {
	assert.True(t, isSorted(nil))
	assert.True(t, isSorted([]int64{1}))
	assert.True(t, isSorted([]int64{1, 1, 2}))
	assert.False(t, isSorted([]int64{2, 1}))
}

func TestArraySumScenario(t *testing.T) {
	s := NewArraySum(DefaultArraySize)
	require.NoError(t, eval.ValidateScenario(s))
	require.Len(t, s.Methods(), 2)

	ctx := context.Background()
	for _, m := range s.Methods() {
		out, err := m.Compute(ctx, s.Input())
		require.NoError(t, err)
		assert.Equal(t, int64(499500), out, "method %s", m.Name)
	}
}

func TestQuicksortScenario(t *testing.T) {
	s := NewQuicksort(DefaultSortSize)
	require.NoError(t, eval.ValidateScenario(s))
	require.Len(t, s.Methods(), 1)
	require.NotNil(t, s.Postcondition())

	// The method mutates its input, so hand it a clone the way the runner
	// does, and check the postcondition over the result.
	in := s.Input().Clone()
	out, err := s.Methods()[0].Compute(context.Background(), in)
	require.NoError(t, err)
	assert.NoError(t, s.Postcondition().Check(s.Input(), out))

	// The scenario-owned sequence itself stays unsorted.
	assert.Equal(t, GenerateSequence(DefaultSortSize), s.Input().Seq)
}

func TestShrinkSequence(t *testing.T) {
	t.Run("splits and drops last", func(t *testing.T) {
		candidates := shrinkSequence([]int64{1, 2, 3, 4})
		require.Len(t, candidates, 3)
		assert.Equal(t, []int64{1, 2}, candidates[0])
		assert.Equal(t, []int64{3, 4}, candidates[1])
		assert.Equal(t, []int64{1, 2, 3}, candidates[2])
	})

	t.Run("empty yields nothing", func(t *testing.T) {
		assert.Nil(t, shrinkSequence([]int64{}))
	})

	t.Run("non-sequence yields nothing", func(t *testing.T) {
		assert.Nil(t, shrinkSequence(int64(5)))
	})
}
