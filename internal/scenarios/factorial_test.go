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

func TestFactorial(t *testing.T) {
	tests := []struct {
		n    int64
		want int64
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{5, 120},
		{10, 3628800},
		{12, 479001600},
		{20, 2432902008176640000},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, factorialRecursive(tt.n), "factorialRecursive(%d)", tt.n)
		assert.Equal(t, tt.want, factorialIterative(tt.n), "factorialIterative(%d)", tt.n)
	}
}

func TestFactorialScenario(t *testing.T) {
	s := NewFactorial(DefaultFactorialN)
	require.NoError(t, eval.ValidateScenario(s))
	assert.Equal(t, "factorial", s.Name())
	require.Len(t, s.Methods(), 2)

	ctx := context.Background()
	for _, m := range s.Methods() {
		out, err := m.Compute(ctx, s.Input())
		require.NoError(t, err)
		assert.Equal(t, int64(479001600), out, "method %s", m.Name)
	}
}
