// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/covar/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAllClose checks tolerance semantics on the Dense fast-path and the At fallback.
func TestAllClose(t *testing.T) {
	t.Parallel()

	a := NewFilledDense(t, 2, 2, []float64{1, 2, 3, 4})
	b := NewFilledDense(t, 2, 2, []float64{1, 2, 3, 4.001})

	for _, pair := range [][2]matrix.Matrix{{a, b}, {hide{a}, hide{b}}} {
		ok, err := matrix.AllClose(pair[0], pair[1], 0, 1e-2)
		require.NoError(t, err)
		assert.True(t, ok, "atol 1e-2 must accept 1e-3 difference")

		ok, err = matrix.AllClose(pair[0], pair[1], 0, 1e-6)
		require.NoError(t, err)
		assert.False(t, ok, "atol 1e-6 must reject 1e-3 difference")

		ok, err = matrix.AllClose(pair[0], pair[1], 1e-3, 0)
		require.NoError(t, err)
		assert.True(t, ok, "rtol scales with |b|")
	}
}

// TestAllCloseErrors covers bad tolerances, nil operands and shape mismatch.
func TestAllCloseErrors(t *testing.T) {
	t.Parallel()

	a := NewFilledDense(t, 2, 2, []float64{1, 2, 3, 4})
	c := NewFilledDense(t, 1, 2, []float64{1, 2})

	_, err := matrix.AllClose(a, a, math.Inf(1), 0)
	require.ErrorIs(t, err, matrix.ErrNaNInf)

	_, err = matrix.AllClose(nil, a, 0, 0)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)

	_, err = matrix.AllClose(a, c, 0, 0)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}
