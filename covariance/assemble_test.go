// SPDX-License-Identifier: MIT

package covariance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/covar/covariance"
	"github.com/katalvlaran/covar/matrix"
	"github.com/katalvlaran/covar/moments"
)

// opaque hides *matrix.Dense so Assemble takes its At fallback path.
type opaque struct{ matrix.Matrix }

func denseOf(t *testing.T, n int, data ...float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(n, n, data)
	require.NoError(t, err)

	return m
}

// TestAssemble_Identity checks out = raw − m·mᵀ on a hand-computed case.
func TestAssemble_Identity(t *testing.T) {
	raw := denseOf(t, 2,
		35.0/3.0, 8,
		8, 8,
	)
	means := []float64{3, 8.0 / 3.0}

	cov, err := covariance.Assemble(means, raw)
	require.NoError(t, err)
	got := rowsOf(t, cov)
	assert.InDeltaSlice(t, []float64{8.0 / 3.0, 0}, got[0], epsTight)
	assert.InDeltaSlice(t, []float64{0, 8 - 64.0/9.0}, got[1], epsTight)
}

// TestAssemble_DoesNotMutate ensures the inputs are left untouched.
func TestAssemble_DoesNotMutate(t *testing.T) {
	raw := denseOf(t, 2, 4, 1, 1, 9)
	means := []float64{1, 2}

	_, err := covariance.Assemble(means, raw)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, means)
	assert.Equal(t, [][]float64{{4, 1}, {1, 9}}, rowsOf(t, raw))
}

// TestAssemble_GenericMatrix checks the non-Dense path gives identical bits.
func TestAssemble_GenericMatrix(t *testing.T) {
	raw := denseOf(t, 3,
		2.5, 0.125, -1,
		0.125, 7, 3.5,
		-1, 3.5, 1.75,
	)
	means := []float64{0.5, -1.25, 2}

	fast, err := covariance.Assemble(means, raw)
	require.NoError(t, err)
	slow, err := covariance.Assemble(means, opaque{raw})
	require.NoError(t, err)
	assert.Equal(t, rowsOf(t, fast), rowsOf(t, slow))
	assert.NoError(t, matrix.ValidateSymmetric(fast, 0))
}

// TestAssemble_Preconditions covers nil, non-square and mismatched inputs.
func TestAssemble_Preconditions(t *testing.T) {
	_, err := covariance.Assemble([]float64{1}, nil)
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)

	rect, err := matrix.NewDense(2, 3)
	require.NoError(t, err)
	_, err = covariance.Assemble([]float64{1, 2}, rect)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = covariance.Assemble([]float64{1, 2, 3}, denseOf(t, 2, 1, 0, 0, 1))
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestFromMoments checks the convenience wrapper, including the zero value.
func TestFromMoments(t *testing.T) {
	acc, err := moments.New(2)
	require.NoError(t, err)
	for _, line := range []string{"1,1", "3,3", "5,2"} {
		require.NoError(t, acc.ObserveRecord(line))
	}
	m, err := acc.Finalize()
	require.NoError(t, err)

	cov, err := covariance.FromMoments(m)
	require.NoError(t, err)
	v, err := cov.At(0, 1)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, v, epsTight)

	_, err = covariance.FromMoments(moments.Moments{})
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)
}
