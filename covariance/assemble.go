// SPDX-License-Identifier: MIT

package covariance

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/katalvlaran/covar/matrix"
	"github.com/katalvlaran/covar/moments"
)

const opAssemble = "covariance.Assemble"

// Assemble combines means (E[X_i]) and raw-moment means (E[X_i X_j]) into the
// population covariance matrix Cov[i][j] = E[X_i X_j] − E[X_i]·E[X_j].
// Implementation:
//   - Stage 1: rawMeans must be square and non-nil, len(means) must equal its order.
//   - Stage 2: per row i: copy raw row, build −m_i·m with ScaleBlock, add it in place.
//     Dense inputs are read through RowView, anything else through At.
//
// Behavior highlights:
//   - Pure: inputs are not modified.
//   - Cell (i,j) and (j,i) are computed from equal operands in the same order,
//     so a symmetric rawMeans yields a bitwise symmetric result.
//
// Errors:
//   - matrix.ErrNilMatrix, matrix.ErrDimensionMismatch (precondition violations only).
//
// Complexity:
//   - Time O(D²), Space O(D²) for the result (+ O(D) scratch).
func Assemble(means []float64, rawMeans matrix.Matrix) (*matrix.Dense, error) {
	// Stage 1 (Validate).
	if err := matrix.ValidateSquare(rawMeans); err != nil {
		return nil, fmt.Errorf("%s: %w", opAssemble, err)
	}
	d := rawMeans.Rows()
	if err := matrix.ValidateVecLen(means, d); err != nil {
		return nil, fmt.Errorf("%s: %w", opAssemble, err)
	}
	out, err := matrix.NewDense(d, d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opAssemble, err)
	}

	// Stage 2 (Execute).
	neg := make([]float64, d) // −m_i · m
	rd, isDense := rawMeans.(*matrix.Dense)
	var dst, src []float64
	for i := 0; i < d; i++ {
		dst, _ = out.RowView(i)
		if isDense {
			src, _ = rd.RowView(i)
			copy(dst, src)
		} else {
			for j := 0; j < d; j++ {
				if dst[j], err = rawMeans.At(i, j); err != nil {
					return nil, fmt.Errorf("%s: %w", opAssemble, err)
				}
			}
		}
		vecmath.ScaleBlock(neg, means, -means[i])
		vecmath.AddBlockInPlace(dst, neg)
	}

	return out, nil
}

// FromMoments assembles the covariance matrix of finalized moments.
func FromMoments(m moments.Moments) (*matrix.Dense, error) {
	if m.RawMeans == nil {
		return nil, fmt.Errorf("%s: %w", opAssemble, matrix.ErrNilMatrix)
	}

	return Assemble(m.Means, m.RawMeans)
}
