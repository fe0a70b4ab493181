// SPDX-License-Identifier: MIT

package matrix

import (
	"fmt"
	"math"
)

const opAllClose = "AllClose"

// AllClose reports whether a and b have the same shape and every element
// satisfies |a−b| ≤ atol + rtol·|b|.
// Implementation:
//   - Stage 1: reject non-finite tolerances; negative tolerances are abs-ed.
//   - Stage 2: nil + shape validation.
//   - Stage 3: Dense fast-path over flat buffers, At fallback otherwise.
//
// Errors:
//   - ErrNaNInf (tolerance), ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r*c), Space O(1).
func AllClose(a, b Matrix, rtol, atol float64) (bool, error) {
	if math.IsNaN(rtol) || math.IsNaN(atol) || math.IsInf(rtol, 0) || math.IsInf(atol, 0) {
		return false, fmt.Errorf("%s: %w", opAllClose, ErrNaNInf)
	}
	rtol, atol = math.Abs(rtol), math.Abs(atol)

	if err := ValidateNotNil(a); err != nil {
		return false, fmt.Errorf("%s: %w", opAllClose, err)
	}
	if err := ValidateNotNil(b); err != nil {
		return false, fmt.Errorf("%s: %w", opAllClose, err)
	}
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return false, fmt.Errorf("%s: %w", opAllClose, ErrDimensionMismatch)
	}

	// Dense fast-path: operate over flat slices when both are *Dense.
	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			for idx := range da.data {
				if !closeEnough(da.data[idx], db.data[idx], rtol, atol) {
					return false, nil
				}
			}

			return true, nil
		}
	}

	// Generic fallback via At.
	r, c := a.Rows(), a.Cols()
	var av, bv float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			av, _ = a.At(i, j)
			bv, _ = b.At(i, j)
			if !closeEnough(av, bv, rtol, atol) {
				return false, nil
			}
		}
	}

	return true, nil
}

// closeEnough is the scalar AllClose predicate.
func closeEnough(a, b, rtol, atol float64) bool {
	return math.Abs(a-b) <= atol+rtol*math.Abs(b)
}
