// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Batch statistics over an in-memory data matrix (rows = observations,
//     columns = variables), used as the two-pass reference for the streaming
//     raw-moments pipeline and to derive correlation from covariance.
//
// Exposed API:
//   - CenterColumns(X)  -> (Xc, means)   // subtract per-column mean
//   - Covariance(X)     -> (Cov, means)  // population covariance: (Xcᵀ Xc)/r
//   - Correlation(Cov)  -> Corr          // Pearson correlation of a covariance matrix

package matrix

import "math"

const (
	opCenterColumns = "CenterColumns"
	opCovariance    = "Covariance"
	opCorrelation   = "Correlation"
)

func statsErrorf(op string, err error) error { return validatorErrorf(op, err) }

// CenterColumns subtracts the per-column mean from every element.
// Implementation:
//   - Stage 1: Validate X (non-nil, at least one row).
//   - Stage 2: Column sums in fixed i→j order, then divide by r.
//   - Stage 3: Write X[i,j] − mean[j] into a new Dense.
//
// Errors:
//   - ErrNilMatrix, ErrInvalidDimensions (r == 0 or c == 0), wrapped At errors.
//
// Complexity:
//   - Time O(r*c), Space O(r*c) (+ O(c) means).
func CenterColumns(X Matrix) (*Dense, []float64, error) {
	// Stage 1 (Validate).
	if err := ValidateNotNil(X); err != nil {
		return nil, nil, statsErrorf(opCenterColumns, err)
	}
	r, c := X.Rows(), X.Cols()
	if r == 0 || c == 0 {
		return nil, nil, statsErrorf(opCenterColumns, ErrInvalidDimensions)
	}
	out, err := NewDense(r, c)
	if err != nil {
		return nil, nil, statsErrorf(opCenterColumns, err)
	}

	// Stage 2 (Means): copy X into out while summing.
	means := make([]float64, c)
	var i, j int
	if d, ok := X.(*Dense); ok {
		copy(out.data, d.data)
	} else {
		for i = 0; i < r; i++ {
			for j = 0; j < c; j++ {
				if out.data[i*c+j], err = X.At(i, j); err != nil {
					return nil, nil, statsErrorf(opCenterColumns, err)
				}
			}
		}
	}
	for i = 0; i < r; i++ {
		base := i * c
		for j = 0; j < c; j++ {
			means[j] += out.data[base+j]
		}
	}
	for j = 0; j < c; j++ {
		means[j] /= float64(r)
	}

	// Stage 3 (Center).
	for i = 0; i < r; i++ {
		base := i * c
		for j = 0; j < c; j++ {
			out.data[base+j] -= means[j]
		}
	}

	return out, means, nil
}

// Covariance computes the population covariance of the columns of X,
// Cov = (Xcᵀ Xc)/r, by centering first. It needs the whole data set in memory
// and avoids the cancellation of the single-pass raw-moments identity.
// Implementation:
//   - Stage 1: CenterColumns.
//   - Stage 2: accumulate outer products row by row over the upper triangle,
//     then mirror, so the result is bitwise symmetric.
//
// Errors:
//   - ErrNilMatrix, ErrInvalidDimensions (no rows or no columns).
//
// Complexity:
//   - Time O(r*c²), Space O(r*c + c²).
func Covariance(X Matrix) (*Dense, []float64, error) {
	// Stage 1 (Center).
	Xc, means, err := CenterColumns(X)
	if err != nil {
		return nil, nil, statsErrorf(opCovariance, err)
	}
	r, c := Xc.r, Xc.c
	cov, err := NewDense(c, c)
	if err != nil {
		return nil, nil, statsErrorf(opCovariance, err)
	}

	// Stage 2 (Outer products).
	var i, j, k int
	for k = 0; k < r; k++ {
		row := Xc.data[k*c : (k+1)*c]
		for i = 0; i < c; i++ {
			for j = i; j < c; j++ {
				cov.data[i*c+j] += row[i] * row[j]
			}
		}
	}
	n := float64(r)
	for i = 0; i < c; i++ {
		for j = i; j < c; j++ {
			cov.data[i*c+j] /= n
			cov.data[j*c+i] = cov.data[i*c+j]
		}
	}

	return cov, means, nil
}

// Correlation converts a covariance matrix into Pearson correlation:
// Corr[i,j] = Cov[i,j] / sqrt(Cov[i,i]·Cov[j,j]).
//
// A variable with zero (or negative, from rounding) variance has no defined
// correlation; its row and column are 0, diagonal included.
//
// Errors: ErrNilMatrix, ErrDimensionMismatch (not square).
// Complexity: O(c²).
func Correlation(cov Matrix) (*Dense, error) {
	if err := ValidateSquare(cov); err != nil {
		return nil, statsErrorf(opCorrelation, err)
	}
	c := cov.Rows()
	out, err := NewDense(c, c)
	if err != nil {
		return nil, statsErrorf(opCorrelation, err)
	}

	std := make([]float64, c)
	var i, j int
	var v float64
	for i = 0; i < c; i++ {
		if v, err = cov.At(i, i); err != nil {
			return nil, statsErrorf(opCorrelation, err)
		}
		if v > 0 {
			std[i] = math.Sqrt(v)
		}
	}
	for i = 0; i < c; i++ {
		if std[i] == 0 {
			continue
		}
		for j = i; j < c; j++ {
			if std[j] == 0 {
				continue
			}
			if v, err = cov.At(i, j); err != nil {
				return nil, statsErrorf(opCorrelation, err)
			}
			v /= std[i] * std[j]
			if i == j {
				v = 1
			}
			out.data[i*c+j] = v
			out.data[j*c+i] = v
		}
	}

	return out, nil
}
