// SPDX-License-Identifier: MIT

package moments

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-vecmath"

	"github.com/katalvlaran/covar/matrix"
)

// Operation name constants for unified error wrapping.
const (
	opNew           = "moments.New"
	opObserve       = "Accumulator.Observe"
	opObserveRecord = "Accumulator.ObserveRecord"
	opMerge         = "Accumulator.Merge"
	opFinalize      = "Accumulator.Finalize"
)

// Moments is the finalized output of an Accumulator.
type Moments struct {
	N        int           // number of records observed (≥ 1)
	Means    []float64     // E[X_i], len D
	RawMeans *matrix.Dense // E[X_i X_j], D×D, symmetric
}

// Dim returns D.
func (m Moments) Dim() int { return len(m.Means) }

// Accumulator holds the running sums of one single-pass computation.
// It is a plain value owned by its caller: no package-level state, not safe
// for concurrent use. Build one per goroutine and Merge them afterwards.
type Accumulator struct {
	dim  int
	n    int
	sums []float64     // Σ x_i
	raw  *matrix.Dense // Σ x_i·x_j

	scratch []float64 // x_i · x, reused by every Observe
	padded  []float64 // ShortZeroPad staging buffer
	parsed  []float64 // ObserveRecord parse buffer

	opts Options
}

// New creates an accumulator for records of dim values.
// Implementation:
//   - Stage 1: validate 0 < dim ≤ max dimension (WithMaxDim, DefaultMaxDim).
//   - Stage 2: allocate sums (D), raw grid (D×D) and the reusable buffers.
//
// Errors:
//   - ErrBadDimension for dim ≤ 0 or dim above the bound.
//
// Complexity:
//   - Time O(D²), Space O(D²).
func New(dim int, opts ...Option) (*Accumulator, error) {
	if dim <= 0 {
		return nil, momentsErrorf(opNew, ErrBadDimension)
	}
	o := gatherOptions(opts...)
	if dim > o.maxDim {
		return nil, fmt.Errorf("%s: dimension %d exceeds limit %d: %w", opNew, dim, o.maxDim, ErrBadDimension)
	}
	raw, err := matrix.NewDense(dim, dim)
	if err != nil {
		return nil, momentsErrorf(opNew, err)
	}

	return &Accumulator{
		dim:     dim,
		sums:    make([]float64, dim),
		raw:     raw,
		scratch: make([]float64, dim),
		padded:  make([]float64, dim),
		parsed:  make([]float64, dim),
		opts:    o,
	}, nil
}

// Dim returns the dimension count D.
func (a *Accumulator) Dim() int { return a.dim }

// Count returns the number of records applied so far.
func (a *Accumulator) Count() int { return a.n }

// Observe applies one numeric record.
// Implementation:
//   - Stage 1: shape check; more than D values is ErrShapeMismatch and nothing is applied.
//   - Stage 2: short-record policy (reject or zero-pad).
//   - Stage 3: optional finite check, still before any mutation.
//   - Stage 4: for i in index order: sums[i] += x_i and raw row i[:k] += x_i · x[:k].
//     sums are touched once per i (outer pass), never inside the pair loop.
//
// Behavior highlights:
//   - A failed record leaves the accumulator exactly as it was.
//   - Row i is updated with one scale kernel and one add kernel; each cell
//     still receives x_i·x_j added in record order, so results match a scalar loop.
//
// Errors:
//   - ErrShapeMismatch, ErrNonFinite.
//
// Complexity:
//   - Time O(k²) for k values, Space O(1) (buffers are preallocated).
func (a *Accumulator) Observe(values []float64) error {
	k := len(values)
	if k > a.dim {
		return fmt.Errorf("%s: %d values, dimension %d: %w", opObserve, k, a.dim, ErrShapeMismatch)
	}
	if k < a.dim {
		switch a.opts.short {
		case ShortReject:
			return fmt.Errorf("%s: %d values, dimension %d: %w", opObserve, k, a.dim, ErrShapeMismatch)
		case ShortZeroPad:
			copy(a.padded, values)
			clear(a.padded[k:])
			values, k = a.padded, a.dim
		}
	}

	if a.opts.validateFinite {
		for j, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%s: column %d: %w", opObserve, j+1, ErrNonFinite)
			}
		}
	}

	var (
		i   int
		vi  float64
		row []float64
		buf = a.scratch[:k]
	)
	for i = 0; i < k; i++ {
		vi = values[i]
		a.sums[i] += vi

		row, _ = a.raw.RowView(i) // i < dim, cannot fail
		vecmath.ScaleBlock(buf, values, vi)
		vecmath.AddBlockInPlace(row[:k], buf)
	}
	a.n++

	return nil
}

// ObserveRecord splits line on the delimiter, parses every trimmed token as
// float64 and applies the record.
// Implementation:
//   - Stage 1: split, then reject more than D tokens before parsing anything.
//   - Stage 2: parse each token; the first failure aborts the record.
//   - Stage 3: delegate to Observe.
//
// Errors:
//   - ErrShapeMismatch, ErrMalformedInput (with column and token), ErrNonFinite.
func (a *Accumulator) ObserveRecord(line string) error {
	fields := strings.Split(line, a.opts.delimiter)
	if len(fields) > a.dim {
		return fmt.Errorf("%s: %d fields, dimension %d: %w", opObserveRecord, len(fields), a.dim, ErrShapeMismatch)
	}

	vals := a.parsed[:len(fields)]
	for j, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return fmt.Errorf("%s: column %d: token %q: %w", opObserveRecord, j+1, f, ErrMalformedInput)
		}
		vals[j] = v
	}

	return a.Observe(vals)
}

// Merge adds other's counts and sums into a. other is left untouched.
// Implementation:
//   - Stage 1: nil and dimension checks.
//   - Stage 2: elementwise add of sums and every raw row.
//
// Behavior highlights:
//   - Merging accumulators built over disjoint row partitions yields the same
//     moments as one accumulator over all rows (up to floating-point rounding
//     from the changed summation order).
//
// Errors:
//   - ErrShapeMismatch when dimensions differ.
//
// Complexity:
//   - Time O(D²), Space O(1).
func (a *Accumulator) Merge(other *Accumulator) error {
	if other == nil {
		return nil
	}
	if other.dim != a.dim {
		return fmt.Errorf("%s: dimension %d vs %d: %w", opMerge, a.dim, other.dim, ErrShapeMismatch)
	}

	vecmath.AddBlockInPlace(a.sums, other.sums)
	var dst, src []float64
	for i := 0; i < a.dim; i++ {
		dst, _ = a.raw.RowView(i)
		src, _ = other.raw.RowView(i)
		vecmath.AddBlockInPlace(dst, src)
	}
	a.n += other.n

	return nil
}

// Finalize divides sums and raw products by N.
// Implementation:
//   - Stage 1: N == 0 is ErrEmptyInput; no division is attempted.
//   - Stage 2: means[i] = sums[i]/N; rawMeans[i][j] = raw[i][j]/N into fresh storage.
//
// Behavior highlights:
//   - Does not mutate the accumulator; more records may be observed afterwards.
//   - Uses true division (not multiplication by 1/N) so exact inputs stay exact.
//
// Errors:
//   - ErrEmptyInput.
//
// Complexity:
//   - Time O(D²), Space O(D²).
func (a *Accumulator) Finalize() (Moments, error) {
	if a.n == 0 {
		return Moments{}, momentsErrorf(opFinalize, ErrEmptyInput)
	}

	n := float64(a.n)
	means := make([]float64, a.dim)
	for i, s := range a.sums {
		means[i] = s / n
	}

	rawMeans, err := matrix.NewDense(a.dim, a.dim)
	if err != nil {
		return Moments{}, momentsErrorf(opFinalize, err)
	}
	var dst, src []float64
	for i := 0; i < a.dim; i++ {
		dst, _ = rawMeans.RowView(i)
		src, _ = a.raw.RowView(i)
		for j, v := range src {
			dst[j] = v / n
		}
	}

	return Moments{N: a.n, Means: means, RawMeans: rawMeans}, nil
}
