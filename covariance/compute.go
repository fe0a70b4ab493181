// SPDX-License-Identifier: MIT

package covariance

import (
	"fmt"
	"io"
	"iter"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/covar/matrix"
	"github.com/katalvlaran/covar/moments"
	"github.com/katalvlaran/covar/source"
)

// Operation name constants for unified error wrapping.
const (
	opCompute         = "covariance.Compute"
	opComputeParallel = "covariance.ComputeParallel"
)

// Compute reads the header from the first line, streams every remaining line
// through one accumulator and assembles the covariance matrix.
// Implementation:
//   - Stage 1: first line → D = field count (blank or missing header is ErrEmptyInput).
//   - Stage 2: each data line → Accumulator.ObserveRecord, in input order.
//   - Stage 3: Finalize (ErrEmptyInput on zero records) → Assemble.
//
// Behavior highlights:
//   - The header line is never accumulated.
//   - Any error aborts immediately; no partial matrix is returned.
//   - Source errors are wrapped with %w and otherwise left untouched.
//
// Errors:
//   - ErrEmptyInput, ErrShapeMismatch, ErrMalformedInput, ErrNonFinite,
//     or whatever the line source yields. Record errors carry the 1-based line number.
//
// Complexity:
//   - Time O(N·D²), Space O(D²).
func Compute(lines iter.Seq2[string, error], opts ...Option) (*matrix.Dense, error) {
	o := gatherOptions(opts...)
	start := time.Now()

	var (
		acc    *moments.Accumulator
		lineNo int
		err    error
	)
	for line, readErr := range lines {
		lineNo++
		if readErr != nil {
			return nil, fmt.Errorf("%s: %w", opCompute, readErr)
		}
		// Stage 1 (Header).
		if acc == nil {
			if acc, err = newHeaderAccumulator(line, o); err != nil {
				return nil, fmt.Errorf("%s: %w", opCompute, err)
			}
			continue
		}
		// Stage 2 (Accumulate).
		if o.skipBlank && isBlank(line) {
			continue
		}
		if err = acc.ObserveRecord(line); err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", opCompute, lineNo, err)
		}
	}
	if acc == nil {
		return nil, fmt.Errorf("%s: missing header: %w", opCompute, ErrEmptyInput)
	}

	// Stage 3 (Finalize + Assemble).
	cov, err := finish(acc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opCompute, err)
	}
	o.logger.Info("covariance computed",
		zap.Int("dim", acc.Dim()),
		zap.Int("rows", acc.Count()),
		zap.Duration("elapsed", time.Since(start)),
	)

	return cov, nil
}

// ComputeReader is Compute over the lines of r.
func ComputeReader(r io.Reader, opts ...Option) (*matrix.Dense, error) {
	return Compute(source.Lines(r), opts...)
}

// ComputeFile is Compute over the lines of the file at path. Open and read
// failures keep their os/fs identity (errors.Is(err, fs.ErrNotExist) holds).
func ComputeFile(path string, opts ...Option) (*matrix.Dense, error) {
	return Compute(source.File(path), opts...)
}

// newHeaderAccumulator derives D from the header line and allocates the accumulator.
func newHeaderAccumulator(header string, o Options) (*moments.Accumulator, error) {
	if isBlank(header) {
		return nil, fmt.Errorf("blank header line: %w", ErrEmptyInput)
	}
	dim := source.FieldCount(header, o.delimiter)

	return moments.New(dim, o.momentOptions()...)
}

// finish finalizes acc and assembles the covariance matrix.
func finish(acc *moments.Accumulator) (*matrix.Dense, error) {
	m, err := acc.Finalize()
	if err != nil {
		return nil, err
	}

	return FromMoments(m)
}

func isBlank(line string) bool { return strings.TrimSpace(line) == "" }
