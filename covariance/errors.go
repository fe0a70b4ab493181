// SPDX-License-Identifier: MIT

package covariance

import "github.com/katalvlaran/covar/moments"

// Error kinds surfaced by the pipelines. They are the moments sentinels,
// re-exported so callers of this package need a single import.
var (
	// ErrMalformedInput: a token does not parse as a number.
	ErrMalformedInput = moments.ErrMalformedInput

	// ErrShapeMismatch: a record has more tokens than the header (or fewer, when rejected).
	ErrShapeMismatch = moments.ErrShapeMismatch

	// ErrEmptyInput: no header line, or a header but zero data records.
	ErrEmptyInput = moments.ErrEmptyInput

	// ErrNonFinite: a NaN/±Inf token while finite validation is on.
	ErrNonFinite = moments.ErrNonFinite

	// ErrBadDimension: the header's field count exceeds the WithMaxDim limit.
	ErrBadDimension = moments.ErrBadDimension
)
