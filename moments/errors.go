// SPDX-License-Identifier: MIT

package moments

import (
	"errors"
	"fmt"
)

var (
	// ErrBadDimension indicates a dimension count ≤ 0 or above the configured limit.
	ErrBadDimension = errors.New("moments: invalid dimension count")

	// ErrShapeMismatch indicates a record with more values than the dimension
	// (or fewer, under ShortReject), or a Merge between accumulators of different dimension.
	ErrShapeMismatch = errors.New("moments: input shape mismatch")

	// ErrMalformedInput indicates a token that does not parse as a number.
	ErrMalformedInput = errors.New("moments: malformed numeric token")

	// ErrEmptyInput indicates that no data records were observed before Finalize.
	ErrEmptyInput = errors.New("moments: no data")

	// ErrNonFinite indicates a NaN or ±Inf value while finite validation is enabled.
	ErrNonFinite = errors.New("moments: NaN or Inf value")
)

// momentsErrorf wraps a sentinel with the operation tag.
func momentsErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
