// SPDX-License-Identifier: MIT

package sink

import (
	"fmt"

	"github.com/katalvlaran/covar/moments"
)

// Read failures share the pipeline's error kinds.
var (
	// ErrMalformedInput: a serialized value does not parse as a number.
	ErrMalformedInput = moments.ErrMalformedInput

	// ErrEmptyInput: the serialized grid has no rows.
	ErrEmptyInput = moments.ErrEmptyInput
)

func sinkErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
