// SPDX-License-Identifier: MIT

package sink

// Precision selects the float width used when formatting values.
type Precision int

const (
	// Precision64 writes the shortest decimal that round-trips a float64.
	Precision64 Precision = 64

	// Precision32 narrows each value to float32 first, matching output
	// produced by single-precision implementations.
	Precision32 Precision = 32
)

// DefaultDelimiter joins the values of one row.
const DefaultDelimiter = ","

// Option mutates internal options.
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	delimiter string
	precision Precision
}

// WithDelimiter sets the value separator. Panics on an empty delimiter.
func WithDelimiter(delim string) Option {
	if delim == "" {
		panic("sink: WithDelimiter: delimiter must be non-empty")
	}

	return func(o *Options) { o.delimiter = delim }
}

// WithPrecision selects 64- or 32-bit formatting. Panics on any other value.
func WithPrecision(p Precision) Option {
	if p != Precision64 && p != Precision32 {
		panic("sink: WithPrecision: precision must be 64 or 32")
	}

	return func(o *Options) { o.precision = p }
}

func gatherOptions(opts ...Option) Options {
	o := Options{delimiter: DefaultDelimiter, precision: Precision64}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
