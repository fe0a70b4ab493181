// SPDX-License-Identifier: MIT

// Package covariance: functional options for the Compute pipelines.
// Parsing options are forwarded to moments; the rest tune the parallel
// reduction and logging.
package covariance

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/katalvlaran/covar/moments"
)

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultBatchSize is the number of records one worker accumulates before
	// its partial result is merged.
	DefaultBatchSize = 4096

	// DefaultSkipBlankLines ignores whitespace-only data lines (typically a
	// trailing newline) instead of failing them as malformed.
	DefaultSkipBlankLines = true
)

const (
	panicWorkersInvalid   = "covariance: WithWorkers: workers must be >= 1"
	panicBatchSizeInvalid = "covariance: WithBatchSize: size must be >= 1"
	panicPolicyInvalid    = "covariance: WithShortRecords: unknown policy"
	panicMaxDimInvalid    = "covariance: WithMaxDim: limit must be >= 1"
)

// Option mutates internal options.
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	delimiter      string
	short          moments.ShortRecordPolicy
	validateFinite bool
	skipBlank      bool
	maxDim         int

	workers   int
	batchSize int

	logger *zap.Logger
}

// WithDelimiter sets the token separator for the header and every record.
// Panics on an empty delimiter.
func WithDelimiter(delim string) Option {
	if delim == "" {
		panic("covariance: WithDelimiter: delimiter must be non-empty")
	}

	return func(o *Options) { o.delimiter = delim }
}

// WithShortRecords selects how records with fewer than D values are treated.
// Panics on a value outside the declared policies.
func WithShortRecords(p moments.ShortRecordPolicy) Option {
	if p < moments.ShortReject || p > moments.ShortZeroPad {
		panic(panicPolicyInvalid)
	}

	return func(o *Options) { o.short = p }
}

// WithValidateFinite enables (default) or disables NaN/±Inf rejection.
func WithValidateFinite(on bool) Option {
	return func(o *Options) { o.validateFinite = on }
}

// WithMaxDim bounds the dimension count taken from the header line; a wider
// header fails with ErrBadDimension before the D×D grid is allocated.
// Panics when n < 1.
func WithMaxDim(n int) Option {
	if n < 1 {
		panic(panicMaxDimInvalid)
	}

	return func(o *Options) { o.maxDim = n }
}

// WithSkipBlankLines controls whether whitespace-only data lines are ignored.
func WithSkipBlankLines(on bool) Option {
	return func(o *Options) { o.skipBlank = on }
}

// WithWorkers bounds the goroutines used by ComputeParallel.
// Panics when n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic(panicWorkersInvalid)
	}

	return func(o *Options) { o.workers = n }
}

// WithBatchSize sets how many records a ComputeParallel worker handles per task.
// Panics when n < 1.
func WithBatchSize(n int) Option {
	if n < 1 {
		panic(panicBatchSizeInvalid)
	}

	return func(o *Options) { o.batchSize = n }
}

// WithLogger routes pipeline logs to l. A nil logger disables logging.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l == nil {
			l = zap.NewNop()
		}
		o.logger = l
	}
}

// gatherOptions resolves defaults and applies opts in order.
func gatherOptions(opts ...Option) Options {
	o := Options{
		delimiter:      moments.DefaultDelimiter,
		short:          moments.DefaultShortRecords,
		validateFinite: moments.DefaultValidateFinite,
		skipBlank:      DefaultSkipBlankLines,
		maxDim:         moments.DefaultMaxDim,
		workers:        runtime.GOMAXPROCS(0),
		batchSize:      DefaultBatchSize,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// momentOptions projects the parsing options onto the accumulator.
func (o Options) momentOptions() []moments.Option {
	return []moments.Option{
		moments.WithDelimiter(o.delimiter),
		moments.WithShortRecords(o.short),
		moments.WithValidateFinite(o.validateFinite),
		moments.WithMaxDim(o.maxDim),
	}
}
