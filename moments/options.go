// SPDX-License-Identifier: MIT

// Package moments: functional configuration for the accumulator.
// This file defines:
//   - ShortRecordPolicy and its textual names,
//   - documented defaults (constants),
//   - WithX constructors (panic only on nonsensical values),
//   - gatherOptions helper (internal).
package moments

import (
	"fmt"
	"strings"
)

// ShortRecordPolicy decides what happens to a record carrying fewer values than
// the dimension count.
type ShortRecordPolicy int

const (
	// ShortReject fails the record with ErrShapeMismatch.
	ShortReject ShortRecordPolicy = iota

	// ShortZeroPad treats every missing trailing position as an explicit 0 value.
	// This reproduces the legacy element-wise behavior exactly: a position that
	// is never visited and a position that contributes 0 leave identical sums.
	ShortZeroPad
)

// Textual names accepted by ParseShortRecordPolicy (config files, CLI flags).
const (
	shortRejectName  = "reject"
	shortZeroPadName = "pad"
)

// String returns the textual name of the policy.
func (p ShortRecordPolicy) String() string {
	switch p {
	case ShortReject:
		return shortRejectName
	case ShortZeroPad:
		return shortZeroPadName
	default:
		return fmt.Sprintf("ShortRecordPolicy(%d)", int(p))
	}
}

// ParseShortRecordPolicy maps "reject" or "pad" (case-insensitive)
// to a policy. The empty string yields DefaultShortRecords.
func ParseShortRecordPolicy(s string) (ShortRecordPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultShortRecords, nil
	case shortRejectName:
		return ShortReject, nil
	case shortZeroPadName:
		return ShortZeroPad, nil
	}

	return 0, fmt.Errorf("moments: unknown short-record policy %q", s)
}

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultDelimiter separates tokens inside one record.
	DefaultDelimiter = ","

	// DefaultShortRecords rejects short records instead of silently under-counting.
	DefaultShortRecords = ShortReject

	// DefaultValidateFinite rejects NaN/±Inf tokens; one of them would poison
	// every cell of its row and column.
	DefaultValidateFinite = true

	// DefaultMaxDim bounds D; the raw grid alone takes 8·D² bytes (2 GiB here).
	DefaultMaxDim = 1 << 14
)

const (
	panicDelimiterEmpty = "moments: WithDelimiter: delimiter must be non-empty"
	panicPolicyInvalid  = "moments: WithShortRecords: unknown policy"
	panicMaxDimInvalid  = "moments: WithMaxDim: limit must be >= 1"
)

// Option mutates internal options. Safe to apply repeatedly.
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	delimiter      string
	short          ShortRecordPolicy
	validateFinite bool
	maxDim         int
}

// WithDelimiter sets the token separator used by ObserveRecord.
// Panics on an empty delimiter (programmer error).
func WithDelimiter(delim string) Option {
	if delim == "" {
		panic(panicDelimiterEmpty)
	}

	return func(o *Options) { o.delimiter = delim }
}

// WithShortRecords selects the short-record policy.
// Panics on a value outside the declared policies.
func WithShortRecords(p ShortRecordPolicy) Option {
	if p < ShortReject || p > ShortZeroPad {
		panic(panicPolicyInvalid)
	}

	return func(o *Options) { o.short = p }
}

// WithValidateFinite enables (default) or disables NaN/±Inf rejection.
func WithValidateFinite(on bool) Option {
	return func(o *Options) { o.validateFinite = on }
}

// WithMaxDim bounds the dimension count New accepts. Panics when n < 1.
func WithMaxDim(n int) Option {
	if n < 1 {
		panic(panicMaxDimInvalid)
	}

	return func(o *Options) { o.maxDim = n }
}

// gatherOptions resolves defaults and applies opts in order.
func gatherOptions(opts ...Option) Options {
	o := Options{
		delimiter:      DefaultDelimiter,
		short:          DefaultShortRecords,
		validateFinite: DefaultValidateFinite,
		maxDim:         DefaultMaxDim,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
