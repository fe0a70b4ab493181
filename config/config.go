// SPDX-License-Identifier: MIT

// Package config holds the run configuration of the covar command, decoded
// from TOML. Command-line flags are applied on top of a loaded Config.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/katalvlaran/covar/moments"
)

// Sentinel errors returned by Load and Validate.
var (
	// ErrUnknownKey: the file carries a key no Config field decodes.
	ErrUnknownKey = errors.New("config: unknown key")

	// ErrInvalid: a value is outside its accepted range.
	ErrInvalid = errors.New("config: invalid value")
)

// Defaults applied by Default and by Load for keys the file leaves out.
const (
	DefaultDelimiter  = ","
	DefaultBatchSize  = 4096
	DefaultPrecision  = 64
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "console"
	DefaultLogMaxSize = 100 // megabytes
)

// Config is the full run configuration.
type Config struct {
	// Input path of the headered data file.
	Input string `toml:"input"`
	// Output path of the serialized matrix; empty writes to stdout.
	Output string `toml:"output"`

	Compute ComputeConfig `toml:"compute"`
	Log     LogConfig     `toml:"log"`
}

// ComputeConfig tunes parsing and the reduction.
type ComputeConfig struct {
	// Delimiter separates the fields of the header and of every record. Default ",".
	Delimiter string `toml:"delimiter"`
	// ShortRecords is "reject" (default) or "pad".
	ShortRecords string `toml:"short-records"`
	// Workers > 1 selects the parallel pipeline. 0 or 1 runs sequentially.
	Workers int `toml:"workers"`
	// BatchSize records per parallel task. Default 4096.
	BatchSize int `toml:"batch-size"`
	// Precision of the written values, 64 (default) or 32.
	Precision int `toml:"precision"`
	// AllowNonFinite accepts NaN/Inf tokens instead of failing the record.
	AllowNonFinite bool `toml:"allow-non-finite"`
	// KeepBlankLines fails on blank data lines instead of skipping them.
	KeepBlankLines bool `toml:"keep-blank-lines"`
	// MaxDim bounds the header's field count D. Default 16384.
	MaxDim int `toml:"max-dim"`
	// Correlation writes the Pearson correlation matrix instead of the covariance.
	Correlation bool `toml:"correlation"`
}

// LogConfig describes the process logger.
type LogConfig struct {
	// Level is a zap level name: debug, info, warn, error. Default info.
	Level string `toml:"level"`
	// Format is "console" (default) or "json".
	Format string `toml:"format"`
	// Filename enables a rotated log file; empty logs to stderr.
	Filename string `toml:"filename"`
	// MaxSize megabytes before rotation. Default 100.
	MaxSize int `toml:"max-size"`
	// MaxDays to retain old files, 0 keeps them forever.
	MaxDays int `toml:"max-days"`
	// MaxBackups old files to retain, 0 keeps them all.
	MaxBackups int `toml:"max-backups"`
	// Compress rotated files with gzip.
	Compress bool `toml:"compress"`
}

// Default returns a Config with every default filled in.
func Default() Config {
	return Config{
		Compute: ComputeConfig{
			Delimiter:    DefaultDelimiter,
			ShortRecords: moments.DefaultShortRecords.String(),
			BatchSize:    DefaultBatchSize,
			Precision:    DefaultPrecision,
			MaxDim:       moments.DefaultMaxDim,
		},
		Log: LogConfig{
			Level:   DefaultLogLevel,
			Format:  DefaultLogFormat,
			MaxSize: DefaultLogMaxSize,
		},
	}
}

// Load decodes the TOML file at path over Default and validates the result.
// Keys that no field decodes are rejected with ErrUnknownKey.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}

		return Config{}, fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(keys, ", "))
	}
	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks every value and fills zero values with their defaults.
func (c *Config) Validate() error {
	if c.Compute.Delimiter == "" {
		c.Compute.Delimiter = DefaultDelimiter
	}
	if _, err := moments.ParseShortRecordPolicy(c.Compute.ShortRecords); err != nil {
		return fmt.Errorf("%w: compute.short-records: %v", ErrInvalid, err)
	}
	if c.Compute.Workers < 0 {
		return fmt.Errorf("%w: compute.workers %d < 0", ErrInvalid, c.Compute.Workers)
	}
	if c.Compute.BatchSize == 0 {
		c.Compute.BatchSize = DefaultBatchSize
	}
	if c.Compute.BatchSize < 0 {
		return fmt.Errorf("%w: compute.batch-size %d < 0", ErrInvalid, c.Compute.BatchSize)
	}
	if c.Compute.MaxDim == 0 {
		c.Compute.MaxDim = moments.DefaultMaxDim
	}
	if c.Compute.MaxDim < 0 {
		return fmt.Errorf("%w: compute.max-dim %d < 0", ErrInvalid, c.Compute.MaxDim)
	}
	if c.Compute.Precision == 0 {
		c.Compute.Precision = DefaultPrecision
	}
	if c.Compute.Precision != 64 && c.Compute.Precision != 32 {
		return fmt.Errorf("%w: compute.precision %d, want 64 or 32", ErrInvalid, c.Compute.Precision)
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("%w: log.format %q, want console or json", ErrInvalid, c.Log.Format)
	}
	if c.Log.MaxSize <= 0 {
		c.Log.MaxSize = DefaultLogMaxSize
	}
	if c.Log.MaxDays < 0 || c.Log.MaxBackups < 0 {
		return fmt.Errorf("%w: log retention must be >= 0", ErrInvalid)
	}

	return nil
}

// ShortRecordPolicy returns the parsed compute.short-records value.
func (c ComputeConfig) ShortRecordPolicy() (moments.ShortRecordPolicy, error) {
	return moments.ParseShortRecordPolicy(c.ShortRecords)
}
