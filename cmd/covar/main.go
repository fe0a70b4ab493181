// SPDX-License-Identifier: MIT

// Command covar computes the population covariance matrix of a headered,
// delimited numeric file and writes it one row per line.
//
// Usage:
//
//	covar -in data.csv
//	covar -in data.csv -out cov.csv -workers 8
//	covar -config covar.toml -log-level debug
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/katalvlaran/covar/config"
	"github.com/katalvlaran/covar/covariance"
	"github.com/katalvlaran/covar/internal/logutil"
	"github.com/katalvlaran/covar/matrix"
	"github.com/katalvlaran/covar/moments"
	"github.com/katalvlaran/covar/sink"
	"github.com/katalvlaran/covar/source"
)

const version = "0.1.0"

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// flags are the command-line values; only those set explicitly override the config file.
type flags struct {
	configPath string
	input      string
	output     string
	delimiter  string
	short      string
	workers    int
	batchSize  int
	precision  int
	maxDim     int
	logLevel   string
	logFormat  string
	corr       bool
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (flags, map[string]bool, error) {
	var f flags
	fs := flag.NewFlagSet("covar", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.configPath, "config", "", "path to a TOML config file")
	fs.StringVar(&f.input, "in", "", "input data file (first line is the header)")
	fs.StringVar(&f.output, "out", "", "output file (default stdout)")
	fs.StringVar(&f.delimiter, "delim", config.DefaultDelimiter, "field delimiter")
	fs.StringVar(&f.short, "short", "reject", "short records: reject or pad")
	fs.IntVar(&f.workers, "workers", 0, "parallel workers (0 or 1 runs sequentially)")
	fs.IntVar(&f.batchSize, "batch", config.DefaultBatchSize, "records per parallel task")
	fs.IntVar(&f.precision, "precision", config.DefaultPrecision, "output precision: 64 or 32")
	fs.IntVar(&f.maxDim, "max-dim", moments.DefaultMaxDim, "largest accepted header field count")
	fs.StringVar(&f.logLevel, "log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", config.DefaultLogFormat, "log format: console or json")
	fs.BoolVar(&f.corr, "corr", false, "write the correlation matrix instead of the covariance")
	fs.BoolVar(&f.version, "version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: covar -in data.csv [-out cov.csv] [-config covar.toml]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return f, nil, err
	}
	set := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	return f, set, nil
}

// loadConfig reads the config file (if any) and applies explicitly set flags.
func loadConfig(f flags, set map[string]bool) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return config.Config{}, err
		}
	}
	if set["in"] {
		cfg.Input = f.input
	}
	if set["out"] {
		cfg.Output = f.output
	}
	if set["delim"] {
		cfg.Compute.Delimiter = f.delimiter
	}
	if set["short"] {
		cfg.Compute.ShortRecords = f.short
	}
	if set["workers"] {
		cfg.Compute.Workers = f.workers
	}
	if set["batch"] {
		cfg.Compute.BatchSize = f.batchSize
	}
	if set["precision"] {
		cfg.Compute.Precision = f.precision
	}
	if set["max-dim"] {
		cfg.Compute.MaxDim = f.maxDim
	}
	if set["corr"] {
		cfg.Compute.Correlation = f.corr
	}
	if set["log-level"] {
		cfg.Log.Level = f.logLevel
	}
	if set["log-format"] {
		cfg.Log.Format = f.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	if cfg.Input == "" {
		return config.Config{}, fmt.Errorf("%w: no input file (-in)", config.ErrInvalid)
	}

	return cfg, nil
}

// computeOptions maps the compute section onto pipeline options.
func computeOptions(cfg config.ComputeConfig, logger *zap.Logger) ([]covariance.Option, error) {
	policy, err := cfg.ShortRecordPolicy()
	if err != nil {
		return nil, err
	}
	opts := []covariance.Option{
		covariance.WithDelimiter(cfg.Delimiter),
		covariance.WithShortRecords(policy),
		covariance.WithValidateFinite(!cfg.AllowNonFinite),
		covariance.WithSkipBlankLines(!cfg.KeepBlankLines),
		covariance.WithBatchSize(cfg.BatchSize),
		covariance.WithMaxDim(cfg.MaxDim),
		covariance.WithLogger(logger),
	}
	if cfg.Workers > 0 {
		opts = append(opts, covariance.WithWorkers(cfg.Workers))
	}

	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	f, set, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}

		return exitUsage
	}
	if f.version {
		fmt.Fprintf(stdout, "covar %s\n", version)

		return exitOK
	}

	cfg, err := loadConfig(f, set)
	if err != nil {
		fmt.Fprintln(stderr, "covar:", err)

		return exitUsage
	}
	logger, closeLog, err := logutil.New(cfg.Log, stderr)
	if err != nil {
		fmt.Fprintln(stderr, "covar:", err)

		return exitUsage
	}
	defer func() { _ = closeLog() }()

	opts, err := computeOptions(cfg.Compute, logger)
	if err != nil {
		logger.Error("invalid compute options", zap.Error(err))

		return exitUsage
	}

	var cov *matrix.Dense
	if cfg.Compute.Workers > 1 {
		cov, err = covariance.ComputeParallel(ctx, source.File(cfg.Input), opts...)
	} else {
		cov, err = covariance.ComputeFile(cfg.Input, opts...)
	}
	if err != nil {
		logger.Error("covariance failed", zap.String("input", cfg.Input), zap.Error(err))

		return exitError
	}
	if cfg.Compute.Correlation {
		if cov, err = matrix.Correlation(cov); err != nil {
			logger.Error("correlation failed", zap.Error(err))

			return exitError
		}
	}

	precision := sink.Precision64
	if cfg.Compute.Precision == 32 {
		precision = sink.Precision32
	}
	if cfg.Output == "" {
		err = sink.Write(stdout, cov, sink.WithPrecision(precision))
	} else {
		err = sink.WriteFile(cfg.Output, cov, sink.WithPrecision(precision))
	}
	if err != nil {
		logger.Error("write failed", zap.String("output", cfg.Output), zap.Error(err))

		return exitError
	}
	logger.Debug("matrix written",
		zap.String("output", cfg.Output),
		zap.Int("precision", cfg.Compute.Precision),
	)

	return exitOK
}
