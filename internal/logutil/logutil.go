// SPDX-License-Identifier: MIT

// Package logutil builds the process zap logger from a config.LogConfig.
package logutil

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/katalvlaran/covar/config"
)

// New returns a logger writing cfg.Format-encoded entries at cfg.Level or
// above, to a rotated file when cfg.Filename is set and to console otherwise.
// The returned close func flushes the logger and releases the log file; call
// it once, after the last entry.
func New(cfg config.LogConfig, console io.Writer) (*zap.Logger, func() error, error) {
	level, err := getLevel(cfg)
	if err != nil {
		return nil, nil, err
	}
	syncer, file := getSyncer(cfg, console)
	core := zapcore.NewCore(getEncoder(cfg), syncer, level)
	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.FatalLevel))

	closeFn := func() error {
		err := logger.Sync()
		if file != nil {
			err = errors.Join(err, file.Close())
		}

		return err
	}

	return logger, closeFn, nil
}

func getLevel(cfg config.LogConfig) (zap.AtomicLevel, error) {
	level := zap.NewAtomicLevel()
	if cfg.Level == "" {
		return level, nil // info
	}
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return level, fmt.Errorf("logutil: level %q: %w", cfg.Level, err)
	}

	return level, nil
}

func getEncoder(cfg config.LogConfig) zapcore.Encoder {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeDuration = zapcore.StringDurationEncoder
	if cfg.Format == "json" {
		return zapcore.NewJSONEncoder(encCfg)
	}
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	return zapcore.NewConsoleEncoder(encCfg)
}

// getSyncer returns the entry sink and, for file output, the rotating writer
// behind it so the caller can close it.
func getSyncer(cfg config.LogConfig, console io.Writer) (zapcore.WriteSyncer, *lumberjack.Logger) {
	if cfg.Filename == "" {
		return zapcore.Lock(zapcore.AddSync(console)), nil
	}
	file := &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxAge:     cfg.MaxDays,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
	}

	return zapcore.AddSync(file), file
}
