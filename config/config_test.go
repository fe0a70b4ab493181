// SPDX-License-Identifier: MIT

package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/katalvlaran/covar/config"
	"github.com/katalvlaran/covar/moments"
)

func writeTOML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "covar.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestDefault(t *testing.T) {
	Convey("Default is already valid", t, func() {
		cfg := config.Default()
		So(cfg.Validate(), ShouldBeNil)
		So(cfg.Compute.Delimiter, ShouldEqual, ",")
		So(cfg.Compute.Precision, ShouldEqual, 64)
		So(cfg.Log.Level, ShouldEqual, "info")

		p, err := cfg.Compute.ShortRecordPolicy()
		So(err, ShouldBeNil)
		So(p, ShouldEqual, moments.ShortReject)
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a complete file", t, func() {
		path := writeTOML(t, `
input = "data.csv"
output = "cov.csv"

[compute]
delimiter = ";"
short-records = "pad"
workers = 4
batch-size = 128
precision = 32
max-dim = 64

[log]
level = "debug"
format = "json"
filename = "covar.log"
max-backups = 3
`)

		Convey("every key is decoded", func() {
			cfg, err := config.Load(path)
			So(err, ShouldBeNil)
			So(cfg.Input, ShouldEqual, "data.csv")
			So(cfg.Output, ShouldEqual, "cov.csv")
			So(cfg.Compute.Delimiter, ShouldEqual, ";")
			So(cfg.Compute.Workers, ShouldEqual, 4)
			So(cfg.Compute.BatchSize, ShouldEqual, 128)
			So(cfg.Compute.Precision, ShouldEqual, 32)
			So(cfg.Compute.MaxDim, ShouldEqual, 64)
			So(cfg.Log.Format, ShouldEqual, "json")
			So(cfg.Log.MaxBackups, ShouldEqual, 3)

			p, err := cfg.Compute.ShortRecordPolicy()
			So(err, ShouldBeNil)
			So(p, ShouldEqual, moments.ShortZeroPad)
		})
	})

	Convey("Given a partial file", t, func() {
		path := writeTOML(t, "input = \"x.csv\"\n")

		Convey("missing keys keep their defaults", func() {
			cfg, err := config.Load(path)
			So(err, ShouldBeNil)
			So(cfg.Compute.BatchSize, ShouldEqual, config.DefaultBatchSize)
			So(cfg.Log.MaxSize, ShouldEqual, config.DefaultLogMaxSize)
			So(cfg.Compute.MaxDim, ShouldEqual, moments.DefaultMaxDim)
		})
	})

	Convey("Load rejects", t, func() {
		Convey("unknown keys", func() {
			_, err := config.Load(writeTOML(t, "[compute]\nworkerz = 2\n"))
			So(errors.Is(err, config.ErrUnknownKey), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "compute.workerz")
		})

		Convey("an unknown short-record policy", func() {
			_, err := config.Load(writeTOML(t, "[compute]\nshort-records = \"truncate\"\n"))
			So(errors.Is(err, config.ErrInvalid), ShouldBeTrue)
		})

		Convey("a bad precision", func() {
			_, err := config.Load(writeTOML(t, "[compute]\nprecision = 16\n"))
			So(errors.Is(err, config.ErrInvalid), ShouldBeTrue)
		})

		Convey("a negative max-dim", func() {
			_, err := config.Load(writeTOML(t, "[compute]\nmax-dim = -1\n"))
			So(errors.Is(err, config.ErrInvalid), ShouldBeTrue)
		})

		Convey("a bad log format", func() {
			_, err := config.Load(writeTOML(t, "[log]\nformat = \"xml\"\n"))
			So(errors.Is(err, config.ErrInvalid), ShouldBeTrue)
		})

		Convey("a missing file", func() {
			_, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
			So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
		})

		Convey("broken TOML", func() {
			_, err := config.Load(writeTOML(t, "input = \n"))
			So(err, ShouldNotBeNil)
		})
	})
}
