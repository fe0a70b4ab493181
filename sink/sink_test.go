// SPDX-License-Identifier: MIT

package sink_test

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/katalvlaran/covar/matrix"
	"github.com/katalvlaran/covar/sink"
)

// opaque hides *matrix.Dense so Write takes its At path.
type opaque struct{ matrix.Matrix }

// failWriter rejects every write.
type failWriter struct{ err error }

func (f failWriter) Write([]byte) (int, error) { return 0, f.err }

func mustDense(r, c int, data ...float64) *matrix.Dense {
	m, err := matrix.NewDenseFrom(r, c, data)
	if err != nil {
		panic(err)
	}

	return m
}

func cells(m matrix.Matrix) []float64 {
	out := make([]float64, 0, m.Rows()*m.Cols())
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			v, _ := m.At(i, j)
			out = append(out, v)
		}
	}

	return out
}

func TestWrite(t *testing.T) {
	Convey("Given the grades covariance matrix", t, func() {
		m := mustDense(3, 3,
			504, 360, 180,
			360, 360, 0,
			180, 0, 720,
		)

		Convey("Write emits one comma-joined row per line", func() {
			var buf bytes.Buffer
			So(sink.Write(&buf, m), ShouldBeNil)
			So(buf.String(), ShouldEqual, "504,360,180\n360,360,0\n180,0,720\n")
		})

		Convey("A generic Matrix is written identically", func() {
			var a, b bytes.Buffer
			So(sink.Write(&a, m), ShouldBeNil)
			So(sink.Write(&b, opaque{m}), ShouldBeNil)
			So(b.String(), ShouldEqual, a.String())
		})

		Convey("A custom delimiter joins the values", func() {
			var buf bytes.Buffer
			So(sink.Write(&buf, m, sink.WithDelimiter("\t")), ShouldBeNil)
			So(strings.Split(buf.String(), "\n")[0], ShouldEqual, "504\t360\t180")
		})
	})

	Convey("Given a fractional value", t, func() {
		m := mustDense(1, 1, 8.0/3.0)

		Convey("64-bit output is the shortest float64 decimal", func() {
			var buf bytes.Buffer
			So(sink.Write(&buf, m), ShouldBeNil)
			So(buf.String(), ShouldEqual, "2.6666666666666665\n")
		})

		Convey("32-bit output is the shortest float32 decimal", func() {
			var buf bytes.Buffer
			So(sink.Write(&buf, m, sink.WithPrecision(sink.Precision32)), ShouldBeNil)
			So(buf.String(), ShouldEqual, "2.6666667\n")
		})
	})

	Convey("Write reports failures", t, func() {
		So(errors.Is(sink.Write(&bytes.Buffer{}, nil), matrix.ErrNilMatrix), ShouldBeTrue)

		boom := errors.New("disk full")
		err := sink.Write(failWriter{boom}, mustDense(1, 1, 1))
		So(errors.Is(err, boom), ShouldBeTrue)
	})

	Convey("Invalid options panic", t, func() {
		So(func() { sink.WithDelimiter("") }, ShouldPanic)
		So(func() { sink.WithPrecision(16) }, ShouldPanic)
	})
}

func TestRoundTrip(t *testing.T) {
	Convey("Given a matrix with awkward float64 values", t, func() {
		m := mustDense(2, 3,
			8.0/3.0, -1e-300, 0.1,
			math.MaxFloat64, 2.0/3.0, 0,
		)

		Convey("Read(Write(m)) reproduces every bit", func() {
			var buf bytes.Buffer
			So(sink.Write(&buf, m), ShouldBeNil)

			got, err := sink.Read(&buf)
			So(err, ShouldBeNil)
			So(got.Rows(), ShouldEqual, 2)
			So(got.Cols(), ShouldEqual, 3)
			So(cells(got), ShouldResemble, cells(m))
		})

		Convey("The round trip also holds through a file", func() {
			path := filepath.Join(t.TempDir(), "cov.csv")
			So(sink.WriteFile(path, m), ShouldBeNil)

			f, err := os.Open(path)
			So(err, ShouldBeNil)
			defer f.Close()
			got, err := sink.Read(f)
			So(err, ShouldBeNil)
			So(cells(got), ShouldResemble, cells(m))
		})
	})

	Convey("NaN cells survive the round trip", t, func() {
		got, err := sink.Read(strings.NewReader("NaN,1\n1,2\n"))
		So(err, ShouldBeNil)
		v, _ := got.At(0, 0)
		So(math.IsNaN(v), ShouldBeTrue)
	})
}

func TestRead(t *testing.T) {
	Convey("Read rejects bad grids", t, func() {
		Convey("empty input", func() {
			_, err := sink.Read(strings.NewReader("\n\n"))
			So(errors.Is(err, sink.ErrEmptyInput), ShouldBeTrue)
		})

		Convey("ragged rows", func() {
			_, err := sink.Read(strings.NewReader("1,2\n3\n"))
			So(errors.Is(err, matrix.ErrDimensionMismatch), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "line 2")
		})

		Convey("a value that is not a number", func() {
			_, err := sink.Read(strings.NewReader("1,2\n3,four\n"))
			So(errors.Is(err, sink.ErrMalformedInput), ShouldBeTrue)
		})

		Convey("a failing reader", func() {
			boom := errors.New("boom")
			_, err := sink.Read(iotest.ErrReader(boom))
			So(errors.Is(err, boom), ShouldBeTrue)
		})
	})

	Convey("WriteFile surfaces create errors", t, func() {
		err := sink.WriteFile(filepath.Join(t.TempDir(), "no", "such", "dir.csv"), mustDense(1, 1, 1))
		So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
	})
}
