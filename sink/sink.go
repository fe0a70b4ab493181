// SPDX-License-Identifier: MIT

package sink

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/katalvlaran/covar/matrix"
	"github.com/katalvlaran/covar/source"
)

const (
	opWrite     = "sink.Write"
	opWriteFile = "sink.WriteFile"
	opRead      = "sink.Read"
)

// Write serializes m to w, one row per line.
// Dense matrices are formatted straight from their row views; any other
// Matrix is read through At.
//
// Errors: matrix.ErrNilMatrix, or the first write error of w.
// Complexity: O(r·c) time, O(c) extra space.
func Write(w io.Writer, m matrix.Matrix, opts ...Option) error {
	if err := matrix.ValidateNotNil(m); err != nil {
		return sinkErrorf(opWrite, err)
	}
	o := gatherOptions(opts...)
	bw := bufio.NewWriter(w)

	rows, cols := m.Rows(), m.Cols()
	row := make([]float64, cols)
	buf := make([]byte, 0, 32*cols)
	d, isDense := m.(*matrix.Dense)
	var err error
	for i := 0; i < rows; i++ {
		if isDense {
			row, _ = d.RowView(i)
		} else {
			for j := 0; j < cols; j++ {
				if row[j], err = m.At(i, j); err != nil {
					return sinkErrorf(opWrite, err)
				}
			}
		}
		buf = appendRow(buf[:0], row, o)
		if _, err = bw.Write(buf); err != nil {
			return sinkErrorf(opWrite, err)
		}
	}
	if err = bw.Flush(); err != nil {
		return sinkErrorf(opWrite, err)
	}

	return nil
}

// appendRow formats one row, newline included.
func appendRow(buf []byte, row []float64, o Options) []byte {
	for j, v := range row {
		if j > 0 {
			buf = append(buf, o.delimiter...)
		}
		if o.precision == Precision32 {
			buf = strconv.AppendFloat(buf, float64(float32(v)), 'g', -1, 32)
		} else {
			buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
		}
	}

	return append(buf, '\n')
}

// WriteFile serializes m into the file at path, creating or truncating it.
func WriteFile(path string, m matrix.Matrix, opts ...Option) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return sinkErrorf(opWriteFile, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = sinkErrorf(opWriteFile, cerr)
		}
	}()

	return Write(f, m, opts...)
}

// Read parses a grid written by Write. Every row must have as many values
// as the first one. Blank lines are ignored.
//
// Errors:
//   - ErrEmptyInput when no row is present,
//   - ErrMalformedInput for a value that is not a number,
//   - matrix.ErrDimensionMismatch for a ragged row,
//   - any error of r, wrapped.
func Read(r io.Reader, opts ...Option) (*matrix.Dense, error) {
	o := gatherOptions(opts...)

	var (
		data   []float64
		rows   int
		cols   int
		lineNo int
	)
	for line, err := range source.Lines(r) {
		lineNo++
		if err != nil {
			return nil, sinkErrorf(opRead, err)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, o.delimiter)
		if rows == 0 {
			cols = len(fields)
		} else if len(fields) != cols {
			return nil, fmt.Errorf("%s: line %d: %d values, want %d: %w",
				opRead, lineNo, len(fields), cols, matrix.ErrDimensionMismatch)
		}
		for j, tok := range fields {
			v, perr := strconv.ParseFloat(strings.TrimSpace(tok), 64)
			if perr != nil {
				return nil, fmt.Errorf("%s: line %d: column %d: token %q: %w",
					opRead, lineNo, j+1, tok, ErrMalformedInput)
			}
			data = append(data, v)
		}
		rows++
	}
	if rows == 0 {
		return nil, sinkErrorf(opRead, ErrEmptyInput)
	}

	// Filled through row views: NaN cells written under a relaxed finite
	// policy must read back as NaN.
	m, err := matrix.NewDense(rows, cols)
	if err != nil {
		return nil, sinkErrorf(opRead, err)
	}
	var dst []float64
	for i := 0; i < rows; i++ {
		dst, _ = m.RowView(i)
		copy(dst, data[i*cols:(i+1)*cols])
	}

	return m, nil
}
