// SPDX-License-Identifier: MIT

package source_test

import (
	"errors"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/katalvlaran/covar/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collect drains seq into lines and the first error.
func collect(seq iter.Seq2[string, error]) ([]string, error) {
	var out []string
	for line, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, line)
	}

	return out, nil
}

// TestLines_StripsTerminators checks LF, CRLF and a missing final newline.
func TestLines_StripsTerminators(t *testing.T) {
	got, err := collect(source.Lines(strings.NewReader("a,b\r\n1,2\n3,4")))
	require.NoError(t, err)
	assert.Equal(t, []string{"a,b", "1,2", "3,4"}, got)
}

// TestLines_ReadError surfaces the reader failure unchanged.
func TestLines_ReadError(t *testing.T) {
	boom := errors.New("boom")
	_, err := collect(source.Lines(iotest.ErrReader(boom)))
	require.ErrorIs(t, err, boom)
}

// TestLines_StopsEarly ensures breaking out of the range is honored.
func TestLines_StopsEarly(t *testing.T) {
	n := 0
	for range source.Lines(strings.NewReader("1\n2\n3\n")) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

// TestFile covers a real file and a missing one.
func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,y\n1,2\n"), 0o600))

	got, err := collect(source.File(path))
	require.NoError(t, err)
	assert.Equal(t, []string{"x,y", "1,2"}, got)

	_, err = collect(source.File(filepath.Join(t.TempDir(), "missing.csv")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist), "got %v", err)
}

// TestSliceAndFieldCount covers the in-memory source and header counting.
func TestSliceAndFieldCount(t *testing.T) {
	got, err := collect(source.Slice([]string{"a", "b"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	assert.Equal(t, 3, source.FieldCount("x,y,z", ","))
	assert.Equal(t, 1, source.FieldCount("", ","))
	assert.Equal(t, 2, source.FieldCount("a;b", ";"))
}
