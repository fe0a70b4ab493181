// SPDX-License-Identifier: MIT

// Package source turns readers and files into lazy line sequences for the
// covariance pipeline.
//
// Lines are produced one at a time (iter.Seq2[string, error]) so a file is
// never materialized in memory; the consumer decides how far to read.
// A read failure is yielded once, as the last element, with an empty line.
package source

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
)

// DefaultMaxLineBytes bounds a single line; wide records need more than
// bufio's 64 KiB default.
const DefaultMaxLineBytes = 16 << 20

const initialBufferBytes = 64 << 10

// Lines yields the lines of r without their terminators ("\n" or "\r\n").
// Complexity: O(longest line) memory.
func Lines(r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, initialBufferBytes), DefaultMaxLineBytes)
		for sc.Scan() {
			if !yield(sc.Text(), nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield("", fmt.Errorf("source: read: %w", err))
		}
	}
}

// File yields the lines of the file at path. The file is opened when the
// sequence is first ranged over and closed when ranging stops, early or not.
// An open failure is yielded as the only element; it wraps the *fs.PathError
// so errors.Is(err, fs.ErrNotExist) keeps working.
func File(path string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		f, err := os.Open(path)
		if err != nil {
			yield("", fmt.Errorf("source: open: %w", err))

			return
		}
		defer f.Close()

		for line, err := range Lines(f) {
			if !yield(line, err) {
				return
			}
		}
	}
}

// Slice yields the given lines in order; handy for tests and in-memory input.
func Slice(lines []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, line := range lines {
			if !yield(line, nil) {
				return
			}
		}
	}
}

// FieldCount returns the number of delim-separated fields of line.
// The empty line has one (empty) field, matching strings.Split.
func FieldCount(line, delim string) int {
	return strings.Count(line, delim) + 1
}
