// Package sink serializes a covariance matrix as delimited text and parses it
// back.
//
// Format: one matrix row per line, values joined by the delimiter (',' by
// default), no trailing delimiter, every line newline-terminated. Values use
// the shortest decimal that round-trips at the chosen precision, so
// Read(Write(m)) reproduces m exactly in Precision64 mode.
package sink
