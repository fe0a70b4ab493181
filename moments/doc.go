// Package moments accumulates first and second raw moments of a stream of
// numeric records in a single pass.
//
// What is it?
//
//	For D variables observed over N records the accumulator keeps
//	  sums[i]   = Σ x_i              (D values)
//	  raw[i][j] = Σ x_i · x_j        (D×D values, i = j included)
//	and finalizes them into E[X_i] and E[X_i X_j] by dividing by N.
//	Those two tables are everything the covariance identity
//	Cov(X,Y) = E[XY] − E[X]E[Y] needs, so records never have to be kept.
//
// Key features:
//   - streaming: memory is O(D²) + O(D), independent of N
//   - float64 accumulation, records applied in input order, pairs in index order
//   - ObserveRecord parses one delimited text line (trimmed tokens)
//   - Merge reduces partial accumulators built over disjoint row partitions
//   - configurable handling of records shorter than D (ShortRecordPolicy)
//
// Usage:
//
//	acc, err := moments.New(3)
//	for _, line := range lines {
//	  if err := acc.ObserveRecord(line); err != nil { ... }
//	}
//	m, err := acc.Finalize() // m.Means, m.RawMeans
//
// Errors are sentinels (ErrShapeMismatch, ErrMalformedInput, ErrEmptyInput, ...)
// matched with errors.Is.
package moments
