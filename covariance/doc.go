// Package covariance computes a population covariance matrix from a
// headered, delimited numeric text stream in a single pass.
//
// 🚀 What does it do?
//
//	The first line only fixes the dimension D (its field count). Every
//	following line is one observation of D numbers. Raw moments are
//	accumulated in one pass (see package moments) and assembled with
//
//	  Cov[i][j] = E[X_i X_j] − E[X_i]·E[X_j]      (divisor N, not N−1)
//
// ✨ Key features:
//   - streaming input (iter.Seq2 of lines): memory O(D²), independent of N
//   - bitwise-symmetric output
//   - typed failures: ErrMalformedInput, ErrShapeMismatch, ErrEmptyInput
//   - ComputeParallel: row batches accumulated on a bounded worker pool and
//     reduced with Accumulator.Merge
//
// ⚙️ Usage:
//
//	cov, err := covariance.ComputeFile("data.csv")
//	if errors.Is(err, covariance.ErrShapeMismatch) { ... }
//
// Performance:
//
//   - Time:   O(N·D²)
//   - Memory: O(D²) (+ workers·batch lines for ComputeParallel)
package covariance
