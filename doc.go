// Package covar computes the population covariance matrix of a headered,
// delimited numeric file in a single streaming pass.
//
// 🚀 What is covar?
//
//	A small pipeline built on the raw-moments identity
//
//	  Cov(X,Y) = E[XY] − E[X]·E[Y]        (divisor N)
//
//	The first line of the input fixes the dimension count D and is not
//	accumulated. Every following line is one record of at most D numbers.
//
// ✨ Why covar?
//
//   - Memory O(D²), independent of the number of records
//   - Symmetric output by construction
//   - Typed failures (malformed token, shape mismatch, empty input)
//   - Optional parallel reduction on a bounded worker pool
//
// Everything is organized under these packages:
//
//	matrix/     — row-major Dense grid, validators, sentinel errors
//	moments/    — Accumulator: sums and raw-moment grid, Merge, Finalize
//	covariance/ — Assemble plus the Compute / ComputeParallel pipelines
//	source/     — lazy line sequences over readers and files
//	sink/       — text serialization of the matrix and its parser
//	config/     — TOML run configuration
//	cmd/covar/  — the command-line tool
//
// Quick example:
//
//	Math,English,Art          [504, 360, 180]
//	90,60,90                  [360, 360,   0]
//	90,90,30         ──▶      [180,   0, 720]
//	60,60,60
//	60,60,90
//	30,30,30
//
//	go install github.com/katalvlaran/covar/cmd/covar@latest
package covar
