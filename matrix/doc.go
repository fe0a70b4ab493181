// Package matrix provides the dense numeric grid used by the covariance
// pipeline: a row-major Dense type behind a small Matrix interface, plus the
// shared validators and sentinel errors the other packages wrap.
//
// What & Why:
//
//	Moment accumulation and matrix assembly both work on D×D grids that are
//	updated row by row. Dense keeps those grids in one flat slice
//	(offset = i*cols + j) so whole rows can be handed to vector kernels
//	without copying, while At/Set stay bounds-checked for everything else.
//
// Key features:
//   - NewDense / NewDenseFrom: strict shape validation, zero panics on user input.
//   - RowView: no-copy access to one row of storage for hot loops.
//   - ValidateSymmetric / ValidateSquare / ValidateVecLen: single source of truth
//     for shape and symmetry checks.
//   - AllClose: tolerance comparison |a-b| ≤ atol + rtol·|b|.
//
// Errors are sentinels (errors.go) and must be matched with errors.Is.
package matrix
