// Package period provides the time model of tempus: timestamps, periods with
// independently inclusive or exclusive bounds, and normalized period sets.
//
// This package imports nothing internal. Every other package builds on it.
//
// Key invariants:
//   - A Period has lower <= upper; a degenerate period [t, t] is inclusive on both ends
//   - A Set is non-empty, ordered, and holds no overlapping or adjacent periods
//   - Timestamps are int64 microseconds since the Unix epoch
package period
