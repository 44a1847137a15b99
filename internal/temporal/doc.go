// Package temporal implements temporal values: base values annotated with
// the time at which they hold, and the algebra over them.
//
// Temporal is a sealed interface with four shapes:
//   - Instant: one value at one timestamp
//   - InstantSet: values at strictly increasing timestamps, undefined between them
//   - Sequence: a run of instants defined continuously over a period, with
//     stepwise or linear interpolation
//   - SequenceSet: disjoint sequences sharing one interpolation
//
// Values are immutable. Constructors validate their input and compute the
// bounding box once; every operation that appears to modify a value
// (append, restrict, synchronize, lift) returns a new one.
//
// Synchronize aligns two values onto a common time grid, optionally inserting
// instants where their values cross, so that pointwise operators (the T*
// comparison and boolean functions, Add, Sub, Distance) can be evaluated
// segment by segment.
//
// The package performs no I/O and holds no global state.
package temporal
