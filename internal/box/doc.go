// Package box computes bounding boxes of temporal values.
//
// Box is a sealed interface with one implementation per base kind:
//   - Time: the period alone, for discrete base types
//   - TBox: value range x period, for numeric base types
//   - STBox: x/y extent x period, for spatial base types
//
// Boxes are tight over the sampled instants. Make is O(n) over the values;
// Merge is O(1) and is used when appending instants or concatenating sequences.
// Passing a box of the wrong kind to a dispatch is an internal invariant
// violation and panics.
package box
