// Package base defines the base values that temporal values vary over:
// booleans, integers, floats, text and 2D points.
//
// Value is a sealed interface. Only Bool, Int, Float, Text and Point implement it.
// Each Type carries static traits (kind, continuity, names) compiled into an
// immutable table; name resolution for parsers goes through a Registry that the
// caller constructs and passes explicitly.
//
// Kinds drive bounding-box dispatch:
//   - KindDiscrete: Bool, Text (time-only boxes, stepwise interpolation only)
//   - KindNumeric: Int, Float (value x time boxes)
//   - KindSpatial: Point (x/y x time boxes)
package base
