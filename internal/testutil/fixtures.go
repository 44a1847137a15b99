// Package testutil provides deterministic clocks, ID generators and
// temporal value builders shared by tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/tempus/internal/base"
	"github.com/roach88/tempus/internal/period"
	"github.com/roach88/tempus/internal/temporal"
)

// Epoch is the reference timestamp of fixtures, 2000-01-01T00:00:00Z.
var Epoch = period.MustParseTimestamp("2000-01-01T00:00:00Z")

// At returns the timestamp sec seconds after Epoch.
func At(sec int) period.Timestamp {
	return Epoch + period.Timestamp(sec)*1_000_000
}

// Span returns the period between At(lower) and At(upper).
func Span(lower, upper int, lowerInc, upperInc bool) period.Period {
	return period.MustNew(At(lower), At(upper), lowerInc, upperInc)
}

// Float returns a float instant at second sec.
func Float(v float64, sec int) temporal.Instant {
	return temporal.NewInstant(base.Float(v), At(sec))
}

// Int returns an integer instant at second sec.
func Int(v int64, sec int) temporal.Instant {
	return temporal.NewInstant(base.Int(v), At(sec))
}

// Bool returns a boolean instant at second sec.
func Bool(v bool, sec int) temporal.Instant {
	return temporal.NewInstant(base.Bool(v), At(sec))
}

// Text returns a text instant at second sec.
func Text(v string, sec int) temporal.Instant {
	return temporal.NewInstant(base.NewText(v), At(sec))
}

// Point returns a point instant at second sec.
func Point(x, y float64, sec int) temporal.Instant {
	return temporal.NewInstant(base.Point{X: x, Y: y}, At(sec))
}

// InstantSet builds an instant set, failing the test on invalid input.
func InstantSet(t testing.TB, instants ...temporal.Instant) *temporal.InstantSet {
	t.Helper()
	s, err := temporal.NewInstantSet(instants...)
	require.NoError(t, err)
	return s
}

// Seq builds a sequence without normalization, failing the test on invalid
// input.
func Seq(t testing.TB, lowerInc, upperInc bool, interp temporal.Interp, instants ...temporal.Instant) *temporal.Sequence {
	t.Helper()
	s, err := temporal.NewSequence(instants, lowerInc, upperInc, interp, false)
	require.NoError(t, err)
	return s
}

// SeqSet builds a sequence set without normalization.
func SeqSet(t testing.TB, sequences ...*temporal.Sequence) *temporal.SequenceSet {
	t.Helper()
	s, err := temporal.NewSequenceSet(sequences, false)
	require.NoError(t, err)
	return s
}

// Samples returns one value of every shape and base type, keyed by a
// descriptive name.
func Samples(t testing.TB) map[string]temporal.Temporal {
	t.Helper()
	return map[string]temporal.Temporal{
		"float instant":      Float(1.5, 0),
		"int instant set":    InstantSet(t, Int(1, 0), Int(2, 5), Int(-3, 9)),
		"bool sequence":      Seq(t, true, false, temporal.Stepwise, Bool(true, 0), Bool(false, 5), Bool(false, 10)),
		"text instant set":   InstantSet(t, Text("a \"b\"", 0), Text("na\u00efve", 3)),
		"linear float":       Seq(t, false, true, temporal.Linear, Float(0, 0), Float(10, 10), Float(2.25, 12)),
		"stepwise float":     Seq(t, true, true, temporal.Stepwise, Float(1, 0), Float(2, 4)),
		"single instant seq": Seq(t, true, true, temporal.Linear, Float(7, 3)),
		"point sequence":     Seq(t, true, true, temporal.Linear, Point(0, 0, 0), Point(10, -5, 10)),
		"float sequence set": SeqSet(t,
			Seq(t, true, false, temporal.Linear, Float(0, 0), Float(5, 5)),
			Seq(t, true, true, temporal.Linear, Float(9, 8), Float(1, 12))),
		"int sequence set": SeqSet(t,
			Seq(t, true, true, temporal.Stepwise, Int(1, 0), Int(2, 5)),
			Seq(t, false, true, temporal.Stepwise, Int(3, 5), Int(3, 7))),
	}
}
