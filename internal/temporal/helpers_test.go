package temporal

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/tempus/internal/base"
	"github.com/roach88/tempus/internal/period"
)

var epoch = period.MustParseTimestamp("2000-01-01T00:00:00Z")

// at returns the timestamp sec seconds after epoch.
func at(sec int) period.Timestamp {
	return epoch + period.Timestamp(sec)*1_000_000
}

func fi(v float64, sec int) Instant { return NewInstant(base.Float(v), at(sec)) }
func ii(v int64, sec int) Instant   { return NewInstant(base.Int(v), at(sec)) }
func bi(v bool, sec int) Instant    { return NewInstant(base.Bool(v), at(sec)) }

func span(lower, upper int, lowerInc, upperInc bool) period.Period {
	return period.MustNew(at(lower), at(upper), lowerInc, upperInc)
}

func mustSeq(t *testing.T, lowerInc, upperInc bool, interp Interp, instants ...Instant) *Sequence {
	t.Helper()
	s, err := NewSequence(instants, lowerInc, upperInc, interp, false)
	require.NoError(t, err)
	return s
}

func mustSet(t *testing.T, seqs ...*Sequence) *SequenceSet {
	t.Helper()
	s, err := NewSequenceSet(seqs, false)
	require.NoError(t, err)
	return s
}

func floats(t *testing.T, instants []Instant) []float64 {
	t.Helper()
	result := make([]float64, len(instants))
	for i, inst := range instants {
		x, ok := base.Scalar(inst.Value)
		require.True(t, ok)
		result[i] = x
	}
	return result
}
