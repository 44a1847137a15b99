package temporal

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tempus/internal/base"
	"github.com/roach88/tempus/internal/period"
)

func crossingPair(t *testing.T) (*Sequence, *Sequence) {
	a := mustSeq(t, true, true, Linear, fi(0, 0), fi(10, 10))
	b := mustSeq(t, true, true, Linear, fi(10, 0), fi(0, 10))
	return a, b
}

func TestSynchronize_CrossingScenario(t *testing.T) {
	a, b := crossingPair(t)

	synced, ok, err := Synchronize(a, b, AlignWithCrossings)
	require.NoError(t, err)
	require.True(t, ok)

	sa := synced.A.(*Sequence)
	sb := synced.B.(*Sequence)
	assert.Equal(t, []Instant{fi(0, 0), fi(5, 5), fi(10, 10)}, sa.Instants())
	assert.Equal(t, []Instant{fi(10, 0), fi(5, 5), fi(0, 10)}, sb.Instants())
	assert.Equal(t, []period.Timestamp{at(5)}, synced.Crossings)

	assert.Equal(t, []period.Period{
		span(0, 5, true, false),
		period.Instant(at(5)),
		span(5, 10, false, true),
	}, synced.Pieces())
}

func TestSynchronize_AlignWithoutCrossings(t *testing.T) {
	a, b := crossingPair(t)

	synced, ok, err := Synchronize(a, b, Align)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, 2, synced.A.NumInstants())
	assert.Empty(t, synced.Crossings)
	assert.Equal(t, []period.Period{span(0, 10, true, true)}, synced.Pieces())
}

func TestSynchronize_SplitsAtOtherTimestamps(t *testing.T) {
	a := mustSeq(t, true, true, Linear, fi(0, 0), fi(10, 10))
	b := mustSeq(t, true, false, Linear, fi(0, 2), fi(4, 6), fi(0, 15))

	synced, ok, err := Synchronize(a, b, Align)
	require.NoError(t, err)
	require.True(t, ok)

	sa := synced.A.(*Sequence)
	sb := synced.B.(*Sequence)
	assert.Equal(t, []period.Timestamp{at(2), at(6), at(10)}, Timestamps(sa))
	assert.Equal(t, Timestamps(sa), Timestamps(sb))
	assert.Equal(t, span(2, 10, true, true), sa.Period())

	want := []float64{2, 6, 10}
	assert.Empty(t, cmp.Diff(want, floats(t, sa.Instants()), cmpopts.EquateApprox(0, 1e-9)))
	wantB := []float64{0, 4, 4 - 4.0*4/9}
	assert.Empty(t, cmp.Diff(wantB, floats(t, sb.Instants()), cmpopts.EquateApprox(0, 1e-9)))
}

func TestSynchronize_Symmetry(t *testing.T) {
	a := mustSeq(t, true, false, Linear, fi(0, 0), fi(3, 4), fi(1, 9))
	b := mustSeq(t, false, true, Linear, fi(5, 2), fi(0, 7), fi(2, 12))

	for _, mode := range []Mode{Align, AlignWithCrossings} {
		ab, ok, err := Synchronize(a, b, mode)
		require.NoError(t, err)
		require.True(t, ok)
		ba, ok, err := Synchronize(b, a, mode)
		require.NoError(t, err)
		require.True(t, ok)

		assert.True(t, Equal(ab.A, ba.B), mode.String())
		assert.True(t, Equal(ab.B, ba.A), mode.String())
		assert.True(t, ab.A.Time().Equal(ba.A.Time()))
		assert.Equal(t, ab.Crossings, ba.Crossings)
	}
}

func TestSynchronize_StepwiseAgainstLinear(t *testing.T) {
	a := mustSeq(t, true, true, Stepwise, ii(5, 0), ii(5, 10))
	b := mustSeq(t, true, true, Linear, fi(0, 0), fi(10, 10))

	synced, ok, err := Synchronize(a, b, AlignWithCrossings)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, []Instant{ii(5, 0), ii(5, 5), ii(5, 10)}, synced.A.Instants())
	assert.Equal(t, []Instant{fi(0, 0), fi(5, 5), fi(10, 10)}, synced.B.Instants())
	assert.Equal(t, Stepwise, synced.A.Interp())
}

func TestSynchronize_StepwiseExclusiveUpperRepeatsValue(t *testing.T) {
	a := mustSeq(t, true, true, Stepwise, ii(1, 0), ii(2, 5), ii(3, 10))
	b := mustSeq(t, true, false, Stepwise, ii(7, 0), ii(7, 5))

	synced, ok, err := Synchronize(a, b, Align)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, []Instant{ii(1, 0), ii(1, 5)}, synced.A.Instants())
	assert.False(t, synced.A.Period().UpperInc)
}

func TestSynchronize_SingleInstantIntersection(t *testing.T) {
	a := mustSeq(t, true, true, Linear, fi(0, 0), fi(10, 10))
	b := mustSeq(t, true, true, Linear, fi(3, 10), fi(4, 20))

	synced, ok, err := Synchronize(a, b, AlignWithCrossings)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, []Instant{fi(10, 10)}, synced.A.Instants())
	assert.Equal(t, []Instant{fi(3, 10)}, synced.B.Instants())
}

func TestSynchronize_Disjoint(t *testing.T) {
	a := mustSeq(t, true, true, Linear, fi(0, 0), fi(1, 1))
	b := mustSeq(t, true, true, Linear, fi(2, 5), fi(3, 6))

	_, ok, err := Synchronize(a, b, Align)
	require.NoError(t, err)
	assert.False(t, ok)

	c := mustSeq(t, false, true, Linear, fi(2, 1), fi(3, 6))
	_, ok, err = Synchronize(a, c, Align)
	require.NoError(t, err)
	assert.False(t, ok, "touching at an excluded bound")
}

func TestSynchronize_IncompatibleOperands(t *testing.T) {
	a := mustSeq(t, true, true, Linear, fi(0, 0), fi(1, 1))
	b := mustSeq(t, true, true, Stepwise, NewInstant(base.NewText("x"), at(0)))

	_, _, err := Synchronize(a, b, Align)
	require.Error(t, err)
	assert.True(t, IsIncompatibleOperands(err))
	assert.False(t, IsValidationError(err))
}

func TestSynchronize_InstantOperand(t *testing.T) {
	a := mustSeq(t, true, true, Linear, fi(0, 0), fi(10, 10))
	inst := fi(3, 4)

	synced, ok, err := Synchronize(a, inst, Align)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, fi(4, 4), synced.A)
	assert.Equal(t, fi(3, 4), synced.B)

	_, ok, err = Synchronize(inst, fi(3, 5), Align)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSynchronize_InstantSets(t *testing.T) {
	a := MustNewInstantSet(ii(1, 0), ii(2, 5), ii(3, 10))
	b := MustNewInstantSet(ii(7, 5), ii(8, 10), ii(9, 15))

	synced, ok, err := Synchronize(a, b, Align)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []Instant{ii(2, 5), ii(3, 10)}, synced.A.Instants())
	assert.Equal(t, []Instant{ii(7, 5), ii(8, 10)}, synced.B.Instants())

	seq := mustSeq(t, true, false, Stepwise, ii(4, 4), ii(4, 10))
	synced, ok, err = Synchronize(seq, a, Align)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, SubtypeInstantSet, synced.A.Subtype())
	assert.Equal(t, []Instant{ii(4, 5)}, synced.A.Instants())
	assert.Equal(t, []Instant{ii(2, 5)}, synced.B.Instants())
}

func TestSynchronize_SequenceSets(t *testing.T) {
	a := mustSet(t,
		mustSeq(t, true, true, Stepwise, ii(1, 0), ii(1, 10)),
		mustSeq(t, true, true, Stepwise, ii(2, 20), ii(2, 30)),
	)
	b := mustSeq(t, true, true, Stepwise, ii(5, 5), ii(5, 25))

	synced, ok, err := Synchronize(a, b, Align)
	require.NoError(t, err)
	require.True(t, ok)

	sa := synced.A.(*SequenceSet)
	sb := synced.B.(*SequenceSet)
	require.Equal(t, 2, sa.NumSequences())
	require.Equal(t, 2, sb.NumSequences())
	assert.Equal(t, span(5, 10, true, true), sa.SequenceN(0).Period())
	assert.Equal(t, span(20, 25, true, true), sa.SequenceN(1).Period())
	assert.Equal(t, []Instant{ii(5, 20), ii(5, 25)}, sb.SequenceN(1).Instants())
}

func TestSynchronize_SequenceSetsSharedExclusiveBound(t *testing.T) {
	a := mustSet(t,
		mustSeq(t, true, false, Linear, fi(0, 0), fi(5, 5)),
		mustSeq(t, true, true, Linear, fi(1, 5), fi(1, 10)),
	)
	b := mustSet(t, mustSeq(t, true, true, Linear, fi(0, 0), fi(0, 5)))

	synced, ok, err := Synchronize(a, b, Align)
	require.NoError(t, err)
	require.True(t, ok)

	sa := synced.A.(*SequenceSet)
	require.Equal(t, 2, sa.NumSequences())
	assert.Equal(t, span(0, 5, true, false), sa.SequenceN(0).Period())
	assert.Equal(t, period.Instant(at(5)), sa.SequenceN(1).Period())
}

func TestSynchronize_Intersect(t *testing.T) {
	a := mustSeq(t, true, true, Linear, fi(0, 0), fi(10, 10))
	b := MustNewInstantSet(fi(1, 2), fi(1, 20))

	synced, ok, err := Synchronize(a, b, Intersect)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, SubtypeInstantSet, synced.A.Subtype())
	assert.Equal(t, SubtypeInstantSet, synced.B.Subtype())
	assert.Equal(t, []Instant{fi(2, 2)}, synced.A.Instants())
	assert.Equal(t, []Instant{fi(1, 2)}, synced.B.Instants())
}

func TestSynchronize_IntersectSequences(t *testing.T) {
	a := mustSeq(t, true, true, Linear, fi(0, 0), fi(10, 10))
	b := mustSeq(t, true, false, Linear, fi(4, 2), fi(4, 6), fi(8, 14))

	synced, ok, err := Synchronize(a, b, Intersect)
	require.NoError(t, err)
	require.True(t, ok)

	sa, isSeq := synced.A.(*Sequence)
	require.True(t, isSeq, "A is %T", synced.A)
	sb, isSeq := synced.B.(*Sequence)
	require.True(t, isSeq, "B is %T", synced.B)

	assert.Equal(t, span(2, 10, true, true), sa.Period())
	assert.Equal(t, span(2, 10, true, true), sb.Period())
	assert.Equal(t, []Instant{fi(2, 2), fi(10, 10)}, sa.Instants())
	assert.Equal(t, []Instant{fi(4, 2), fi(4, 6), fi(6, 10)}, sb.Instants())
	assert.Empty(t, synced.Crossings)
}

func TestSynchronize_IntersectSequenceSet(t *testing.T) {
	a := mustSeq(t, true, true, Linear, fi(0, 0), fi(10, 10))
	b := MustNewSequenceSet(
		mustSeq(t, true, true, Linear, fi(1, 2), fi(1, 4)),
		mustSeq(t, true, true, Linear, fi(3, 6), fi(3, 12)),
	)

	synced, ok, err := Synchronize(a, b, Intersect)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, SubtypeSequenceSet, synced.A.Subtype())
	assert.Equal(t, SubtypeSequenceSet, synced.B.Subtype())
	assert.Equal(t, []period.Period{span(2, 4, true, true), span(6, 10, true, true)}, synced.A.Time().Periods())
	assert.Equal(t, synced.A.Time().Periods(), synced.B.Time().Periods())
}

func TestSynchronize_IntersectSharesSubtype(t *testing.T) {
	seq := mustSeq(t, true, true, Linear, fi(0, 0), fi(10, 10))
	operands := []Temporal{
		fi(3, 3),
		MustNewInstantSet(fi(1, 2), fi(1, 20)),
		seq,
		MustNewSequenceSet(mustSeq(t, true, true, Linear, fi(1, 2), fi(1, 4))),
	}
	for _, a := range operands {
		for _, b := range operands {
			synced, ok, err := Synchronize(a, b, Intersect)
			require.NoError(t, err)
			if !ok {
				continue
			}
			assert.Equal(t, synced.A.Subtype(), synced.B.Subtype(), "%s x %s", a.Subtype(), b.Subtype())
		}
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{Intersect, Align, AlignWithCrossings} {
		got, ok := ParseMode(m.String())
		require.True(t, ok)
		assert.Equal(t, m, got)
	}
	_, ok := ParseMode("zip")
	assert.False(t, ok)
}
