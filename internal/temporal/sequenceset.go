package temporal

import (
	"slices"
	"sort"

	"github.com/roach88/tempus/internal/base"
	"github.com/roach88/tempus/internal/box"
	"github.com/roach88/tempus/internal/period"
)

// SequenceSet is an ordered set of sequences with pairwise disjoint periods
// and a common interpolation.
type SequenceSet struct {
	sequences  []*Sequence
	bbox       box.Box
	totalCount int
}

// NewSequenceSet validates sequences and builds a SequenceSet. When normalize
// is set, adjacent sequences that can be joined without loss are merged.
// Returns EMPTY_INPUT, MIXED_BASE_TYPE, INCOMPATIBLE_INTERPOLATION,
// UNSORTED_INPUT or OVERLAPPING_INPUT errors.
func NewSequenceSet(sequences []*Sequence, normalize bool) (*SequenceSet, error) {
	if len(sequences) == 0 {
		return nil, newError(ErrCodeEmptyInput, -1, "at least one sequence is required")
	}
	first := sequences[0]
	for i, seq := range sequences {
		if seq.BaseType() != first.BaseType() {
			return nil, newError(ErrCodeMixedBaseType, i, "expected %s sequence, got %s", first.BaseType(), seq.BaseType())
		}
		if seq.interp != first.interp {
			return nil, newError(ErrCodeIncompatibleInterpolation, i, "expected %s sequence, got %s", first.interp, seq.interp)
		}
		if i == 0 {
			continue
		}
		prev := sequences[i-1].period
		switch {
		case seq.period.Lower < prev.Lower:
			return nil, newError(ErrCodeUnsortedInput, i, "sequence %s starts before %s", seq.period, prev)
		case !prev.Before(seq.period):
			return nil, newError(ErrCodeOverlappingInput, i, "sequence %s overlaps %s", seq.period, prev)
		}
	}
	owned := slices.Clone(sequences)
	if normalize {
		owned = NormalizeSequences(owned)
	}
	return newSequenceSet(owned), nil
}

// MustNewSequenceSet is like NewSequenceSet without normalization but panics
// on error.
func MustNewSequenceSet(sequences ...*Sequence) *SequenceSet {
	s, err := NewSequenceSet(sequences, false)
	if err != nil {
		panic(err)
	}
	return s
}

// newSequenceSet takes ownership of sequences, which must already be valid.
func newSequenceSet(sequences []*Sequence) *SequenceSet {
	bbox := sequences[0].bbox
	total := sequences[0].NumInstants()
	for i, seq := range sequences[1:] {
		bbox = box.Merge(bbox, seq.bbox)
		total += seq.NumInstants()
		if sharesBoundary(sequences[i], seq) {
			total--
		}
	}
	return &SequenceSet{sequences: sequences, bbox: bbox, totalCount: total}
}

// sharesBoundary reports whether the first instant of next repeats the last
// instant of prev in both value and time.
func sharesBoundary(prev, next *Sequence) bool {
	return prev.EndInstant().Equal(next.StartInstant())
}

func (*SequenceSet) temporal() {}

// Subtype implements Temporal.
func (*SequenceSet) Subtype() Subtype { return SubtypeSequenceSet }

// BaseType implements Temporal.
func (s *SequenceSet) BaseType() base.Type { return s.sequences[0].BaseType() }

// Interp implements Temporal.
func (s *SequenceSet) Interp() Interp { return s.sequences[0].interp }

// BBox implements Temporal.
func (s *SequenceSet) BBox() box.Box { return s.bbox }

// Period implements Temporal.
func (s *SequenceSet) Period() period.Period { return s.bbox.Period() }

// Time implements Temporal.
func (s *SequenceSet) Time() period.Set {
	periods := make([]period.Period, len(s.sequences))
	for i, seq := range s.sequences {
		periods[i] = seq.period
	}
	return period.MustNewSet(periods...)
}

// NumSequences returns the number of sequences.
func (s *SequenceSet) NumSequences() int { return len(s.sequences) }

// SequenceN returns the i-th sequence.
func (s *SequenceSet) SequenceN(i int) *Sequence { return s.sequences[i] }

// Sequences returns the sequences in time order.
func (s *SequenceSet) Sequences() []*Sequence { return slices.Clone(s.sequences) }

// Instants implements Temporal. Boundary instants shared by consecutive
// sequences appear once.
func (s *SequenceSet) Instants() []Instant {
	result := make([]Instant, 0, s.totalCount)
	for i, seq := range s.sequences {
		start := 0
		if i > 0 && sharesBoundary(s.sequences[i-1], seq) {
			start = 1
		}
		result = append(result, seq.instants[start:]...)
	}
	return result
}

// NumInstants implements Temporal.
func (s *SequenceSet) NumInstants() int { return s.totalCount }

// InstantN implements Temporal.
func (s *SequenceSet) InstantN(n int) Instant {
	for i, seq := range s.sequences {
		start := 0
		if i > 0 && sharesBoundary(s.sequences[i-1], seq) {
			start = 1
		}
		count := len(seq.instants) - start
		if n < count {
			return seq.instants[start+n]
		}
		n -= count
	}
	panic("temporal: instant index out of range")
}

// StartInstant implements Temporal.
func (s *SequenceSet) StartInstant() Instant { return s.sequences[0].StartInstant() }

// EndInstant implements Temporal.
func (s *SequenceSet) EndInstant() Instant { return s.sequences[len(s.sequences)-1].EndInstant() }

// FindTimestamp locates t among the sequences by binary search over their
// periods. Inside gives the containing sequence; Between gives the index of
// the sequence after the gap.
func (s *SequenceSet) FindTimestamp(t period.Timestamp) Location {
	n := len(s.sequences)
	i := sort.Search(n, func(i int) bool {
		p := s.sequences[i].period
		return t < p.Upper || (t == p.Upper && p.UpperInc)
	})
	switch {
	case i == n:
		return Location{Pos: After, Index: n}
	case s.sequences[i].period.Contains(t):
		return Location{Pos: Inside, Index: i}
	case i == 0:
		return Location{Pos: Before, Index: 0}
	default:
		return Location{Pos: Between, Index: i}
	}
}

// ValueAt implements Temporal.
func (s *SequenceSet) ValueAt(t period.Timestamp) (base.Value, bool) {
	loc := s.FindTimestamp(t)
	if loc.Pos != Inside {
		return nil, false
	}
	return s.sequences[loc.Index].ValueAt(t)
}

// Append returns a new set whose last sequence has inst appended.
func (s *SequenceSet) Append(inst Instant) (*SequenceSet, error) {
	last, err := s.sequences[len(s.sequences)-1].Append(inst)
	if err != nil {
		return nil, err
	}
	sequences := slices.Clone(s.sequences)
	sequences[len(sequences)-1] = last
	return newSequenceSet(sequences), nil
}
