package temporal

import (
	"slices"
	"sort"

	"github.com/roach88/tempus/internal/base"
	"github.com/roach88/tempus/internal/box"
	"github.com/roach88/tempus/internal/period"
)

// Sequence is a run of instants defined continuously over its period.
//
// Under Stepwise interpolation the value at t is that of the latest instant
// at or before t; under Linear it is interpolated between the bracketing
// instants. A stepwise sequence with an exclusive upper bound repeats its
// penultimate value in its last instant.
type Sequence struct {
	instants []Instant
	period   period.Period
	interp   Interp
	bbox     box.Box
}

// NewSequence validates instants and builds a Sequence.
//
// A single-instant sequence always has inclusive bounds. Discrete base types
// require Stepwise interpolation. When normalize is set, redundant instants
// (stepwise repeats, linear collinear midpoints) are removed.
func NewSequence(instants []Instant, lowerInc, upperInc bool, interp Interp, normalize bool) (*Sequence, error) {
	if err := validateInstants(instants); err != nil {
		return nil, err
	}
	typ := instants[0].Value.Type()
	switch interp {
	case Stepwise:
	case Linear:
		if !typ.Continuous() {
			return nil, newError(ErrCodeIncompatibleInterpolation, -1, "%s values cannot be linearly interpolated", typ)
		}
	default:
		return nil, newError(ErrCodeIncompatibleInterpolation, -1, "sequence interpolation must be Stepwise or Linear, got %s", interp)
	}
	n := len(instants)
	if interp == Stepwise && !upperInc && n > 1 && !base.Equal(instants[n-1].Value, instants[n-2].Value) {
		return nil, newError(ErrCodeInvalidEndValue, n-1,
			"stepwise sequence with exclusive upper bound must end with its penultimate value %s", instants[n-2].Value)
	}
	owned := slices.Clone(instants)
	if normalize {
		owned = normalizeInstants(owned, interp)
	}
	return newSequence(owned, lowerInc, upperInc, interp), nil
}

// MustNewSequence is like NewSequence but panics on error.
func MustNewSequence(instants []Instant, lowerInc, upperInc bool, interp Interp) *Sequence {
	s, err := NewSequence(instants, lowerInc, upperInc, interp, false)
	if err != nil {
		panic(err)
	}
	return s
}

// newSequence takes ownership of instants, which must already be valid.
func newSequence(instants []Instant, lowerInc, upperInc bool, interp Interp) *Sequence {
	if len(instants) == 1 {
		lowerInc, upperInc = true, true
	}
	p := period.Period{
		Lower:    instants[0].T,
		Upper:    instants[len(instants)-1].T,
		LowerInc: lowerInc,
		UpperInc: upperInc,
	}
	return &Sequence{
		instants: instants,
		period:   p,
		interp:   interp,
		bbox:     box.Make(instantValues(instants), p),
	}
}

func (*Sequence) temporal() {}

// Subtype implements Temporal.
func (*Sequence) Subtype() Subtype { return SubtypeSequence }

// BaseType implements Temporal.
func (s *Sequence) BaseType() base.Type { return s.instants[0].Value.Type() }

// Interp implements Temporal.
func (s *Sequence) Interp() Interp { return s.interp }

// BBox implements Temporal.
func (s *Sequence) BBox() box.Box { return s.bbox }

// Period implements Temporal.
func (s *Sequence) Period() period.Period { return s.period }

// Time implements Temporal.
func (s *Sequence) Time() period.Set { return period.MustNewSet(s.period) }

// Instants implements Temporal.
func (s *Sequence) Instants() []Instant { return slices.Clone(s.instants) }

// NumInstants implements Temporal.
func (s *Sequence) NumInstants() int { return len(s.instants) }

// InstantN implements Temporal.
func (s *Sequence) InstantN(i int) Instant { return s.instants[i] }

// StartInstant implements Temporal.
func (s *Sequence) StartInstant() Instant { return s.instants[0] }

// EndInstant implements Temporal.
func (s *Sequence) EndInstant() Instant { return s.instants[len(s.instants)-1] }

// LowerInc reports whether the sequence includes its first instant.
func (s *Sequence) LowerInc() bool { return s.period.LowerInc }

// UpperInc reports whether the sequence includes its last instant.
func (s *Sequence) UpperInc() bool { return s.period.UpperInc }

// FindTimestamp locates t. Inside gives the index i of the segment
// [t_i, t_i+1] containing t, or 0 for a single-instant sequence. Segment
// edges are claimed by the earlier segment only at the upper end of the
// sequence.
func (s *Sequence) FindTimestamp(t period.Timestamp) Location {
	if t < s.period.Lower || (t == s.period.Lower && !s.period.LowerInc) {
		return Location{Pos: Before, Index: 0}
	}
	if t > s.period.Upper || (t == s.period.Upper && !s.period.UpperInc) {
		return Location{Pos: After, Index: len(s.instants)}
	}
	return Location{Pos: Inside, Index: s.segmentIndex(t)}
}

// segmentIndex returns the index of the segment whose start is the latest
// instant at or before t, clamped to the last segment.
func (s *Sequence) segmentIndex(t period.Timestamp) int {
	n := len(s.instants)
	if n == 1 {
		return 0
	}
	i := sort.Search(n, func(i int) bool { return s.instants[i].T > t }) - 1
	return min(max(i, 0), n-2)
}

// ValueAt implements Temporal. Timestamps of stored instants return the
// stored value exactly.
func (s *Sequence) ValueAt(t period.Timestamp) (base.Value, bool) {
	if !s.period.Contains(t) {
		return nil, false
	}
	return s.valueAtClosed(t), true
}

// valueAtClosed evaluates the sequence at t in [first, last] ignoring bound
// inclusivity. At an exclusive stepwise upper bound this is the repeated
// penultimate value.
func (s *Sequence) valueAtClosed(t period.Timestamp) base.Value {
	i := s.segmentIndex(t)
	inst1 := s.instants[i]
	if t == inst1.T || len(s.instants) == 1 {
		return inst1.Value
	}
	inst2 := s.instants[i+1]
	if t == inst2.T {
		return inst2.Value
	}
	if s.interp != Linear {
		return inst1.Value
	}
	fraction := float64(t-inst1.T) / float64(inst2.T-inst1.T)
	return base.Interpolate(inst1.Value, inst2.Value, fraction)
}

// Append returns a new sequence with inst added at the end and an inclusive
// upper bound. A last instant made redundant by inst is replaced.
func (s *Sequence) Append(inst Instant) (*Sequence, error) {
	n := len(s.instants)
	if err := checkAppend(s.EndInstant(), inst, n); err != nil {
		return nil, err
	}
	keep := n
	if n > 1 {
		inst1, inst2 := s.instants[n-2], s.instants[n-1]
		if redundantMiddle(inst1, inst2, inst, s.interp) {
			keep--
		}
	}
	instants := make([]Instant, 0, keep+1)
	instants = append(instants, s.instants[:keep]...)
	instants = append(instants, inst)
	p := s.period
	p.Upper, p.UpperInc = inst.T, true
	return &Sequence{
		instants: instants,
		period:   p,
		interp:   s.interp,
		bbox:     box.Merge(s.bbox, box.FromInstant(inst.Value, inst.T)),
	}, nil
}

// redundantMiddle reports whether inst2 can be dropped from inst1, inst2, inst3
// without changing the represented function.
func redundantMiddle(inst1, inst2, inst3 Instant, interp Interp) bool {
	if interp != Linear {
		return base.Equal(inst1.Value, inst2.Value)
	}
	if base.Equal(inst1.Value, inst2.Value) && base.Equal(inst2.Value, inst3.Value) {
		return true
	}
	ratio := float64(inst2.T-inst1.T) / float64(inst3.T-inst1.T)
	return base.Collinear(inst1.Value, inst2.Value, inst3.Value, ratio)
}
