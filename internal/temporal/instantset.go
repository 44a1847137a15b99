package temporal

import (
	"slices"
	"sort"

	"github.com/roach88/tempus/internal/base"
	"github.com/roach88/tempus/internal/box"
	"github.com/roach88/tempus/internal/period"
)

// InstantSet is a set of instants with strictly increasing timestamps.
// It is defined only at those timestamps.
type InstantSet struct {
	instants []Instant
	bbox     box.Box
}

// NewInstantSet validates instants and builds an InstantSet.
// Returns EMPTY_INPUT, UNSORTED_INPUT or MIXED_BASE_TYPE errors.
func NewInstantSet(instants ...Instant) (*InstantSet, error) {
	if err := validateInstants(instants); err != nil {
		return nil, err
	}
	return newInstantSet(slices.Clone(instants)), nil
}

// MustNewInstantSet is like NewInstantSet but panics on error.
func MustNewInstantSet(instants ...Instant) *InstantSet {
	s, err := NewInstantSet(instants...)
	if err != nil {
		panic(err)
	}
	return s
}

// newInstantSet takes ownership of instants, which must already be valid.
func newInstantSet(instants []Instant) *InstantSet {
	p := period.Period{Lower: instants[0].T, Upper: instants[len(instants)-1].T, LowerInc: true, UpperInc: true}
	return &InstantSet{instants: instants, bbox: box.Make(instantValues(instants), p)}
}

func (*InstantSet) temporal() {}

// Subtype implements Temporal.
func (*InstantSet) Subtype() Subtype { return SubtypeInstantSet }

// BaseType implements Temporal.
func (s *InstantSet) BaseType() base.Type { return s.instants[0].Value.Type() }

// Interp implements Temporal.
func (*InstantSet) Interp() Interp { return Discrete }

// BBox implements Temporal.
func (s *InstantSet) BBox() box.Box { return s.bbox }

// Period implements Temporal.
func (s *InstantSet) Period() period.Period { return s.bbox.Period() }

// Time implements Temporal.
func (s *InstantSet) Time() period.Set {
	periods := make([]period.Period, len(s.instants))
	for i, inst := range s.instants {
		periods[i] = period.Instant(inst.T)
	}
	return period.MustNewSet(periods...)
}

// Instants implements Temporal.
func (s *InstantSet) Instants() []Instant { return slices.Clone(s.instants) }

// NumInstants implements Temporal.
func (s *InstantSet) NumInstants() int { return len(s.instants) }

// InstantN implements Temporal.
func (s *InstantSet) InstantN(i int) Instant { return s.instants[i] }

// StartInstant implements Temporal.
func (s *InstantSet) StartInstant() Instant { return s.instants[0] }

// EndInstant implements Temporal.
func (s *InstantSet) EndInstant() Instant { return s.instants[len(s.instants)-1] }

// FindTimestamp locates t among the instants. Inside gives the index of the
// instant at t; Between gives the index of the next instant.
func (s *InstantSet) FindTimestamp(t period.Timestamp) Location {
	n := len(s.instants)
	switch {
	case t < s.instants[0].T:
		return Location{Pos: Before, Index: 0}
	case t > s.instants[n-1].T:
		return Location{Pos: After, Index: n}
	}
	i := sort.Search(n, func(i int) bool { return s.instants[i].T >= t })
	if s.instants[i].T == t {
		return Location{Pos: Inside, Index: i}
	}
	return Location{Pos: Between, Index: i}
}

// ValueAt implements Temporal.
func (s *InstantSet) ValueAt(t period.Timestamp) (base.Value, bool) {
	loc := s.FindTimestamp(t)
	if loc.Pos != Inside {
		return nil, false
	}
	return s.instants[loc.Index].Value, true
}

// Append returns a new set with inst added at the end. The bounding box is
// merged rather than recomputed.
// Returns UNSORTED_INPUT if inst does not follow the last instant.
func (s *InstantSet) Append(inst Instant) (*InstantSet, error) {
	if err := checkAppend(s.EndInstant(), inst, s.NumInstants()); err != nil {
		return nil, err
	}
	instants := append(slices.Clone(s.instants), inst)
	return &InstantSet{instants: instants, bbox: box.Merge(s.bbox, box.FromInstant(inst.Value, inst.T))}, nil
}

func checkAppend(last, inst Instant, index int) error {
	if inst.Value == nil || inst.Value.Type() != last.Value.Type() {
		return newError(ErrCodeMixedBaseType, index, "cannot append %v to %s values", inst.Value, last.Value.Type())
	}
	if inst.T <= last.T {
		return newError(ErrCodeUnsortedInput, index, "timestamp %s does not follow %s", inst.T, last.T)
	}
	return nil
}
