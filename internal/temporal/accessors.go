package temporal

import (
	"time"

	"github.com/roach88/tempus/internal/base"
	"github.com/roach88/tempus/internal/period"
)

// Equal reports whether a and b have the same subtype, interpolation,
// bounds and instants. Values compare exactly.
func Equal(a, b Temporal) bool {
	if a.Subtype() != b.Subtype() || a.BaseType() != b.BaseType() || a.Interp() != b.Interp() {
		return false
	}
	switch ta := a.(type) {
	case Instant:
		return ta.Equal(b.(Instant))
	case *InstantSet:
		return instantsEqual(ta.instants, b.(*InstantSet).instants)
	case *Sequence:
		return ta.equal(b.(*Sequence))
	case *SequenceSet:
		tb := b.(*SequenceSet)
		if len(ta.sequences) != len(tb.sequences) {
			return false
		}
		for i, seq := range ta.sequences {
			if !seq.equal(tb.sequences[i]) {
				return false
			}
		}
		return true
	default:
		panic(unknownSubtype(a))
	}
}

func (s *Sequence) equal(o *Sequence) bool {
	return s.period == o.period && s.interp == o.interp && instantsEqual(s.instants, o.instants)
}

func instantsEqual(a, b []Instant) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// StartTimestamp returns the timestamp of the first instant.
func StartTimestamp(temp Temporal) period.Timestamp {
	return temp.StartInstant().T
}

// EndTimestamp returns the timestamp of the last instant.
func EndTimestamp(temp Temporal) period.Timestamp {
	return temp.EndInstant().T
}

// Timestamps returns the distinct instant timestamps in order.
func Timestamps(temp Temporal) []period.Timestamp {
	instants := temp.Instants()
	result := make([]period.Timestamp, 0, len(instants))
	for _, inst := range instants {
		if n := len(result); n > 0 && result[n-1] == inst.T {
			continue
		}
		result = append(result, inst.T)
	}
	return result
}

// Duration returns the total length of the time support. Instants and
// instant sets have zero duration.
func Duration(temp Temporal) time.Duration {
	return temp.Time().Duration()
}

// MinValue returns the smallest instant value. Linear extremes are always
// reached at instants. Returns false for spatial values.
func MinValue(temp Temporal) (base.Value, bool) {
	return extremeValue(temp, -1)
}

// MaxValue returns the largest instant value.
func MaxValue(temp Temporal) (base.Value, bool) {
	return extremeValue(temp, 1)
}

func extremeValue(temp Temporal, sign int) (base.Value, bool) {
	if temp.BaseType().Kind() == base.KindSpatial {
		return nil, false
	}
	instants := temp.Instants()
	best := instants[0].Value
	for _, inst := range instants[1:] {
		if base.Compare(inst.Value, best)*sign > 0 {
			best = inst.Value
		}
	}
	return best, true
}

// Shift moves every instant of temp by d.
func Shift(temp Temporal, d time.Duration) Temporal {
	shiftAll := func(instants []Instant) []Instant {
		result := make([]Instant, len(instants))
		for i, inst := range instants {
			result[i] = NewInstant(inst.Value, inst.T.Add(d))
		}
		return result
	}
	shiftSeq := func(seq *Sequence) *Sequence {
		return newSequence(shiftAll(seq.instants), seq.period.LowerInc, seq.period.UpperInc, seq.interp)
	}
	switch t := temp.(type) {
	case Instant:
		return NewInstant(t.Value, t.T.Add(d))
	case *InstantSet:
		return newInstantSet(shiftAll(t.instants))
	case *Sequence:
		return shiftSeq(t)
	case *SequenceSet:
		result := make([]*Sequence, len(t.sequences))
		for i, seq := range t.sequences {
			result[i] = shiftSeq(seq)
		}
		return newSequenceSet(result)
	default:
		panic(unknownSubtype(temp))
	}
}

// AppendInstant returns temp with inst added after its last instant.
// An Instant grows into an InstantSet; sequence sets extend their last
// sequence.
func AppendInstant(temp Temporal, inst Instant) (Temporal, error) {
	switch t := temp.(type) {
	case Instant:
		if err := checkAppend(t, inst, 1); err != nil {
			return nil, err
		}
		return newInstantSet([]Instant{t, inst}), nil
	case *InstantSet:
		r, err := t.Append(inst)
		if err != nil {
			return nil, err
		}
		return r, nil
	case *Sequence:
		r, err := t.Append(inst)
		if err != nil {
			return nil, err
		}
		return r, nil
	case *SequenceSet:
		r, err := t.Append(inst)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		panic(unknownSubtype(temp))
	}
}
