package temporal

import (
	"github.com/roach88/tempus/internal/period"
)

// AtTimestamp returns the instant of temp at t.
func AtTimestamp(temp Temporal, t period.Timestamp) (Instant, bool) {
	v, ok := temp.ValueAt(t)
	if !ok {
		return Instant{}, false
	}
	return NewInstant(v, t), true
}

// AtPeriod restricts temp to p. False means the restriction is empty.
// Instants and instant sets keep their subtype, a sequence stays a sequence
// and a sequence set stays a sequence set.
func AtPeriod(temp Temporal, p period.Period) (Temporal, bool) {
	switch t := temp.(type) {
	case Instant:
		if !p.Contains(t.T) {
			return nil, false
		}
		return t, true
	case *InstantSet:
		return filterInstants(t, p.Contains)
	case *Sequence:
		seq, ok := sequenceAtPeriod(t, p)
		if !ok {
			return nil, false
		}
		return seq, true
	case *SequenceSet:
		var result []*Sequence
		for _, seq := range t.sequences {
			if seq.period.Before(p) {
				continue
			}
			if p.Before(seq.period) {
				break
			}
			if r, ok := sequenceAtPeriod(seq, p); ok {
				result = append(result, r)
			}
		}
		return fromSequences(result)
	default:
		panic(unknownSubtype(temp))
	}
}

// MinusPeriod restricts temp to the complement of p. Sequences yield
// sequence sets, since removing a period may split them.
func MinusPeriod(temp Temporal, p period.Period) (Temporal, bool) {
	switch t := temp.(type) {
	case Instant:
		if p.Contains(t.T) {
			return nil, false
		}
		return t, true
	case *InstantSet:
		return filterInstants(t, func(ts period.Timestamp) bool { return !p.Contains(ts) })
	case *Sequence, *SequenceSet:
		var result []*Sequence
		for _, seq := range sequencesOf(temp) {
			for _, piece := range seq.period.Minus(p) {
				if r, ok := sequenceAtPeriod(seq, piece); ok {
					result = append(result, r)
				}
			}
		}
		return fromSequences(result)
	default:
		panic(unknownSubtype(temp))
	}
}

// AtPeriodSet restricts temp to the periods of s. Sequences yield sequence
// sets.
func AtPeriodSet(temp Temporal, s period.Set) (Temporal, bool) {
	switch t := temp.(type) {
	case Instant:
		if !s.Contains(t.T) {
			return nil, false
		}
		return t, true
	case *InstantSet:
		return filterInstants(t, s.Contains)
	case *Sequence, *SequenceSet:
		var result []*Sequence
		for _, seq := range sequencesOf(temp) {
			parts, ok := s.IntersectPeriod(seq.period)
			if !ok {
				continue
			}
			for _, piece := range parts.Periods() {
				if r, ok := sequenceAtPeriod(seq, piece); ok {
					result = append(result, r)
				}
			}
		}
		return fromSequences(result)
	default:
		panic(unknownSubtype(temp))
	}
}

// MinusPeriodSet restricts temp to the complement of s.
func MinusPeriodSet(temp Temporal, s period.Set) (Temporal, bool) {
	switch t := temp.(type) {
	case Instant:
		if s.Contains(t.T) {
			return nil, false
		}
		return t, true
	case *InstantSet:
		return filterInstants(t, func(ts period.Timestamp) bool { return !s.Contains(ts) })
	case *Sequence, *SequenceSet:
		rest, ok := temp.Time().Minus(s)
		if !ok {
			return nil, false
		}
		return AtPeriodSet(temp, rest)
	default:
		panic(unknownSubtype(temp))
	}
}

func filterInstants(s *InstantSet, keep func(period.Timestamp) bool) (Temporal, bool) {
	var result []Instant
	for _, inst := range s.instants {
		if keep(inst.T) {
			result = append(result, inst)
		}
	}
	if len(result) == 0 {
		return nil, false
	}
	return newInstantSet(result), true
}

func fromSequences(sequences []*Sequence) (Temporal, bool) {
	if len(sequences) == 0 {
		return nil, false
	}
	return newSequenceSet(sequences), true
}

// sequenceAtPeriod returns the part of seq inside p.
func sequenceAtPeriod(seq *Sequence, p period.Period) (*Sequence, bool) {
	inter, ok := seq.period.Intersection(p)
	if !ok {
		return nil, false
	}
	if inter == seq.period {
		return seq, true
	}
	lower := NewInstant(seq.valueAtClosed(inter.Lower), inter.Lower)
	if inter.IsInstant() {
		return newSequence([]Instant{lower}, true, true, seq.interp), true
	}
	instants := []Instant{lower}
	for _, inst := range seq.instants[seq.segmentIndex(inter.Lower):] {
		if inst.T >= inter.Upper {
			break
		}
		if inst.T > inter.Lower {
			instants = append(instants, inst)
		}
	}
	instants = append(instants, NewInstant(seq.valueAtClosed(inter.Upper), inter.Upper))
	fixStepwiseEnd(instants, seq.interp, inter.UpperInc)
	return newSequence(instants, inter.LowerInc, inter.UpperInc, seq.interp), true
}
