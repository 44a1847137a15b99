package temporal

import (
	"fmt"
	"sort"

	"github.com/roach88/tempus/internal/base"
	"github.com/roach88/tempus/internal/period"
)

// Mode selects how Synchronize aligns its operands.
type Mode uint8

const (
	// Intersect restricts both operands to their common time support.
	Intersect Mode = iota
	// Align splits both operands at every instant timestamp of either, so
	// that the i-th instants of the results share a timestamp.
	Align
	// AlignWithCrossings is Align plus an instant wherever the two values
	// cross inside a segment, when at least one side is linear.
	AlignWithCrossings
)

func (m Mode) String() string {
	switch m {
	case Intersect:
		return "intersect"
	case Align:
		return "align"
	case AlignWithCrossings:
		return "crossings"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// ParseMode resolves a mode name as printed by Mode.String.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "intersect":
		return Intersect, true
	case "align":
		return Align, true
	case "crossings", "align_with_crossings":
		return AlignWithCrossings, true
	}
	return 0, false
}

// Synced is a pair of synchronized values. A and B always share a subtype;
// under Align modes they also share, sequence by sequence, the same instant
// timestamps.
type Synced struct {
	A Temporal
	B Temporal

	// Crossings lists the inserted crossing timestamps in time order.
	Crossings []period.Timestamp
}

// Pieces splits the time support of the synchronized pair at its crossings:
// every crossing contributes a singleton period, and the parts between
// crossings are open at the crossing ends.
func (s Synced) Pieces() []period.Period {
	var periods []period.Period
	switch a := s.A.(type) {
	case Instant, *InstantSet:
		return a.Time().Periods()
	case *Sequence:
		periods = []period.Period{a.period}
	case *SequenceSet:
		for _, seq := range a.sequences {
			periods = append(periods, seq.period)
		}
	default:
		panic(unknownSubtype(s.A))
	}
	var result []period.Period
	c := 0
	for _, p := range periods {
		cur := p
		for c < len(s.Crossings) && s.Crossings[c] <= p.Lower {
			c++
		}
		for c < len(s.Crossings) && s.Crossings[c] < p.Upper {
			t := s.Crossings[c]
			result = append(result,
				period.Period{Lower: cur.Lower, LowerInc: cur.LowerInc, Upper: t},
				period.Instant(t))
			cur.Lower, cur.LowerInc = t, false
			c++
		}
		result = append(result, cur)
	}
	return result
}

// Synchronize aligns a and b according to mode.
//
// Returns an INCOMPATIBLE_OPERANDS error when the base types cannot be
// combined. When the time supports do not overlap, ok is false and err is nil.
//
// In every mode the result subtype is the coarser of the inputs:
// an Instant operand yields two Instants, an InstantSet operand yields two
// InstantSets, a SequenceSet operand yields two SequenceSets, and two
// Sequences yield two Sequences.
func Synchronize(a, b Temporal, mode Mode) (Synced, bool, error) {
	if err := checkOperands(a, b); err != nil {
		return Synced{}, false, err
	}
	if !a.Period().Overlaps(b.Period()) {
		return Synced{}, false, nil
	}

	switch {
	case a.Subtype() == SubtypeInstant:
		return syncInstant(a.(Instant), b, false)
	case b.Subtype() == SubtypeInstant:
		return syncInstant(b.(Instant), a, true)
	case a.Subtype() == SubtypeInstantSet:
		return syncInstantSet(a.(*InstantSet), b, false)
	case b.Subtype() == SubtypeInstantSet:
		return syncInstantSet(b.(*InstantSet), a, true)
	}
	if mode == Intersect {
		return intersect(a, b)
	}
	crossings := mode == AlignWithCrossings

	sa, oka := a.(*Sequence)
	sb, okb := b.(*Sequence)
	if oka && okb {
		ra, rb, cross, ok := syncSequences(sa, sb, crossings)
		if !ok {
			return Synced{}, false, nil
		}
		return Synced{A: ra, B: rb, Crossings: cross}, true, nil
	}
	return syncSequenceSets(sequencesOf(a), sequencesOf(b), crossings)
}

// checkOperands returns an error unless the base types are equal or both
// numeric.
func checkOperands(a, b Temporal) error {
	ta, tb := a.BaseType(), b.BaseType()
	if ta == tb || (ta.Kind() == base.KindNumeric && tb.Kind() == base.KindNumeric) {
		return nil
	}
	return newError(ErrCodeIncompatibleOperands, -1, "cannot combine %s with %s", ta.TemporalName(), tb.TemporalName())
}

// intersect restricts two continuous operands to their common time. Two
// Sequences stay Sequences; otherwise both sides become SequenceSets.
func intersect(a, b Temporal) (Synced, bool, error) {
	sa, oka := a.(*Sequence)
	sb, okb := b.(*Sequence)
	if oka && okb {
		inter, ok := sa.period.Intersection(sb.period)
		if !ok {
			return Synced{}, false, nil
		}
		ra, _ := sequenceAtPeriod(sa, inter)
		rb, _ := sequenceAtPeriod(sb, inter)
		return Synced{A: ra, B: rb}, true, nil
	}
	common, ok := a.Time().Intersection(b.Time())
	if !ok {
		return Synced{}, false, nil
	}
	ra, oka := AtPeriodSet(a, common)
	rb, okb := AtPeriodSet(b, common)
	if !oka || !okb {
		return Synced{}, false, nil
	}
	return Synced{A: ra, B: rb}, true, nil
}

func pair(x, y Temporal, swapped bool) Synced {
	if swapped {
		return Synced{A: y, B: x}
	}
	return Synced{A: x, B: y}
}

func syncInstant(inst Instant, other Temporal, swapped bool) (Synced, bool, error) {
	v, ok := other.ValueAt(inst.T)
	if !ok {
		return Synced{}, false, nil
	}
	return pair(inst, NewInstant(v, inst.T), swapped), true, nil
}

func syncInstantSet(set *InstantSet, other Temporal, swapped bool) (Synced, bool, error) {
	var mine, theirs []Instant
	if o, ok := other.(*InstantSet); ok {
		i, j := 0, 0
		for i < len(set.instants) && j < len(o.instants) {
			x, y := set.instants[i], o.instants[j]
			switch {
			case x.T < y.T:
				i++
			case y.T < x.T:
				j++
			default:
				mine = append(mine, x)
				theirs = append(theirs, y)
				i++
				j++
			}
		}
	} else {
		for _, inst := range set.instants {
			if v, ok := other.ValueAt(inst.T); ok {
				mine = append(mine, inst)
				theirs = append(theirs, NewInstant(v, inst.T))
			}
		}
	}
	if len(mine) == 0 {
		return Synced{}, false, nil
	}
	return pair(newInstantSet(mine), newInstantSet(theirs), swapped), true, nil
}

func sequencesOf(temp Temporal) []*Sequence {
	switch t := temp.(type) {
	case *Sequence:
		return []*Sequence{t}
	case *SequenceSet:
		return t.sequences
	default:
		panic(unknownSubtype(temp))
	}
}

// syncSequenceSets sweeps both sequence lists once, synchronizing every
// overlapping pair.
func syncSequenceSets(as, bs []*Sequence, crossings bool) (Synced, bool, error) {
	var ra, rb []*Sequence
	var cross []period.Timestamp
	i, j := 0, 0
	for i < len(as) && j < len(bs) {
		s1, s2 := as[i], bs[j]
		if x, y, c, ok := syncSequences(s1, s2, crossings); ok {
			ra = append(ra, x)
			rb = append(rb, y)
			cross = append(cross, c...)
		}
		p1, p2 := s1.period, s2.period
		switch {
		case p1.Upper < p2.Upper:
			i++
		case p2.Upper < p1.Upper:
			j++
		case p1.UpperInc == p2.UpperInc:
			i++
			j++
		case !p1.UpperInc:
			i++
		default:
			j++
		}
	}
	if len(ra) == 0 {
		return Synced{}, false, nil
	}
	return Synced{A: newSequenceSet(ra), B: newSequenceSet(rb), Crossings: cross}, true, nil
}

// syncSequences aligns two sequences over the intersection of their periods.
// Stored instants and the intersection bounds become synchronization points;
// when crossings is set and either side is linear, crossing instants are
// inserted between consecutive points.
func syncSequences(s1, s2 *Sequence, crossings bool) (*Sequence, *Sequence, []period.Timestamp, bool) {
	inter, ok := s1.period.Intersection(s2.period)
	if !ok {
		return nil, nil, nil, false
	}
	if inter.IsInstant() {
		t := inter.Lower
		r1 := newSequence([]Instant{NewInstant(s1.valueAtClosed(t), t)}, true, true, s1.interp)
		r2 := newSequence([]Instant{NewInstant(s2.valueAtClosed(t), t)}, true, true, s2.interp)
		return r1, r2, nil, true
	}

	times := mergeTimes(s1, s2, inter)
	linear1, linear2 := s1.interp == Linear, s2.interp == Linear
	findCrossings := crossings && (linear1 || linear2)
	out1 := make([]Instant, 0, len(times))
	out2 := make([]Instant, 0, len(times))
	var cross []period.Timestamp
	for k, t := range times {
		v1, v2 := s1.valueAtClosed(t), s2.valueAtClosed(t)
		if findCrossings && k > 0 {
			p1, p2 := out1[len(out1)-1], out2[len(out2)-1]
			for _, c := range FindCrossing(p1.Value, v1, p2.Value, v2, p1.T, t, linear1, linear2) {
				out1 = append(out1, NewInstant(c.A, c.T))
				out2 = append(out2, NewInstant(c.B, c.T))
				cross = append(cross, c.T)
			}
		}
		out1 = append(out1, NewInstant(v1, t))
		out2 = append(out2, NewInstant(v2, t))
	}
	fixStepwiseEnd(out1, s1.interp, inter.UpperInc)
	fixStepwiseEnd(out2, s2.interp, inter.UpperInc)
	r1 := newSequence(out1, inter.LowerInc, inter.UpperInc, s1.interp)
	r2 := newSequence(out2, inter.LowerInc, inter.UpperInc, s2.interp)
	return r1, r2, cross, true
}

// mergeTimes returns the bounds of inter and every instant timestamp of s1
// or s2 strictly inside it, in order and without duplicates.
func mergeTimes(s1, s2 *Sequence, inter period.Period) []period.Timestamp {
	after := func(s *Sequence) int {
		return sort.Search(len(s.instants), func(i int) bool { return s.instants[i].T > inter.Lower })
	}
	i, j := after(s1), after(s2)
	times := []period.Timestamp{inter.Lower}
	for {
		t := inter.Upper
		if i < len(s1.instants) && s1.instants[i].T < t {
			t = s1.instants[i].T
		}
		if j < len(s2.instants) && s2.instants[j].T < t {
			t = s2.instants[j].T
		}
		if t >= inter.Upper {
			break
		}
		times = append(times, t)
		if i < len(s1.instants) && s1.instants[i].T == t {
			i++
		}
		if j < len(s2.instants) && s2.instants[j].T == t {
			j++
		}
	}
	return append(times, inter.Upper)
}

// fixStepwiseEnd makes a stepwise run with an exclusive upper bound end with
// its penultimate value.
func fixStepwiseEnd(instants []Instant, interp Interp, upperInc bool) {
	n := len(instants)
	if interp == Stepwise && !upperInc && n > 1 {
		instants[n-1].Value = instants[n-2].Value
	}
}
