package temporal

import (
	"math"

	"github.com/roach88/tempus/internal/base"
	"github.com/roach88/tempus/internal/box"
)

// TEq returns the temporal boolean a = b over the common time support.
func TEq(a, b Temporal) (Temporal, bool, error) {
	return liftBool(a, b, false, func(x, y base.Value) bool { return equalValues(x, y) })
}

// TNe returns the temporal boolean a <> b.
func TNe(a, b Temporal) (Temporal, bool, error) {
	return liftBool(a, b, false, func(x, y base.Value) bool { return !equalValues(x, y) })
}

// TLt returns the temporal boolean a < b. Points are not ordered.
func TLt(a, b Temporal) (Temporal, bool, error) {
	return liftBool(a, b, true, func(x, y base.Value) bool { return base.Compare(x, y) < 0 })
}

// TLe returns the temporal boolean a <= b.
func TLe(a, b Temporal) (Temporal, bool, error) {
	return liftBool(a, b, true, func(x, y base.Value) bool { return base.Compare(x, y) <= 0 })
}

// TGt returns the temporal boolean a > b.
func TGt(a, b Temporal) (Temporal, bool, error) {
	return liftBool(a, b, true, func(x, y base.Value) bool { return base.Compare(x, y) > 0 })
}

// TGe returns the temporal boolean a >= b.
func TGe(a, b Temporal) (Temporal, bool, error) {
	return liftBool(a, b, true, func(x, y base.Value) bool { return base.Compare(x, y) >= 0 })
}

// TAnd returns the conjunction of two temporal booleans.
func TAnd(a, b Temporal) (Temporal, bool, error) {
	if err := checkBool(a, b); err != nil {
		return nil, false, err
	}
	return liftBool(a, b, false, func(x, y base.Value) bool { return bool(x.(base.Bool)) && bool(y.(base.Bool)) })
}

// TOr returns the disjunction of two temporal booleans.
func TOr(a, b Temporal) (Temporal, bool, error) {
	if err := checkBool(a, b); err != nil {
		return nil, false, err
	}
	return liftBool(a, b, false, func(x, y base.Value) bool { return bool(x.(base.Bool)) || bool(y.(base.Bool)) })
}

// TNot returns the negation of a temporal boolean.
func TNot(a Temporal) (Temporal, error) {
	if a.BaseType() != base.TypeBool {
		return nil, newError(ErrCodeIncompatibleOperands, -1, "tnot requires tbool, got %s", a.BaseType().TemporalName())
	}
	return mapValues(a, func(v base.Value) base.Value { return !v.(base.Bool) }), nil
}

// Add returns a + b. Integers stay integers; mixing with floats yields floats.
// Sequence operands must share their interpolation.
func Add(a, b Temporal) (Temporal, bool, error) {
	return liftArithmetic(a, b, Align, true, func(x, y float64) float64 { return x + y })
}

// Sub returns a - b.
func Sub(a, b Temporal) (Temporal, bool, error) {
	return liftArithmetic(a, b, Align, true, func(x, y float64) float64 { return x - y })
}

// Distance returns |a - b| as a temporal float. Crossings are inserted so
// that linear results stay exact.
func Distance(a, b Temporal) (Temporal, bool, error) {
	return liftArithmetic(a, b, AlignWithCrossings, false, func(x, y float64) float64 { return math.Abs(x - y) })
}

// EverEq reports whether temp takes the value v at some timestamp.
func EverEq(temp Temporal, v base.Value) bool {
	if !valueComparable(temp.BaseType(), v) || !box.ContainsValue(temp.BBox(), v) {
		return false
	}
	switch t := temp.(type) {
	case Instant, *InstantSet:
		for _, inst := range t.Instants() {
			if equalValues(inst.Value, v) {
				return true
			}
		}
		return false
	case *Sequence, *SequenceSet:
		for _, seq := range sequencesOf(temp) {
			if seq.everEq(v) {
				return true
			}
		}
		return false
	default:
		panic(unknownSubtype(temp))
	}
}

func (s *Sequence) everEq(v base.Value) bool {
	n := len(s.instants)
	if n == 1 || s.interp != Linear {
		for _, inst := range s.instants {
			if equalValues(inst.Value, v) {
				return true
			}
		}
		return false
	}
	for k := 0; k < n-1; k++ {
		v1, v2 := s.instants[k].Value, s.instants[k+1].Value
		if base.Equal(v1, v2) {
			if equalValues(v1, v) {
				return true
			}
			continue
		}
		f, ok := base.LocateOnSegment(v1, v2, v)
		if !ok {
			continue
		}
		switch {
		case f > 0 && f < 1:
			return true
		case f == 0 && (k > 0 || s.period.LowerInc):
			return true
		case f == 1 && (k+1 < n-1 || s.period.UpperInc):
			return true
		}
	}
	return false
}

// AlwaysEq reports whether temp takes the value v at every timestamp.
func AlwaysEq(temp Temporal, v base.Value) bool {
	if !valueComparable(temp.BaseType(), v) {
		return false
	}
	if tb, ok := temp.BBox().(box.TBox); ok {
		x, _ := base.Scalar(v)
		return tb.VMin == tb.VMax && tb.VMin == x
	}
	for _, inst := range temp.Instants() {
		if !equalValues(inst.Value, v) {
			return false
		}
	}
	return true
}

func valueComparable(typ base.Type, v base.Value) bool {
	if v == nil {
		return false
	}
	return typ == v.Type() || (typ.Kind() == base.KindNumeric && v.Type().Kind() == base.KindNumeric)
}

// equalValues compares numeric values by magnitude and others exactly.
func equalValues(x, y base.Value) bool {
	if xs, ok := base.Scalar(x); ok {
		ys, ok := base.Scalar(y)
		return ok && xs == ys
	}
	return base.Equal(x, y)
}

func checkBool(a, b Temporal) error {
	if a.BaseType() != base.TypeBool || b.BaseType() != base.TypeBool {
		return newError(ErrCodeIncompatibleOperands, -1, "boolean operator requires tbool operands, got %s and %s",
			a.BaseType().TemporalName(), b.BaseType().TemporalName())
	}
	return nil
}

// liftBool evaluates a boolean predicate over the synchronized operands.
// The result is stepwise and may change value at crossings, so every
// synchronized segment is evaluated at its start, interior and end.
func liftBool(a, b Temporal, ordered bool, pred func(x, y base.Value) bool) (Temporal, bool, error) {
	if ordered && (a.BaseType().Kind() == base.KindSpatial || b.BaseType().Kind() == base.KindSpatial) {
		return nil, false, newError(ErrCodeIncompatibleOperands, -1, "%s values are not ordered", a.BaseType().TemporalName())
	}
	synced, ok, err := Synchronize(a, b, AlignWithCrossings)
	if err != nil || !ok {
		return nil, ok, err
	}
	fn := func(x, y base.Value) base.Value { return base.Bool(pred(x, y)) }
	switch sa := synced.A.(type) {
	case Instant, *InstantSet:
		return zipInstants(synced, fn), true, nil
	case *Sequence:
		pieces := NormalizeSequences(discontinuousPieces(sa, synced.B.(*Sequence), fn))
		if len(pieces) == 1 {
			return pieces[0], true, nil
		}
		return newSequenceSet(pieces), true, nil
	case *SequenceSet:
		sb := synced.B.(*SequenceSet)
		var pieces []*Sequence
		for i, seq := range sa.sequences {
			pieces = append(pieces, discontinuousPieces(seq, sb.sequences[i], fn)...)
		}
		return newSequenceSet(NormalizeSequences(pieces)), true, nil
	default:
		panic(unknownSubtype(synced.A))
	}
}

// discontinuousPieces evaluates fn over two synchronized sequences and
// returns stepwise pieces: for each segment [t0, t1] either one piece or the
// instant [t0], the open interior (t0, t1) and, at the end of the sequence,
// the instant [t1].
func discontinuousPieces(s1, s2 *Sequence, fn func(x, y base.Value) base.Value) []*Sequence {
	n := len(s1.instants)
	if n == 1 {
		r := fn(s1.instants[0].Value, s2.instants[0].Value)
		return []*Sequence{singleton(r, s1.instants[0])}
	}
	var pieces []*Sequence
	for k := 0; k < n-1; k++ {
		i1, i2 := s1.instants[k], s1.instants[k+1]
		j1, j2 := s2.instants[k], s2.instants[k+1]
		lowerInc := k > 0 || s1.period.LowerInc
		last := k == n-2

		r0 := fn(i1.Value, j1.Value)
		rm := fn(midValue(i1, i2, s1.interp), midValue(j1, j2, s2.interp))
		r1 := fn(i2.Value, j2.Value)
		upperInc := last && s1.period.UpperInc && base.Equal(r1, rm)

		if base.Equal(r0, rm) {
			pieces = append(pieces, newSequence([]Instant{{r0, i1.T}, {rm, i2.T}}, lowerInc, upperInc, Stepwise))
		} else {
			if lowerInc {
				pieces = append(pieces, singleton(r0, i1))
			}
			pieces = append(pieces, newSequence([]Instant{{rm, i1.T}, {rm, i2.T}}, false, upperInc, Stepwise))
		}
		if last && s1.period.UpperInc && !upperInc {
			pieces = append(pieces, singleton(r1, i2))
		}
	}
	return pieces
}

func singleton(v base.Value, at Instant) *Sequence {
	return newSequence([]Instant{{v, at.T}}, true, true, Stepwise)
}

func midValue(inst1, inst2 Instant, interp Interp) base.Value {
	if interp == Linear {
		return base.Interpolate(inst1.Value, inst2.Value, 0.5)
	}
	return inst1.Value
}

// liftArithmetic applies a numeric function instant by instant over the
// synchronized operands.
func liftArithmetic(a, b Temporal, mode Mode, keepInt bool, fn func(x, y float64) float64) (Temporal, bool, error) {
	if a.BaseType().Kind() != base.KindNumeric || b.BaseType().Kind() != base.KindNumeric {
		return nil, false, newError(ErrCodeIncompatibleOperands, -1, "arithmetic requires numeric operands, got %s and %s",
			a.BaseType().TemporalName(), b.BaseType().TemporalName())
	}
	if a.Interp() != Discrete && b.Interp() != Discrete && a.Interp() != b.Interp() {
		return nil, false, newError(ErrCodeIncompatibleOperands, -1, "cannot combine %s with %s interpolation", a.Interp(), b.Interp())
	}
	resultInt := keepInt && a.BaseType() == base.TypeInt && b.BaseType() == base.TypeInt
	synced, ok, err := Synchronize(a, b, mode)
	if err != nil || !ok {
		return nil, ok, err
	}
	combine := func(x, y base.Value) base.Value {
		xs, _ := base.Scalar(x)
		ys, _ := base.Scalar(y)
		r := fn(xs, ys)
		if resultInt {
			return base.Int(int64(r))
		}
		return base.Float(r)
	}
	switch sa := synced.A.(type) {
	case Instant, *InstantSet:
		return zipInstants(synced, combine), true, nil
	case *Sequence:
		return zipSequence(sa, synced.B.(*Sequence), combine), true, nil
	case *SequenceSet:
		sb := synced.B.(*SequenceSet)
		result := make([]*Sequence, len(sa.sequences))
		for i, seq := range sa.sequences {
			result[i] = zipSequence(seq, sb.sequences[i], combine)
		}
		return newSequenceSet(result), true, nil
	default:
		panic(unknownSubtype(synced.A))
	}
}

func zipInstants(synced Synced, fn func(x, y base.Value) base.Value) Temporal {
	switch sa := synced.A.(type) {
	case Instant:
		sb := synced.B.(Instant)
		return NewInstant(fn(sa.Value, sb.Value), sa.T)
	case *InstantSet:
		sb := synced.B.(*InstantSet)
		result := make([]Instant, len(sa.instants))
		for i, inst := range sa.instants {
			result[i] = NewInstant(fn(inst.Value, sb.instants[i].Value), inst.T)
		}
		return newInstantSet(result)
	default:
		panic(unknownSubtype(synced.A))
	}
}

func zipSequence(s1, s2 *Sequence, fn func(x, y base.Value) base.Value) *Sequence {
	result := make([]Instant, len(s1.instants))
	for i, inst := range s1.instants {
		result[i] = NewInstant(fn(inst.Value, s2.instants[i].Value), inst.T)
	}
	interp := s1.interp
	if interp == Linear && !result[0].Value.Type().Continuous() {
		interp = Stepwise
	}
	return newSequence(normalizeInstants(result, interp), s1.period.LowerInc, s1.period.UpperInc, interp)
}

// mapValues applies fn to every instant value, keeping the structure of temp.
func mapValues(temp Temporal, fn func(base.Value) base.Value) Temporal {
	mapSeq := func(seq *Sequence) *Sequence {
		result := make([]Instant, len(seq.instants))
		for i, inst := range seq.instants {
			result[i] = NewInstant(fn(inst.Value), inst.T)
		}
		return newSequence(result, seq.period.LowerInc, seq.period.UpperInc, seq.interp)
	}
	switch t := temp.(type) {
	case Instant:
		return NewInstant(fn(t.Value), t.T)
	case *InstantSet:
		result := make([]Instant, len(t.instants))
		for i, inst := range t.instants {
			result[i] = NewInstant(fn(inst.Value), inst.T)
		}
		return newInstantSet(result)
	case *Sequence:
		return mapSeq(t)
	case *SequenceSet:
		result := make([]*Sequence, len(t.sequences))
		for i, seq := range t.sequences {
			result[i] = mapSeq(seq)
		}
		return newSequenceSet(result)
	default:
		panic(unknownSubtype(temp))
	}
}
