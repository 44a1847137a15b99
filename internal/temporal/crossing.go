package temporal

import (
	"math"

	"github.com/roach88/tempus/internal/base"
	"github.com/roach88/tempus/internal/period"
)

// Crossing is a timestamp strictly inside a segment at which two temporal
// values meet, with the value each side takes there.
type Crossing struct {
	T period.Timestamp
	A base.Value
	B base.Value
}

// FindCrossing returns the crossings of segment a (a1 to a2) and segment b
// (b1 to b2), both spanning [ta, tb]. A non-linear or constant segment keeps
// its start value. Crossings that round onto ta or tb are dropped, so the
// result holds zero, one or two crossings strictly inside the segment.
func FindCrossing(a1, a2, b1, b2 base.Value, ta, tb period.Timestamp, linearA, linearB bool) []Crossing {
	constA := !linearA || base.Equal(a1, a2)
	constB := !linearB || base.Equal(b1, b2)
	switch {
	case constA && constB:
		return nil
	case constA:
		return constantCrossing(b1, b2, a1, ta, tb, false)
	case constB:
		return constantCrossing(a1, a2, b1, ta, tb, true)
	}

	if a1.Type().Kind() == base.KindSpatial {
		var result []Crossing
		for _, f := range base.SegmentCrossings(a1.(base.Point), a2.(base.Point), b1.(base.Point), b2.(base.Point)) {
			t, ok := crossingTime(ta, tb, f)
			if !ok {
				continue
			}
			v := meet(a1, a2, b1, b2, f)
			result = append(result, Crossing{T: t, A: v, B: v})
		}
		return result
	}

	x1, _ := base.Scalar(a1)
	x2, _ := base.Scalar(a2)
	x3, _ := base.Scalar(b1)
	x4, _ := base.Scalar(b2)
	denom := x2 - x1 - x4 + x3
	if denom == 0 {
		return nil
	}
	f := (x3 - x1) / denom
	if f < -base.Epsilon || f > 1+base.Epsilon {
		return nil
	}
	t, ok := crossingTime(ta, tb, f)
	if !ok {
		return nil
	}
	v := meet(a1, a2, b1, b2, f)
	return []Crossing{{T: t, A: v, B: v}}
}

// meet returns the common value of two linear segments at fraction f, as the
// mean of both interpolations so that swapping the operands gives the same
// result.
func meet(a1, a2, b1, b2 base.Value, f float64) base.Value {
	va := base.Interpolate(a1, a2, f)
	vb := base.Interpolate(b1, b2, f)
	switch x := va.(type) {
	case base.Float:
		return (x + vb.(base.Float)) / 2
	case base.Point:
		y := vb.(base.Point)
		return base.Point{X: (x.X + y.X) / 2, Y: (x.Y + y.Y) / 2}
	default:
		return va
	}
}

// constantCrossing finds where the linear segment lin1 to lin2 takes the
// constant value c. linearIsA tells which operand the linear segment is.
func constantCrossing(lin1, lin2, c base.Value, ta, tb period.Timestamp, linearIsA bool) []Crossing {
	f, ok := base.LocateOnSegment(lin1, lin2, c)
	if !ok {
		return nil
	}
	t, ok := crossingTime(ta, tb, f)
	if !ok {
		return nil
	}
	v := asType(c, lin1.Type())
	if linearIsA {
		return []Crossing{{T: t, A: v, B: c}}
	}
	return []Crossing{{T: t, A: c, B: v}}
}

func crossingTime(ta, tb period.Timestamp, fraction float64) (period.Timestamp, bool) {
	t := ta + period.Timestamp(math.Round(float64(tb-ta)*fraction))
	if t <= ta || t >= tb {
		return 0, false
	}
	return t, true
}

// asType converts a numeric value to typ. Other values are returned as is.
func asType(v base.Value, typ base.Type) base.Value {
	if v.Type() == typ {
		return v
	}
	x, ok := base.Scalar(v)
	if !ok {
		return v
	}
	switch typ {
	case base.TypeFloat:
		return base.Float(x)
	case base.TypeInt:
		return base.Int(int64(x))
	default:
		return v
	}
}
