package base

import (
	"fmt"
	"math"
)

// Interpolate returns the value at fraction along the segment from a to b.
// Fractions 0 and 1 return the endpoints unchanged.
// Panics if the values are not of the same continuous type.
func Interpolate(a, b Value, fraction float64) Value {
	if fraction <= 0 {
		return a
	}
	if fraction >= 1 {
		return b
	}
	switch av := a.(type) {
	case Float:
		bv := b.(Float)
		return Float(float64(av) + (float64(bv)-float64(av))*fraction)
	case Point:
		bv := b.(Point)
		return Point{
			X: av.X + (bv.X-av.X)*fraction,
			Y: av.Y + (bv.Y-av.Y)*fraction,
		}
	default:
		panic(fmt.Sprintf("base: cannot interpolate %s", a.Type()))
	}
}

// Collinear reports whether v2 lies on the line from v1 to v3 at ratio,
// where ratio is (t2-t1)/(t3-t1). Discrete and integer values are collinear
// only when all three are equal.
func Collinear(v1, v2, v3 Value, ratio float64) bool {
	switch a := v1.(type) {
	case Float:
		b, c := float64(v2.(Float)), float64(v3.(Float))
		return nearlyEqual(float64(a)+(c-float64(a))*ratio, b)
	case Point:
		b, c := v2.(Point), v3.(Point)
		return nearlyEqual(a.X+(c.X-a.X)*ratio, b.X) &&
			nearlyEqual(a.Y+(c.Y-a.Y)*ratio, b.Y)
	default:
		return Equal(v1, v2) && Equal(v2, v3)
	}
}

// LocateOnSegment returns the fraction at which the segment from a to b
// takes the value v. The fraction is clamped into [0, 1] when it lies within
// Epsilon of an endpoint. Returns false when v is not on the segment or the
// segment is constant.
func LocateOnSegment(a, b, v Value) (float64, bool) {
	switch av := a.(type) {
	case Float, Int:
		x1, _ := Scalar(av)
		x2, _ := Scalar(b)
		x, _ := Scalar(v)
		if x1 == x2 {
			return 0, false
		}
		return clampFraction((x - x1) / (x2 - x1))
	case Point:
		bv, pv := b.(Point), v.(Point)
		return locatePoint(av, bv, pv)
	default:
		return 0, false
	}
}

func locatePoint(a, b, v Point) (float64, bool) {
	fx, okx := axisFraction(a.X, b.X, v.X)
	fy, oky := axisFraction(a.Y, b.Y, v.Y)
	switch {
	case okx == axisNone || oky == axisNone:
		return 0, false
	case okx == axisAny && oky == axisAny:
		return 0, false
	case okx == axisAny:
		return clampFraction(fy)
	case oky == axisAny:
		return clampFraction(fx)
	case !nearlyEqual(fx, fy):
		return 0, false
	default:
		return clampFraction(fx)
	}
}

type axisResult int

const (
	axisNone axisResult = iota // no fraction satisfies the axis
	axisOne                    // exactly one fraction
	axisAny                    // constant axis already at the value
)

func axisFraction(from, to, v float64) (float64, axisResult) {
	if from == to {
		if nearlyEqual(from, v) {
			return 0, axisAny
		}
		return 0, axisNone
	}
	return (v - from) / (to - from), axisOne
}

// SegmentCrossings returns the fractions strictly inside (0, 1) at which two
// points moving linearly over the same interval coincide: a from a1 to a2
// and b from b1 to b2. Points that coincide along the whole segment or never
// meet yield no crossing.
func SegmentCrossings(a1, a2, b1, b2 Point) []float64 {
	// a(f) - b(f) = d0 + dd*f per axis.
	fx, rx := axisFraction(a1.X-b1.X, (a1.X-b1.X)+((a2.X-a1.X)-(b2.X-b1.X)), 0)
	fy, ry := axisFraction(a1.Y-b1.Y, (a1.Y-b1.Y)+((a2.Y-a1.Y)-(b2.Y-b1.Y)), 0)
	var f float64
	switch {
	case rx == axisNone || ry == axisNone:
		return nil
	case rx == axisAny && ry == axisAny:
		return nil
	case rx == axisAny:
		f = fy
	case ry == axisAny:
		f = fx
	case !nearlyEqual(fx, fy):
		return nil
	default:
		f = fx
	}
	if f <= Epsilon || f >= 1-Epsilon {
		return nil
	}
	return []float64{f}
}

func clampFraction(f float64) (float64, bool) {
	switch {
	case f < -Epsilon || f > 1+Epsilon || math.IsNaN(f):
		return 0, false
	case f < 0:
		return 0, true
	case f > 1:
		return 1, true
	default:
		return f, true
	}
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}
