package box

import (
	"fmt"
	"math"

	"github.com/roach88/tempus/internal/base"
	"github.com/roach88/tempus/internal/period"
)

// Box is a sealed interface over the three bounding box shapes.
type Box interface {
	// Period returns the time extent of the box.
	Period() period.Period

	// Kind returns the base kind the box describes.
	Kind() base.Kind

	String() string

	box() // Sealed
}

// Time bounds a discrete temporal value by its period only.
type Time struct {
	Extent period.Period
}

func (Time) box() {}

// Period implements Box.
func (b Time) Period() period.Period { return b.Extent }

// Kind implements Box.
func (Time) Kind() base.Kind { return base.KindDiscrete }

func (b Time) String() string {
	return "PERIOD(" + b.Extent.String() + ")"
}

// TBox bounds a numeric temporal value by value range and period.
type TBox struct {
	Extent period.Period
	VMin   float64
	VMax   float64
}

func (TBox) box() {}

// Period implements Box.
func (b TBox) Period() period.Period { return b.Extent }

// Kind implements Box.
func (TBox) Kind() base.Kind { return base.KindNumeric }

func (b TBox) String() string {
	return fmt.Sprintf("TBOX(%g, %g, %s)", b.VMin, b.VMax, b.Extent)
}

// STBox bounds a spatial temporal value by its planar extent and period.
type STBox struct {
	Extent period.Period
	XMin   float64
	YMin   float64
	XMax   float64
	YMax   float64
}

func (STBox) box() {}

// Period implements Box.
func (b STBox) Period() period.Period { return b.Extent }

// Kind implements Box.
func (STBox) Kind() base.Kind { return base.KindSpatial }

func (b STBox) String() string {
	return fmt.Sprintf("STBOX((%g, %g), (%g, %g), %s)", b.XMin, b.YMin, b.XMax, b.YMax, b.Extent)
}

// FromInstant returns the box of a single value at t.
func FromInstant(v base.Value, t period.Timestamp) Box {
	return Make([]base.Value{v}, period.Instant(t))
}

// Make computes the box of values over p in one pass.
// Panics on an empty slice or a value of unknown kind.
func Make(values []base.Value, p period.Period) Box {
	if len(values) == 0 {
		panic("box: no values")
	}
	switch kind := values[0].Type().Kind(); kind {
	case base.KindDiscrete:
		return Time{Extent: p}
	case base.KindNumeric:
		b := TBox{Extent: p, VMin: math.Inf(1), VMax: math.Inf(-1)}
		for _, v := range values {
			x, _ := base.Scalar(v)
			b.VMin = math.Min(b.VMin, x)
			b.VMax = math.Max(b.VMax, x)
		}
		return b
	case base.KindSpatial:
		b := STBox{Extent: p, XMin: math.Inf(1), YMin: math.Inf(1), XMax: math.Inf(-1), YMax: math.Inf(-1)}
		for _, v := range values {
			pt := v.(base.Point)
			b.XMin = math.Min(b.XMin, pt.X)
			b.YMin = math.Min(b.YMin, pt.Y)
			b.XMax = math.Max(b.XMax, pt.X)
			b.YMax = math.Max(b.YMax, pt.Y)
		}
		return b
	default:
		panic(fmt.Sprintf("box: unknown kind %s", kind))
	}
}

// Merge returns the smallest box enclosing a and b.
// Panics if a and b are of different shapes.
func Merge(a, b Box) Box {
	span := a.Period().Span(b.Period())
	switch av := a.(type) {
	case Time:
		mustSameKind(a, b)
		return Time{Extent: span}
	case TBox:
		bv := mustSameKind(a, b).(TBox)
		return TBox{Extent: span, VMin: math.Min(av.VMin, bv.VMin), VMax: math.Max(av.VMax, bv.VMax)}
	case STBox:
		bv := mustSameKind(a, b).(STBox)
		return STBox{
			Extent: span,
			XMin:   math.Min(av.XMin, bv.XMin),
			YMin:   math.Min(av.YMin, bv.YMin),
			XMax:   math.Max(av.XMax, bv.XMax),
			YMax:   math.Max(av.YMax, bv.YMax),
		}
	default:
		panic(fmt.Sprintf("box: unknown box %T", a))
	}
}

// Contains reports whether the value v at t lies in b.
func Contains(b Box, v base.Value, t period.Timestamp) bool {
	return b.Period().Contains(t) && ContainsValue(b, v)
}

// ContainsValue reports whether v lies in the value dimensions of b,
// ignoring time. Time boxes contain every value.
func ContainsValue(b Box, v base.Value) bool {
	switch bv := b.(type) {
	case Time:
		return true
	case TBox:
		x, ok := base.Scalar(v)
		return ok && x >= bv.VMin && x <= bv.VMax
	case STBox:
		pt, ok := v.(base.Point)
		return ok && pt.X >= bv.XMin && pt.X <= bv.XMax && pt.Y >= bv.YMin && pt.Y <= bv.YMax
	default:
		panic(fmt.Sprintf("box: unknown box %T", b))
	}
}

// Overlaps reports whether a and b share at least one point in every
// dimension.
func Overlaps(a, b Box) bool {
	if !a.Period().Overlaps(b.Period()) {
		return false
	}
	switch av := a.(type) {
	case Time:
		mustSameKind(a, b)
		return true
	case TBox:
		bv := mustSameKind(a, b).(TBox)
		return av.VMin <= bv.VMax && bv.VMin <= av.VMax
	case STBox:
		bv := mustSameKind(a, b).(STBox)
		return av.XMin <= bv.XMax && bv.XMin <= av.XMax &&
			av.YMin <= bv.YMax && bv.YMin <= av.YMax
	default:
		panic(fmt.Sprintf("box: unknown box %T", a))
	}
}

// Equal reports whether a and b are the same box.
func Equal(a, b Box) bool {
	return a == b
}

func mustSameKind(a, b Box) Box {
	if a.Kind() != b.Kind() {
		panic(fmt.Sprintf("box: cannot combine %T with %T", a, b))
	}
	return b
}
