package base

import (
	"cmp"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// Epsilon is the tolerance used for collinearity and crossing tests.
// Equality of stored values is exact.
const Epsilon = 1e-5

// Value is a sealed interface representing one base value.
// Only Bool, Int, Float, Text and Point implement it.
type Value interface {
	// Type returns the base type tag.
	Type() Type

	// String returns the literal form used by the text codec.
	String() string

	baseValue() // Sealed
}

// Bool is a boolean base value.
type Bool bool

func (Bool) baseValue() {}

// Type implements Value.
func (Bool) Type() Type { return TypeBool }

func (b Bool) String() string {
	if b {
		return "t"
	}
	return "f"
}

// Int is an integer base value. Integers are numeric but not continuous:
// temporal integers are always stepwise.
type Int int64

func (Int) baseValue() {}

// Type implements Value.
func (Int) Type() Type { return TypeInt }

func (i Int) String() string {
	return strconv.FormatInt(int64(i), 10)
}

// Float is a floating point base value.
type Float float64

func (Float) baseValue() {}

// Type implements Value.
func (Float) Type() Type { return TypeFloat }

func (f Float) String() string {
	return strconv.FormatFloat(float64(f), 'g', -1, 64)
}

// Text is a string base value. Build it with NewText so the content is NFC
// normalized; comparisons assume normalized content.
type Text string

func (Text) baseValue() {}

// Type implements Value.
func (Text) Type() Type { return TypeText }

func (t Text) String() string {
	return strconv.Quote(string(t))
}

// NewText creates a Text value normalized to Unicode NFC.
func NewText(s string) Text {
	return Text(norm.NFC.String(s))
}

// Point is a planar point base value.
type Point struct {
	X float64
	Y float64
}

func (Point) baseValue() {}

// Type implements Value.
func (Point) Type() Type { return TypePoint }

func (p Point) String() string {
	return fmt.Sprintf("POINT(%s %s)",
		strconv.FormatFloat(p.X, 'g', -1, 64),
		strconv.FormatFloat(p.Y, 'g', -1, 64))
}

// Equal reports whether a and b are the same value of the same type.
// Float components compare exactly.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Type() != b.Type() {
		return false
	}
	return a == b
}

// Compare orders two values. Numeric values compare across Int and Float;
// other types must match. Points order by x, then y.
// Panics if the values cannot be compared.
func Compare(a, b Value) int {
	if x, ok := Scalar(a); ok {
		if y, ok := Scalar(b); ok {
			return cmp.Compare(x, y)
		}
	}
	if a.Type() != b.Type() {
		panic(fmt.Sprintf("base: cannot compare %s with %s", a.Type(), b.Type()))
	}
	switch av := a.(type) {
	case Bool:
		bv := b.(Bool)
		switch {
		case av == bv:
			return 0
		case bool(bv):
			return -1
		default:
			return 1
		}
	case Text:
		return cmp.Compare(av, b.(Text))
	case Point:
		bv := b.(Point)
		if c := cmp.Compare(av.X, bv.X); c != 0 {
			return c
		}
		return cmp.Compare(av.Y, bv.Y)
	default:
		panic(fmt.Sprintf("base: unhandled value %T", a))
	}
}

// Comparable reports whether Compare accepts a and b.
func Comparable(a, b Value) bool {
	if a.Type().Kind() == KindNumeric && b.Type().Kind() == KindNumeric {
		return true
	}
	return a.Type() == b.Type()
}

// Scalar converts a numeric value to float64.
// Returns false for non-numeric values.
func Scalar(v Value) (float64, bool) {
	switch val := v.(type) {
	case Int:
		return float64(val), true
	case Float:
		return float64(val), true
	default:
		return 0, false
	}
}

// IsFinite reports whether every float component of v is finite.
func IsFinite(v Value) bool {
	switch val := v.(type) {
	case Float:
		return !math.IsInf(float64(val), 0) && !math.IsNaN(float64(val))
	case Point:
		return !math.IsInf(val.X, 0) && !math.IsNaN(val.X) && !math.IsInf(val.Y, 0) && !math.IsNaN(val.Y)
	default:
		return true
	}
}
