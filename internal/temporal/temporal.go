package temporal

import (
	"fmt"

	"github.com/roach88/tempus/internal/base"
	"github.com/roach88/tempus/internal/box"
	"github.com/roach88/tempus/internal/period"
)

// Subtype identifies the shape of a temporal value. The numeric values are
// part of the binary encoding.
type Subtype uint8

const (
	SubtypeInstant Subtype = iota + 1
	SubtypeInstantSet
	SubtypeSequence
	SubtypeSequenceSet
)

func (s Subtype) String() string {
	switch s {
	case SubtypeInstant:
		return "Instant"
	case SubtypeInstantSet:
		return "InstantSet"
	case SubtypeSequence:
		return "Sequence"
	case SubtypeSequenceSet:
		return "SequenceSet"
	default:
		return fmt.Sprintf("subtype(%d)", uint8(s))
	}
}

// Interp is the interpolation between consecutive instants.
type Interp uint8

const (
	// Discrete values are defined only at their instants.
	Discrete Interp = iota
	// Stepwise values hold until the next instant.
	Stepwise
	// Linear values vary linearly between instants.
	Linear
)

func (i Interp) String() string {
	switch i {
	case Discrete:
		return "Discrete"
	case Stepwise:
		return "Stepwise"
	case Linear:
		return "Linear"
	default:
		return fmt.Sprintf("interp(%d)", uint8(i))
	}
}

// ParseInterp resolves an interpolation name.
func ParseInterp(s string) (Interp, bool) {
	switch s {
	case "Discrete", "discrete":
		return Discrete, true
	case "Stepwise", "stepwise", "step":
		return Stepwise, true
	case "Linear", "linear":
		return Linear, true
	}
	return 0, false
}

// Temporal is a sealed interface over the four temporal shapes.
// Only Instant, *InstantSet, *Sequence and *SequenceSet implement it.
type Temporal interface {
	// Subtype returns the shape of the value.
	Subtype() Subtype

	// BaseType returns the type of the values.
	BaseType() base.Type

	// Interp returns the interpolation. Instants and instant sets are Discrete.
	Interp() Interp

	// BBox returns the bounding box computed at construction.
	BBox() box.Box

	// Period returns the bounding period.
	Period() period.Period

	// Time returns the exact time support.
	Time() period.Set

	// Instants returns the distinct instants in time order.
	Instants() []Instant

	// NumInstants returns the number of distinct instants.
	NumInstants() int

	// InstantN returns the i-th distinct instant.
	InstantN(i int) Instant

	// ValueAt returns the value at t, or false if t is outside the support.
	ValueAt(t period.Timestamp) (base.Value, bool)

	// StartInstant returns the first instant.
	StartInstant() Instant

	// EndInstant returns the last instant.
	EndInstant() Instant

	// String returns the text literal of the value.
	String() string

	temporal() // Sealed
}

// Position classifies a timestamp relative to a value's instants or periods.
type Position uint8

const (
	// Inside means the timestamp is in the support; Index is the containing
	// instant, segment or sequence.
	Inside Position = iota
	// Before means the timestamp precedes the support; Index is 0.
	Before
	// Between means the timestamp falls in a gap; Index is the next element.
	Between
	// After means the timestamp follows the support; Index is the element count.
	After
)

func (p Position) String() string {
	switch p {
	case Inside:
		return "Inside"
	case Before:
		return "Before"
	case Between:
		return "Between"
	case After:
		return "After"
	default:
		return fmt.Sprintf("position(%d)", uint8(p))
	}
}

// Location is the result of FindTimestamp.
type Location struct {
	Pos   Position
	Index int
}

// validateInstants checks that instants is non-empty, shares one base type and
// has strictly increasing timestamps.
func validateInstants(instants []Instant) error {
	if len(instants) == 0 {
		return newError(ErrCodeEmptyInput, -1, "at least one instant is required")
	}
	var typ base.Type
	for i, inst := range instants {
		if inst.Value == nil {
			return newError(ErrCodeMixedBaseType, i, "instant has no value")
		}
		if i == 0 {
			typ = inst.Value.Type()
		} else if inst.Value.Type() != typ {
			return newError(ErrCodeMixedBaseType, i, "expected %s value, got %s", typ, inst.Value.Type())
		}
		if i > 0 && inst.T <= instants[i-1].T {
			return newError(ErrCodeUnsortedInput, i, "timestamp %s does not follow %s", inst.T, instants[i-1].T)
		}
	}
	return nil
}

func instantValues(instants []Instant) []base.Value {
	values := make([]base.Value, len(instants))
	for i, inst := range instants {
		values[i] = inst.Value
	}
	return values
}

func unknownSubtype(temp Temporal) string {
	return fmt.Sprintf("temporal: unknown subtype %T", temp)
}
