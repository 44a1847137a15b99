package temporal

import (
	"github.com/roach88/tempus/internal/base"
	"github.com/roach88/tempus/internal/box"
	"github.com/roach88/tempus/internal/period"
)

// Instant is a value at a single timestamp.
type Instant struct {
	Value base.Value
	T     period.Timestamp
}

// NewInstant returns the instant v@t.
func NewInstant(v base.Value, t period.Timestamp) Instant {
	return Instant{Value: v, T: t}
}

func (Instant) temporal() {}

// Subtype implements Temporal.
func (Instant) Subtype() Subtype { return SubtypeInstant }

// BaseType implements Temporal.
func (i Instant) BaseType() base.Type { return i.Value.Type() }

// Interp implements Temporal.
func (Instant) Interp() Interp { return Discrete }

// BBox implements Temporal.
func (i Instant) BBox() box.Box { return box.FromInstant(i.Value, i.T) }

// Period implements Temporal.
func (i Instant) Period() period.Period { return period.Instant(i.T) }

// Time implements Temporal.
func (i Instant) Time() period.Set { return period.MustNewSet(period.Instant(i.T)) }

// Instants implements Temporal.
func (i Instant) Instants() []Instant { return []Instant{i} }

// NumInstants implements Temporal.
func (Instant) NumInstants() int { return 1 }

// InstantN implements Temporal.
func (i Instant) InstantN(n int) Instant {
	if n != 0 {
		panic("temporal: instant index out of range")
	}
	return i
}

// ValueAt implements Temporal.
func (i Instant) ValueAt(t period.Timestamp) (base.Value, bool) {
	if t != i.T {
		return nil, false
	}
	return i.Value, true
}

// StartInstant implements Temporal.
func (i Instant) StartInstant() Instant { return i }

// EndInstant implements Temporal.
func (i Instant) EndInstant() Instant { return i }

// Equal reports whether i and o have equal values at the same timestamp.
func (i Instant) Equal(o Instant) bool {
	return i.T == o.T && base.Equal(i.Value, o.Value)
}
