package temporal

import (
	"strings"
)

// InterpPrefix introduces a stepwise literal of a continuous base type.
const InterpPrefix = "Interp=Stepwise;"

func (i Instant) String() string {
	return i.Value.String() + "@" + i.T.String()
}

func (s *InstantSet) String() string {
	var b strings.Builder
	writeInstants(&b, s.instants)
	return "{" + b.String() + "}"
}

func (s *Sequence) String() string {
	var b strings.Builder
	if s.needsPrefix() {
		b.WriteString(InterpPrefix)
	}
	s.writeBody(&b)
	return b.String()
}

func (s *SequenceSet) String() string {
	var b strings.Builder
	if s.sequences[0].needsPrefix() {
		b.WriteString(InterpPrefix)
	}
	b.WriteByte('{')
	for i, seq := range s.sequences {
		if i > 0 {
			b.WriteString(", ")
		}
		seq.writeBody(&b)
	}
	b.WriteByte('}')
	return b.String()
}

func (s *Sequence) needsPrefix() bool {
	return s.interp == Stepwise && s.BaseType().Continuous()
}

func (s *Sequence) writeBody(b *strings.Builder) {
	if s.period.LowerInc {
		b.WriteByte('[')
	} else {
		b.WriteByte('(')
	}
	writeInstants(b, s.instants)
	if s.period.UpperInc {
		b.WriteByte(']')
	} else {
		b.WriteByte(')')
	}
}

func writeInstants(b *strings.Builder, instants []Instant) {
	for i, inst := range instants {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(inst.String())
	}
}
