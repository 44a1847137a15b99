package codec

import (
	"fmt"
	"strings"

	"github.com/roach88/tempus/internal/base"
	"github.com/roach88/tempus/internal/period"
	"github.com/roach88/tempus/internal/temporal"
)

// Parse parses a temporal literal whose base type is named by typeName, for
// example "tfloat" or "float".
func Parse(reg *base.Registry, typeName, literal string) (temporal.Temporal, error) {
	typ, ok := reg.Lookup(typeName)
	if !ok {
		return nil, &ParseError{Code: ErrCodeUnknownType, Message: fmt.Sprintf("unknown type %q", typeName)}
	}
	return ParseAs(typ, literal)
}

// ParseAs parses a temporal literal of base type typ.
//
//	instant       value@timestamp
//	instant set   {instant, ...}
//	sequence      [instant, ...]   with ( or ) for exclusive bounds
//	sequence set  {sequence, ...}
//
// Continuous types default to linear interpolation; the Interp=Stepwise;
// prefix selects stepwise. Timestamps are RFC 3339 or integer microseconds.
// Literals are not normalized, so ParseAs(t, Format(v)) equals v.
func ParseAs(typ base.Type, literal string) (temporal.Temporal, error) {
	if !typ.Valid() {
		return nil, &ParseError{Code: ErrCodeUnknownType, Message: fmt.Sprintf("invalid base type %s", typ)}
	}
	p := &parser{typ: typ, src: literal}
	temp, err := p.temporal()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, syntaxError(p.pos, "unexpected %q after value", p.src[p.pos:])
	}
	return temp, nil
}

// Format returns the literal form of temp.
func Format(temp temporal.Temporal) string {
	return temp.String()
}

type parser struct {
	typ base.Type
	src string
	pos int
}

func (p *parser) temporal() (temporal.Temporal, error) {
	interp := temporal.Stepwise
	if p.typ.Continuous() {
		interp = temporal.Linear
	}
	p.skipSpace()
	prefixed := hasPrefixFold(p.src[p.pos:], temporal.InterpPrefix)
	if prefixed {
		p.pos += len(temporal.InterpPrefix)
		interp = temporal.Stepwise
	}

	switch p.peek() {
	case '{':
		start := p.pos
		p.pos++
		next := p.peek()
		p.pos = start
		if next == '[' || next == '(' {
			set, err := p.sequenceSet(interp)
			if err != nil {
				return nil, err
			}
			return set, nil
		}
		if prefixed {
			return nil, syntaxError(start, "interpolation prefix on an instant set")
		}
		set, err := p.instantSet()
		if err != nil {
			return nil, err
		}
		return set, nil
	case '[', '(':
		seq, err := p.sequence(interp)
		if err != nil {
			return nil, err
		}
		return seq, nil
	default:
		if prefixed {
			return nil, syntaxError(p.pos, "interpolation prefix on an instant")
		}
		inst, err := p.instant()
		if err != nil {
			return nil, err
		}
		return inst, nil
	}
}

func (p *parser) instantSet() (*temporal.InstantSet, error) {
	start := p.pos
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	instants, err := p.instants()
	if err != nil {
		return nil, err
	}
	if err := p.expect('}'); err != nil {
		return nil, err
	}
	set, err := temporal.NewInstantSet(instants...)
	if err != nil {
		return nil, invalidLiteral(start, "instant set", err)
	}
	return set, nil
}

func (p *parser) sequence(interp temporal.Interp) (*temporal.Sequence, error) {
	start := p.pos
	lowerInc, err := p.bound('[', '(')
	if err != nil {
		return nil, err
	}
	instants, err := p.instants()
	if err != nil {
		return nil, err
	}
	upperInc, err := p.bound(']', ')')
	if err != nil {
		return nil, err
	}
	seq, err := temporal.NewSequence(instants, lowerInc, upperInc, interp, false)
	if err != nil {
		return nil, invalidLiteral(start, "sequence", err)
	}
	return seq, nil
}

func (p *parser) sequenceSet(interp temporal.Interp) (*temporal.SequenceSet, error) {
	start := p.pos
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	var sequences []*temporal.Sequence
	for {
		seq, err := p.sequence(interp)
		if err != nil {
			return nil, err
		}
		sequences = append(sequences, seq)
		if p.peek() != ',' {
			break
		}
		p.pos++
	}
	if err := p.expect('}'); err != nil {
		return nil, err
	}
	set, err := temporal.NewSequenceSet(sequences, false)
	if err != nil {
		return nil, invalidLiteral(start, "sequence set", err)
	}
	return set, nil
}

func (p *parser) instants() ([]temporal.Instant, error) {
	var instants []temporal.Instant
	for {
		inst, err := p.instant()
		if err != nil {
			return nil, err
		}
		instants = append(instants, inst)
		if p.peek() != ',' {
			return instants, nil
		}
		p.pos++
	}
}

func (p *parser) instant() (temporal.Instant, error) {
	p.skipSpace()
	start := p.pos
	lit, err := p.valueToken()
	if err != nil {
		return temporal.Instant{}, err
	}
	v, err := base.ParseValue(p.typ, lit)
	if err != nil {
		return temporal.Instant{}, &ParseError{Code: ErrCodeSyntax, Offset: start, Message: "invalid value", Err: err}
	}
	if err := p.expect('@'); err != nil {
		return temporal.Instant{}, err
	}
	p.skipSpace()
	tstart := p.pos
	for p.pos < len(p.src) && !strings.ContainsRune(",)]}", rune(p.src[p.pos])) {
		p.pos++
	}
	t, err := period.ParseTimestamp(p.src[tstart:p.pos])
	if err != nil {
		return temporal.Instant{}, &ParseError{Code: ErrCodeSyntax, Offset: tstart, Message: "invalid timestamp", Err: err}
	}
	return temporal.NewInstant(v, t), nil
}

// valueToken returns the literal of one base value: a quoted string, a
// POINT(...) literal or anything up to the next '@'.
func (p *parser) valueToken() (string, error) {
	start := p.pos
	rest := p.src[p.pos:]
	switch {
	case strings.HasPrefix(rest, `"`):
		for i := 1; i < len(rest); i++ {
			switch rest[i] {
			case '\\':
				i++
			case '"':
				p.pos += i + 1
				return rest[:i+1], nil
			}
		}
		return "", syntaxError(start, "unterminated string")
	case hasPrefixFold(rest, "POINT"):
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			return "", syntaxError(start, "unterminated point")
		}
		p.pos += end + 1
		return rest[:end+1], nil
	default:
		end := strings.IndexByte(rest, '@')
		if end < 0 {
			return "", syntaxError(start, "expected value@timestamp")
		}
		p.pos += end
		return strings.TrimSpace(rest[:end]), nil
	}
}

func (p *parser) bound(inclusive, exclusive byte) (bool, error) {
	switch p.peek() {
	case inclusive:
		p.pos++
		return true, nil
	case exclusive:
		p.pos++
		return false, nil
	default:
		return false, syntaxError(p.pos, "expected %q or %q", inclusive, exclusive)
	}
}

func (p *parser) expect(c byte) error {
	if p.peek() != c {
		return syntaxError(p.pos, "expected %q", c)
	}
	p.pos++
	return nil
}

// peek skips white space and returns the next byte, or 0 at the end.
func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && strings.IndexByte(" \t\r\n", p.src[p.pos]) >= 0 {
		p.pos++
	}
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func invalidLiteral(offset int, what string, err error) *ParseError {
	return &ParseError{Code: ErrCodeSyntax, Offset: offset, Message: "invalid " + what, Err: err}
}
