package base

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseValue parses the literal form of a value of type t, as produced by
// Value.String. Booleans also accept true/false.
func ParseValue(t Type, s string) (Value, error) {
	s = strings.TrimSpace(s)
	switch t {
	case TypeBool:
		switch strings.ToLower(s) {
		case "t", "true":
			return Bool(true), nil
		case "f", "false":
			return Bool(false), nil
		}
		return nil, fmt.Errorf("invalid bool literal %q", s)
	case TypeInt:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid int literal %q: %w", s, err)
		}
		return Int(i), nil
	case TypeFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float literal %q: %w", s, err)
		}
		return Float(f), nil
	case TypeText:
		if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
			return nil, fmt.Errorf("text literal %s must be double-quoted", s)
		}
		u, err := strconv.Unquote(s)
		if err != nil {
			return nil, fmt.Errorf("invalid text literal %s: %w", s, err)
		}
		return NewText(u), nil
	case TypePoint:
		return parsePoint(s)
	default:
		return nil, fmt.Errorf("cannot parse values of %s", t)
	}
}

func parsePoint(s string) (Value, error) {
	upper := strings.ToUpper(s)
	if !strings.HasPrefix(upper, "POINT") {
		return nil, fmt.Errorf("point literal %q must start with POINT", s)
	}
	body := strings.TrimSpace(s[len("POINT"):])
	if len(body) < 2 || body[0] != '(' || body[len(body)-1] != ')' {
		return nil, fmt.Errorf("point literal %q must be POINT(x y)", s)
	}
	coords := strings.Fields(body[1 : len(body)-1])
	if len(coords) != 2 {
		return nil, fmt.Errorf("point literal %q must have two coordinates", s)
	}
	x, err := strconv.ParseFloat(coords[0], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid point x %q: %w", coords[0], err)
	}
	y, err := strconv.ParseFloat(coords[1], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid point y %q: %w", coords[1], err)
	}
	return Point{X: x, Y: y}, nil
}
