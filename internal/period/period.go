package period

import (
	"fmt"
	"strings"
	"time"
)

// Period is a bounded time interval whose ends are independently inclusive or
// exclusive. Two periods are equal only if all four fields match.
//
// The zero Period is [epoch, epoch], which is valid. Use New to validate
// periods built from untrusted input.
type Period struct {
	Lower    Timestamp
	Upper    Timestamp
	LowerInc bool
	UpperInc bool
}

// New constructs a validated Period.
// Returns ErrCodeInvalidPeriod if lower > upper, or if lower == upper and
// either bound is exclusive.
func New(lower, upper Timestamp, lowerInc, upperInc bool) (Period, error) {
	p := Period{Lower: lower, Upper: upper, LowerInc: lowerInc, UpperInc: upperInc}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// MustNew is like New but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustNew(lower, upper Timestamp, lowerInc, upperInc bool) Period {
	p, err := New(lower, upper, lowerInc, upperInc)
	if err != nil {
		panic(err)
	}
	return p
}

// Instant returns the degenerate period [t, t].
func Instant(t Timestamp) Period {
	return Period{Lower: t, Upper: t, LowerInc: true, UpperInc: true}
}

// Validate checks the period invariants.
func (p Period) Validate() error {
	if p.Lower > p.Upper {
		return newError(ErrCodeInvalidPeriod, "lower bound %s is after upper bound %s", p.Lower, p.Upper)
	}
	if p.Lower == p.Upper && (!p.LowerInc || !p.UpperInc) {
		return newError(ErrCodeInvalidPeriod, "degenerate period at %s must have inclusive bounds", p.Lower)
	}
	return nil
}

// IsInstant reports whether the period covers a single timestamp.
func (p Period) IsInstant() bool {
	return p.Lower == p.Upper
}

// Contains reports whether t lies in p.
func (p Period) Contains(t Timestamp) bool {
	if t < p.Lower || (t == p.Lower && !p.LowerInc) {
		return false
	}
	if t > p.Upper || (t == p.Upper && !p.UpperInc) {
		return false
	}
	return true
}

// ContainsPeriod reports whether q lies entirely in p.
func (p Period) ContainsPeriod(q Period) bool {
	return compareLower(p, q) <= 0 && compareUpper(q, p) <= 0
}

// Overlaps reports whether p and q share at least one timestamp.
func (p Period) Overlaps(q Period) bool {
	_, ok := p.Intersection(q)
	return ok
}

// Adjacent reports whether p and q touch at one timestamp that exactly one of
// them includes, so their union is contiguous with no gap and no double coverage.
func (p Period) Adjacent(q Period) bool {
	return (p.Upper == q.Lower && p.UpperInc != q.LowerInc) ||
		(q.Upper == p.Lower && q.UpperInc != p.LowerInc)
}

// Before reports whether every timestamp of p precedes every timestamp of q.
func (p Period) Before(q Period) bool {
	return p.Upper < q.Lower || (p.Upper == q.Lower && !(p.UpperInc && q.LowerInc))
}

// Intersection returns the common part of p and q.
// Returns false if they do not overlap.
func (p Period) Intersection(q Period) (Period, bool) {
	var r Period
	if c := compareLower(p, q); c >= 0 {
		r.Lower, r.LowerInc = p.Lower, p.LowerInc
	} else {
		r.Lower, r.LowerInc = q.Lower, q.LowerInc
	}
	if c := compareUpper(p, q); c <= 0 {
		r.Upper, r.UpperInc = p.Upper, p.UpperInc
	} else {
		r.Upper, r.UpperInc = q.Upper, q.UpperInc
	}
	if r.Lower > r.Upper || (r.Lower == r.Upper && !(r.LowerInc && r.UpperInc)) {
		return Period{}, false
	}
	return r, true
}

// Span returns the smallest period containing both p and q.
func (p Period) Span(q Period) Period {
	r := p
	if compareLower(q, p) < 0 {
		r.Lower, r.LowerInc = q.Lower, q.LowerInc
	}
	if compareUpper(q, p) > 0 {
		r.Upper, r.UpperInc = q.Upper, q.UpperInc
	}
	return r
}

// Minus returns the parts of p not covered by q: zero, one or two periods.
func (p Period) Minus(q Period) []Period {
	inter, ok := p.Intersection(q)
	if !ok {
		return []Period{p}
	}
	var result []Period
	left := Period{Lower: p.Lower, LowerInc: p.LowerInc, Upper: inter.Lower, UpperInc: !inter.LowerInc}
	if left.Validate() == nil {
		result = append(result, left)
	}
	right := Period{Lower: inter.Upper, LowerInc: !inter.UpperInc, Upper: p.Upper, UpperInc: p.UpperInc}
	if right.Validate() == nil {
		result = append(result, right)
	}
	return result
}

// Shift moves both bounds of p by d.
func (p Period) Shift(d time.Duration) Period {
	p.Lower = p.Lower.Add(d)
	p.Upper = p.Upper.Add(d)
	return p
}

// Duration returns upper - lower.
func (p Period) Duration() time.Duration {
	return time.Duration(p.Upper-p.Lower) * time.Microsecond
}

// Equal reports whether p and q have identical bounds and inclusivity.
func (p Period) Equal(q Period) bool {
	return p == q
}

// Compare orders periods by lower bound (inclusive first on ties), then by
// upper bound (exclusive first on ties).
func (p Period) Compare(q Period) int {
	if c := compareLower(p, q); c != 0 {
		return c
	}
	return compareUpper(p, q)
}

// String formats p as [lower, upper) with brackets encoding inclusivity.
func (p Period) String() string {
	var b strings.Builder
	if p.LowerInc {
		b.WriteByte('[')
	} else {
		b.WriteByte('(')
	}
	fmt.Fprintf(&b, "%s, %s", p.Lower, p.Upper)
	if p.UpperInc {
		b.WriteByte(']')
	} else {
		b.WriteByte(')')
	}
	return b.String()
}

// ParsePeriod parses the text form produced by String.
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Period{}, newError(ErrCodeInvalidPeriod, "period literal %q too short", s)
	}
	var lowerInc, upperInc bool
	switch s[0] {
	case '[':
		lowerInc = true
	case '(':
	default:
		return Period{}, newError(ErrCodeInvalidPeriod, "period literal %q must start with '[' or '('", s)
	}
	switch s[len(s)-1] {
	case ']':
		upperInc = true
	case ')':
	default:
		return Period{}, newError(ErrCodeInvalidPeriod, "period literal %q must end with ']' or ')'", s)
	}
	parts := strings.Split(s[1:len(s)-1], ",")
	if len(parts) != 2 {
		return Period{}, newError(ErrCodeInvalidPeriod, "period literal %q must have two bounds", s)
	}
	lower, err := ParseTimestamp(parts[0])
	if err != nil {
		return Period{}, err
	}
	upper, err := ParseTimestamp(parts[1])
	if err != nil {
		return Period{}, err
	}
	return New(lower, upper, lowerInc, upperInc)
}

// compareLower compares the lower bounds of p and q. An inclusive bound sorts
// before an exclusive bound at the same timestamp.
func compareLower(p, q Period) int {
	switch {
	case p.Lower < q.Lower:
		return -1
	case p.Lower > q.Lower:
		return 1
	case p.LowerInc == q.LowerInc:
		return 0
	case p.LowerInc:
		return -1
	default:
		return 1
	}
}

// compareUpper compares the upper bounds of p and q. An exclusive bound sorts
// before an inclusive bound at the same timestamp.
func compareUpper(p, q Period) int {
	switch {
	case p.Upper < q.Upper:
		return -1
	case p.Upper > q.Upper:
		return 1
	case p.UpperInc == q.UpperInc:
		return 0
	case p.UpperInc:
		return 1
	default:
		return -1
	}
}
