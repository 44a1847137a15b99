package period

import (
	"slices"
	"strings"
	"time"
)

// Set is an ordered collection of pairwise disjoint, non-adjacent periods.
// Adjacent or overlapping inputs are merged at construction.
//
// The zero Set is empty and is only produced internally; exported operations
// that may yield an empty result return an ok flag instead.
type Set struct {
	periods []Period
}

// NewSet builds a normalized Set from periods in any order.
// Returns ErrCodeEmptyInput for zero periods, or the validation error of the
// first invalid period.
func NewSet(periods ...Period) (Set, error) {
	if len(periods) == 0 {
		return Set{}, newError(ErrCodeEmptyInput, "period set requires at least one period")
	}
	for _, p := range periods {
		if err := p.Validate(); err != nil {
			return Set{}, err
		}
	}
	sorted := slices.Clone(periods)
	slices.SortFunc(sorted, Period.Compare)
	return Set{periods: mergePeriods(sorted)}, nil
}

// MustNewSet is like NewSet but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustNewSet(periods ...Period) Set {
	s, err := NewSet(periods...)
	if err != nil {
		panic(err)
	}
	return s
}

// mergePeriods folds sorted periods, merging overlapping and adjacent neighbours.
func mergePeriods(sorted []Period) []Period {
	result := make([]Period, 0, len(sorted))
	current := sorted[0]
	for _, p := range sorted[1:] {
		if current.Overlaps(p) || current.Adjacent(p) {
			current = current.Span(p)
			continue
		}
		result = append(result, current)
		current = p
	}
	return append(result, current)
}

// Len returns the number of periods.
func (s Set) Len() int {
	return len(s.periods)
}

// IsEmpty reports whether s holds no periods.
func (s Set) IsEmpty() bool {
	return len(s.periods) == 0
}

// At returns the i-th period.
func (s Set) At(i int) Period {
	return s.periods[i]
}

// Periods returns a copy of the periods in order.
func (s Set) Periods() []Period {
	return slices.Clone(s.periods)
}

// Span returns the bounding period of s.
func (s Set) Span() Period {
	first, last := s.periods[0], s.periods[len(s.periods)-1]
	return Period{Lower: first.Lower, LowerInc: first.LowerInc, Upper: last.Upper, UpperInc: last.UpperInc}
}

// Duration returns the sum of the durations of the periods.
func (s Set) Duration() time.Duration {
	var d time.Duration
	for _, p := range s.periods {
		d += p.Duration()
	}
	return d
}

// Contains reports whether t lies in one of the periods. Uses binary search.
func (s Set) Contains(t Timestamp) bool {
	lo, hi := 0, len(s.periods)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		p := s.periods[mid]
		switch {
		case p.Contains(t):
			return true
		case t <= p.Lower:
			hi = mid - 1
		default:
			lo = mid + 1
		}
	}
	return false
}

// IntersectPeriod returns the parts of s inside p.
func (s Set) IntersectPeriod(p Period) (Set, bool) {
	var result []Period
	for _, q := range s.periods {
		if q.Before(p) {
			continue
		}
		if p.Before(q) {
			break
		}
		if inter, ok := q.Intersection(p); ok {
			result = append(result, inter)
		}
	}
	if len(result) == 0 {
		return Set{}, false
	}
	return Set{periods: result}, true
}

// Intersection returns the timestamps common to s and o, sweeping both sets once.
func (s Set) Intersection(o Set) (Set, bool) {
	var result []Period
	i, j := 0, 0
	for i < len(s.periods) && j < len(o.periods) {
		p, q := s.periods[i], o.periods[j]
		if inter, ok := p.Intersection(q); ok {
			result = append(result, inter)
		}
		if compareUpper(p, q) <= 0 {
			i++
		} else {
			j++
		}
	}
	if len(result) == 0 {
		return Set{}, false
	}
	return Set{periods: result}, true
}

// MinusPeriod returns the parts of s outside p.
func (s Set) MinusPeriod(p Period) (Set, bool) {
	var result []Period
	for _, q := range s.periods {
		result = append(result, q.Minus(p)...)
	}
	if len(result) == 0 {
		return Set{}, false
	}
	return Set{periods: result}, true
}

// Minus returns the parts of s outside every period of o.
func (s Set) Minus(o Set) (Set, bool) {
	var result []Period
	j := 0
	for _, p := range s.periods {
		pieces := []Period{p}
		for j < len(o.periods) && o.periods[j].Before(p) {
			j++
		}
		for k := j; k < len(o.periods) && !p.Before(o.periods[k]); k++ {
			var next []Period
			for _, piece := range pieces {
				next = append(next, piece.Minus(o.periods[k])...)
			}
			pieces = next
		}
		result = append(result, pieces...)
	}
	if len(result) == 0 {
		return Set{}, false
	}
	return Set{periods: result}, true
}

// Union returns the timestamps in s or o.
func (s Set) Union(o Set) Set {
	all := make([]Period, 0, len(s.periods)+len(o.periods))
	all = append(all, s.periods...)
	all = append(all, o.periods...)
	if len(all) == 0 {
		return Set{}
	}
	slices.SortFunc(all, Period.Compare)
	return Set{periods: mergePeriods(all)}
}

// Shift moves every period by d.
func (s Set) Shift(d time.Duration) Set {
	result := make([]Period, len(s.periods))
	for i, p := range s.periods {
		result[i] = p.Shift(d)
	}
	return Set{periods: result}
}

// Equal reports whether s and o hold the same periods.
func (s Set) Equal(o Set) bool {
	return slices.Equal(s.periods, o.periods)
}

// String formats s as {[a, b), [c, d]}.
func (s Set) String() string {
	parts := make([]string, len(s.periods))
	for i, p := range s.periods {
		parts[i] = p.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
