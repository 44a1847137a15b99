package period

import (
	"strconv"
	"strings"
	"time"
)

// Timestamp is an instant on the global time line, in microseconds since the
// Unix epoch.
type Timestamp int64

const (
	layoutSeconds = "2006-01-02T15:04:05Z07:00"
	layoutMicros  = "2006-01-02T15:04:05.000000Z07:00"
)

// parseLayouts lists the accepted textual timestamp layouts, most specific first.
var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// FromTime converts a time.Time, truncating to microsecond precision.
func FromTime(t time.Time) Timestamp {
	return Timestamp(t.UnixMicro())
}

// Time returns the timestamp as a UTC time.Time.
func (t Timestamp) Time() time.Time {
	return time.UnixMicro(int64(t)).UTC()
}

// Add returns t shifted by d, truncated to microseconds.
func (t Timestamp) Add(d time.Duration) Timestamp {
	return t + Timestamp(d/time.Microsecond)
}

// String formats t as RFC 3339 in UTC. Microseconds are printed only when non-zero.
func (t Timestamp) String() string {
	tt := t.Time()
	if tt.Nanosecond() == 0 {
		return tt.Format(layoutSeconds)
	}
	return tt.Format(layoutMicros)
}

// ParseTimestamp parses an RFC 3339 timestamp, a space-separated variant of it,
// a bare date, or a bare integer number of microseconds.
// Values without a zone are read as UTC.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, newError(ErrCodeInvalidTimestamp, "empty timestamp")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Timestamp(n), nil
	}
	for _, layout := range parseLayouts {
		if tt, err := time.Parse(layout, s); err == nil {
			return FromTime(tt), nil
		}
	}
	return 0, newError(ErrCodeInvalidTimestamp, "cannot parse timestamp %q", s)
}

// MustParseTimestamp is like ParseTimestamp but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustParseTimestamp(s string) Timestamp {
	t, err := ParseTimestamp(s)
	if err != nil {
		panic(err)
	}
	return t
}
