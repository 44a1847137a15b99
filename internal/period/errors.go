package period

import (
	"errors"
	"fmt"
)

// Error reports an invalid time value.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string
}

// ErrorCode categorizes time model errors.
type ErrorCode string

const (
	// ErrCodeInvalidPeriod indicates lower > upper, or a degenerate period with an exclusive bound.
	ErrCodeInvalidPeriod ErrorCode = "INVALID_PERIOD"

	// ErrCodeEmptyInput indicates a set was constructed from zero periods.
	ErrCodeEmptyInput ErrorCode = "EMPTY_INPUT"

	// ErrCodeInvalidTimestamp indicates a timestamp literal could not be parsed.
	ErrCodeInvalidTimestamp ErrorCode = "INVALID_TIMESTAMP"
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalidPeriod returns true if err is, or wraps, an invalid period error.
func IsInvalidPeriod(err error) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code == ErrCodeInvalidPeriod
	}
	return false
}

func newError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}
