package temporal

import (
	"errors"
	"fmt"
)

// Error reports invalid input to a constructor or operator.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Index is the position of the offending element, or -1.
	Index int
}

// ErrorCode categorizes temporal errors.
type ErrorCode string

// Validation errors.
const (
	ErrCodeEmptyInput                ErrorCode = "EMPTY_INPUT"
	ErrCodeUnsortedInput             ErrorCode = "UNSORTED_INPUT"
	ErrCodeMixedBaseType             ErrorCode = "MIXED_BASE_TYPE"
	ErrCodeIncompatibleInterpolation ErrorCode = "INCOMPATIBLE_INTERPOLATION"
	ErrCodeOverlappingInput          ErrorCode = "OVERLAPPING_INPUT"
	ErrCodeInvalidEndValue           ErrorCode = "INVALID_END_VALUE"
)

// ErrCodeIncompatibleOperands indicates two operands whose base types cannot
// be combined by a binary operator.
const ErrCodeIncompatibleOperands ErrorCode = "INCOMPATIBLE_OPERANDS"

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s at index %d: %s", e.Code, e.Index, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsValidationError returns true if err is, or wraps, a constructor
// validation error.
func IsValidationError(err error) bool {
	var te *Error
	if errors.As(err, &te) {
		return te.Code != ErrCodeIncompatibleOperands
	}
	return false
}

// IsIncompatibleOperands returns true if err is, or wraps, an
// incompatible operands error.
func IsIncompatibleOperands(err error) bool {
	var te *Error
	if errors.As(err, &te) {
		return te.Code == ErrCodeIncompatibleOperands
	}
	return false
}

// HasCode returns true if err is, or wraps, a temporal error with code.
func HasCode(err error, code ErrorCode) bool {
	var te *Error
	if errors.As(err, &te) {
		return te.Code == code
	}
	return false
}

func newError(code ErrorCode, index int, format string, args ...any) *Error {
	return &Error{Code: code, Index: index, Message: fmt.Sprintf(format, args...)}
}
