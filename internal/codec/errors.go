package codec

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes decoding errors.
type ErrorCode string

const (
	// ErrCodeSyntax indicates a malformed text literal.
	ErrCodeSyntax ErrorCode = "SYNTAX"

	// ErrCodeUnknownType indicates an unknown base type name or tag.
	ErrCodeUnknownType ErrorCode = "UNKNOWN_TYPE"

	// ErrCodeCorrupt indicates binary data that does not follow the layout.
	ErrCodeCorrupt ErrorCode = "CORRUPT"
)

// ParseError reports a failure to decode a text literal or binary buffer.
type ParseError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Offset is the byte position in the input where decoding failed.
	Offset int

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s at offset %d: %s", e.Code, e.Offset, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError returns true if err is, or wraps, a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// HasCode returns true if err is, or wraps, a ParseError with code.
func HasCode(err error, code ErrorCode) bool {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

func syntaxError(offset int, format string, args ...any) *ParseError {
	return &ParseError{Code: ErrCodeSyntax, Offset: offset, Message: fmt.Sprintf(format, args...)}
}

func corrupt(offset int, format string, args ...any) *ParseError {
	return &ParseError{Code: ErrCodeCorrupt, Offset: offset, Message: fmt.Sprintf(format, args...)}
}
