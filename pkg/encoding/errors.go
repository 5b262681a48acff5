package encoding

import (
	"errors"
	"fmt"
)

// ErrMalformedEncoding is matched (via errors.Is) by every DecodeError.
var ErrMalformedEncoding = errors.New("malformed encoding")

// Decode error codes.
const (
	ErrUnexpectedEOF = "UNEXPECTED_EOF" // source ended before the value was complete
	ErrInvalidData   = "INVALID_DATA"   // bytes present but not a valid encoding
)

// DecodeError is returned when a byte source cannot be decoded into a value.
//
// Truncated input carries ErrUnexpectedEOF. Non-canonical compact sizes,
// oversized lengths, bad segwit flags and trailing bytes carry ErrInvalidData.
type DecodeError struct {
	Code    string // ErrUnexpectedEOF or ErrInvalidData
	Field   string // Field being decoded when the error occurred
	Message string // Human-readable error message
	Cause   error  // Underlying error (if any)
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("malformed encoding [%s]", e.Code)
	if e.Field != "" {
		msg += " " + e.Field
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrMalformedEncoding.
func (e *DecodeError) Is(target error) bool {
	return target == ErrMalformedEncoding
}

// invalidData builds an ErrInvalidData error for field.
func invalidData(field, format string, args ...any) *DecodeError {
	return &DecodeError{
		Code:    ErrInvalidData,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// InvalidData returns a DecodeError with the ErrInvalidData code. Types
// outside this package use it to report semantic decode failures.
func InvalidData(field, format string, args ...any) error {
	return invalidData(field, format, args...)
}

// IsUnexpectedEOF reports whether err is a truncation error.
func IsUnexpectedEOF(err error) bool {
	var de *DecodeError
	return errors.As(err, &de) && de.Code == ErrUnexpectedEOF
}
