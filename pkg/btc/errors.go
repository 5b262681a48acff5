package btc

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the typed errors below via errors.Is.
var (
	ErrInvalidFieldValue = errors.New("invalid field value")
	ErrIndexOutOfRange   = errors.New("index out of range")
)

// FieldError is returned when a value is well-formed on the wire but not
// acceptable for the field it is assigned to, e.g. a 63-byte signature or a
// block height at or above the lock time threshold.
type FieldError struct {
	Field   string // Field that was rejected
	Message string // Human-readable error message
	Cause   error  // Underlying error (if any)
}

func (e *FieldError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid field value [%s]: %s: %v", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid field value [%s]: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return e.Cause
}

func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidFieldValue
}

// NewFieldError builds a FieldError with a formatted message.
func NewFieldError(field, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IndexError is returned when an operation addresses an input that the
// transaction does not have. It signals a caller bug: sighash and
// finalization are always driven by the caller's own input list.
type IndexError struct {
	Op    string // Operation that was attempted
	Index int    // Requested input index
	Len   int    // Number of inputs in the transaction
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: input index %d out of range (have %d inputs)", e.Op, e.Index, e.Len)
}

func (e *IndexError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// CheckInputIndex returns an IndexError unless 0 <= index < n.
func CheckInputIndex(op string, index, n int) error {
	if index < 0 || index >= n {
		return &IndexError{Op: op, Index: index, Len: n}
	}
	return nil
}
