package design

import (
	"errors"
	"fmt"
)

// Sentinel errors for field validation.
var (
	// ErrInvalidEnum is returned when a value is not a declared member of its enumeration.
	ErrInvalidEnum = errors.New("value is not a member of the enumeration")

	// ErrNull is returned when a required value is missing.
	ErrNull = errors.New("value is required")

	// ErrOutOfRange is returned when a numeric value is outside its documented range.
	ErrOutOfRange = errors.New("value is out of range")

	// ErrUnknownField is returned when decoding meets a key the schema does not declare.
	ErrUnknownField = errors.New("unknown field")

	// ErrDuplicateKey is returned when a keyed collection receives a second element with the same key.
	ErrDuplicateKey = errors.New("duplicate key")
)

// FieldError wraps a validation sentinel with the path of the field that failed.
type FieldError struct {
	Field string
	Value any
	Err   error
}

// Error returns the field path, the cause, and the offending value when known.
func (e *FieldError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v (got %v)", e.Field, e.Err, e.Value)
}

// Unwrap returns the wrapped error.
func (e *FieldError) Unwrap() error { return e.Err }

// nest prefixes the field path of err with name.
func nest(name string, err error) error {
	if err == nil {
		return nil
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return &FieldError{Field: name + "." + fe.Field, Value: fe.Value, Err: fe.Err}
	}
	return &FieldError{Field: name, Err: err}
}

// UsageError is the panic value raised for programming mistakes that cannot
// be recovered from, such as combining a style that has no name.
type UsageError struct {
	Op  string
	Msg string
}

// Error returns the operation and the reason it was rejected.
func (e *UsageError) Error() string { return e.Op + ": " + e.Msg }

// Fatal panics with a *UsageError.
func Fatal(op, msg string) {
	panic(&UsageError{Op: op, Msg: msg})
}
