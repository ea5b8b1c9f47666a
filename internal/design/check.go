package design

import (
	"cmp"
	"fmt"
)

// Check validates a value before it is assigned to a field.
type Check[V any] func(V) error

// Validator is implemented by every enumeration type.
type Validator interface {
	Valid() bool
}

// ValidEnum rejects values that are not declared members of their enumeration.
func ValidEnum[V Validator](v V) error {
	if !v.Valid() {
		return ErrInvalidEnum
	}
	return nil
}

// Required rejects the empty string.
func Required(v string) error {
	if v == "" {
		return ErrNull
	}
	return nil
}

// Range accepts values in the closed interval [lo, hi].
func Range[V cmp.Ordered](lo, hi V) Check[V] {
	return func(v V) error {
		if v < lo || v > hi {
			return fmt.Errorf("%w: must be between %v and %v", ErrOutOfRange, lo, hi)
		}
		return nil
	}
}

// AtLeast accepts values greater than or equal to lo.
func AtLeast[V cmp.Ordered](lo V) Check[V] {
	return func(v V) error {
		if v < lo {
			return fmt.Errorf("%w: must be at least %v", ErrOutOfRange, lo)
		}
		return nil
	}
}
