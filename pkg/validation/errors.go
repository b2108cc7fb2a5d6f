// Package validation provides the input validation shared by the calculators.
// Every calculator rejects invalid domain input with an *Error before any
// computation begins, so callers can tell "the inputs are wrong" apart from
// "the answer is zero".
package validation

import (
	"errors"
	"fmt"
	"math"
)

// Error describes one invalid input field.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Errorf builds an *Error for field with a formatted reason.
func Errorf(field, format string, args ...interface{}) *Error {
	return &Error{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err (or anything it wraps) is an *Error.
func IsValidationError(err error) bool {
	var vErr *Error
	return errors.As(err, &vErr)
}

// AsError extracts the *Error wrapped by err, if any.
func AsError(err error) (*Error, bool) {
	var vErr *Error
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}

// Finite rejects NaN and infinities.
func Finite(field string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return Errorf(field, "must be a finite number, got %v", val)
	}
	return nil
}

// Positive requires a finite value strictly greater than zero.
func Positive(field string, val float64) error {
	if err := Finite(field, val); err != nil {
		return err
	}
	if val <= 0 {
		return Errorf(field, "must be greater than 0, got %v", val)
	}
	return nil
}

// NonNegative requires a finite value greater than or equal to zero.
func NonNegative(field string, val float64) error {
	if err := Finite(field, val); err != nil {
		return err
	}
	if val < 0 {
		return Errorf(field, "must not be negative, got %v", val)
	}
	return nil
}

// PositiveInt requires an integer strictly greater than zero.
func PositiveInt(field string, val int) error {
	if val <= 0 {
		return Errorf(field, "must be greater than 0, got %d", val)
	}
	return nil
}

// First returns the first non-nil error, which lets calculators list their
// checks in field order.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
