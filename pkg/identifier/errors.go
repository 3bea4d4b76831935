package identifier

import (
	"errors"
	"fmt"
)

// ErrFormat is matched (errors.Is) by every *FormatError.
var ErrFormat = errors.New("invalid identifier format")

// ErrCapacity is matched (errors.Is) by every *CapacityError.
var ErrCapacity = errors.New("destination buffer too small")

// FormatError reports text that matches no grammar variant of its kind, or
// a format specifier the kind does not understand.
type FormatError struct {
	Kind   Kind
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Kind.Description(), e.Input, e.Reason)
}

// Is lets callers test with errors.Is(err, ErrFormat).
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// CapacityError reports a destination buffer too small for a valid value.
type CapacityError struct {
	Need int
	Have int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: need %d bytes, have %d", ErrCapacity, e.Need, e.Have)
}

// Is lets callers test with errors.Is(err, ErrCapacity).
func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacity
}

func formatErr(kind Kind, input, reason string) error {
	return &FormatError{Kind: kind, Input: input, Reason: reason}
}
