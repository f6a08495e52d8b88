package keyspace

import (
	"errors"
	"strings"
)

var (
	ErrNotFound     = errors.New("keyspace: not found")
	ErrTypeMismatch = errors.New("keyspace: type mismatch")
	ErrValidation   = errors.New("keyspace: invalid argument")
)

// ValidationError reports an argument that failed normalization. It is always
// raised before any store round-trip.
//
// It comes in two forms: free-form, carrying a literal message, and
// enumerated-choice, carrying the ordered list of allowed values from which
// the message is derived.
type ValidationError struct {
	msg     string
	choices []string
}

// NewValidationError creates a free-form ValidationError.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}

// NewChoicesError creates an enumerated-choice ValidationError listing the
// allowed values in order.
func NewChoicesError(choices ...string) *ValidationError {
	return &ValidationError{choices: choices}
}

// Message returns the human-readable text. Free-form errors return their
// message unchanged; enumerated-choice errors format the allowed values as
// "Arguments can only be: a, b, or c." with a singular "or" joiner.
func (e *ValidationError) Message() string {
	switch len(e.choices) {
	case 0:
		return e.msg
	case 1:
		return "Arguments can only be: " + e.choices[0] + "."
	case 2:
		return "Arguments can only be: " + e.choices[0] + " or " + e.choices[1] + "."
	default:
		head := strings.Join(e.choices[:len(e.choices)-1], ", ")
		return "Arguments can only be: " + head + ", or " + e.choices[len(e.choices)-1] + "."
	}
}

func (e *ValidationError) Error() string {
	return e.Message()
}

// Is reports ErrValidation so callers can match any validation failure with
// errors.Is without inspecting the concrete type.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
