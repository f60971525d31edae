package serdes

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedMediaType is returned when no codec handles a media type.
var ErrUnsupportedMediaType = errors.New("unsupported media type")

// ErrUnsupportedType is returned when a value cannot be converted to or from
// the requested type.
var ErrUnsupportedType = errors.New("unsupported type")

// ConversionError reports a raw value that could not be converted.
type ConversionError struct {
	Value string
	Type  string
	Err   error
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %q to %s: %v", e.Value, e.Type, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ConversionError) Unwrap() error { return e.Err }

// FieldError describes one field that failed validation.
type FieldError struct {
	// Field is the name of the struct field that failed validation.
	Field string `json:"field" yaml:"field"`
	// Rule is the name of the validator tag that was violated (e.g., "required", "email").
	Rule string `json:"rule" yaml:"rule"`
	// Message is a human-readable description of the error.
	Message string `json:"message" yaml:"message"`
}

// ValidationError is returned when a decoded body violates its validation tags.
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
