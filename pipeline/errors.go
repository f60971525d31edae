package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotAcceptable is returned when no serializable media type satisfies the
// Accept header.
var ErrNotAcceptable = errors.New("no acceptable media type")

// NegotiationError reports a failed content negotiation.
type NegotiationError struct {
	Accept    string
	Supported []string
}

// Error implements the error interface.
func (e *NegotiationError) Error() string {
	return fmt.Sprintf("%v for %q (supported: %s)", ErrNotAcceptable, e.Accept, strings.Join(e.Supported, ", "))
}

// Unwrap returns ErrNotAcceptable.
func (e *NegotiationError) Unwrap() error { return ErrNotAcceptable }
