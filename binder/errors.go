package binder

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalParameter is returned for a parameter with no usable source.
	ErrIllegalParameter = errors.New("parameter cannot be injected")
	// ErrNoCall is returned for a method without a Call function.
	ErrNoCall = errors.New("method has no call target")
	// ErrNoVerb is returned for a method without an HTTP method.
	ErrNoVerb = errors.New("method has no HTTP method")
)

// BindingError reports a controller method that could not be bound.
type BindingError struct {
	Controller string
	Method     string
	Err        error
}

// Error implements the error interface.
func (e *BindingError) Error() string {
	return fmt.Sprintf("cannot bind %s#%s: %v", e.Controller, e.Method, e.Err)
}

// Unwrap returns the underlying cause.
func (e *BindingError) Unwrap() error { return e.Err }
