package action

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSuchPathParameter is returned by extractors bound to a path
	// parameter name that does not appear in the route pattern.
	ErrNoSuchPathParameter = errors.New("no such path parameter")
	// ErrMissingParameter reports a required value absent from the request.
	ErrMissingParameter = errors.New("missing parameter")
)

// Source names where a parameter is read from.
type Source string

const (
	SourceQuery Source = "query"
	SourcePath  Source = "path"
	SourceBody  Source = "body"
)

// ParameterError reports a failure extracting one handler parameter.
type ParameterError struct {
	Source Source
	Name   string
	Err    error
}

// Error implements the error interface.
func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s parameter %q: %v", e.Source, e.Name, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ParameterError) Unwrap() error { return e.Err }

// NoSuchPathParameter builds the error returned for an unmapped path name.
func NoSuchPathParameter(name string) error {
	return &ParameterError{
		Source: SourcePath,
		Name:   name,
		Err:    fmt.Errorf("%w named %s", ErrNoSuchPathParameter, name),
	}
}
