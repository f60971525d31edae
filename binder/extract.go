package binder

import (
	"fmt"
	"slices"

	"github.com/iaconlabs/warpcore/action"
)

// Extractor produces one handler argument from the request context.
type Extractor func(c action.Context) (any, error)

// extractorFor selects the extraction strategy for p. pattern is the
// declarative path pattern, before wildcard substitution.
func (b *Binder) extractorFor(p Param, pattern []string) (Extractor, error) {
	if p.Type.IsRequest() {
		return func(c action.Context) (any, error) {
			return c.Request(), nil
		}, nil
	}

	switch p.Marker {
	case QueryMarker:
		return queryExtractor(p), nil
	case PathMarker:
		return b.pathExtractor(p, pattern), nil
	case BodyMarker:
		return bodyExtractor(p), nil
	}
	return nil, fmt.Errorf("%w: %s %s", ErrIllegalParameter, p.Name, p.Type)
}

func queryExtractor(p Param) Extractor {
	name, tag := p.key(), p.Type
	return func(c action.Context) (any, error) {
		v, err := c.QueryParameter(name, tag)
		if err != nil {
			return nil, &action.ParameterError{Source: action.SourceQuery, Name: name, Err: err}
		}
		return v, nil
	}
}

func (b *Binder) pathExtractor(p Param, pattern []string) Extractor {
	name, tag := p.key(), p.Type
	index := slices.Index(pattern, "{"+name+"}")
	if index < 0 {
		return func(action.Context) (any, error) {
			return nil, action.NoSuchPathParameter(name)
		}
	}

	converter := b.converter
	return func(c action.Context) (any, error) {
		segment, err := c.PathSegment(index)
		if err != nil {
			return nil, &action.ParameterError{Source: action.SourcePath, Name: name, Err: err}
		}
		if tag.IsString() {
			return segment, nil
		}
		v, err := converter.Convert(segment, tag)
		if err != nil {
			return nil, &action.ParameterError{Source: action.SourcePath, Name: name, Err: err}
		}
		return v, nil
	}
}

func bodyExtractor(p Param) Extractor {
	name, tag := p.Name, p.Type
	if tag.IsPayload() {
		return func(c action.Context) (any, error) {
			body, err := c.Body()
			if err != nil {
				return nil, &action.ParameterError{Source: action.SourceBody, Name: name, Err: err}
			}
			return body, nil
		}
	}
	return func(c action.Context) (any, error) {
		v, err := c.BodyAs(tag)
		if err != nil {
			return nil, &action.ParameterError{Source: action.SourceBody, Name: name, Err: err}
		}
		return v, nil
	}
}
