package pipeline

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"sync"

	"github.com/iaconlabs/warpcore/action"
	"github.com/iaconlabs/warpcore/serdes"
)

var _ action.Context = (*requestContext)(nil)

// requestContext is the action.Context handed to actions for one request.
// The body is read at most once, on first access.
type requestContext struct {
	req          *action.Request
	deserializer serdes.Deserializer
	converter    serdes.ParameterConverter

	bodyOnce sync.Once
	body     action.Payload
	bodyErr  error
}

// NewContext creates the per-request action.Context for req.
func NewContext(req *action.Request, d serdes.Deserializer, c serdes.ParameterConverter) action.Context {
	return &requestContext{req: req, deserializer: d, converter: c}
}

func (rc *requestContext) Context() context.Context { return rc.req.Context() }

func (rc *requestContext) Request() *action.Request { return rc.req }

// QueryParameter converts the first value of name to tag. Slice types collect
// every value; a missing value yields a nil pointer for pointer types and
// action.ErrMissingParameter otherwise.
func (rc *requestContext) QueryParameter(name string, tag action.TypeTag) (any, error) {
	values := rc.req.Query[name]
	t := tag.Type()

	if t != nil && t.Kind() == reflect.Slice && t.Elem().Kind() != reflect.Uint8 {
		out := reflect.MakeSlice(t, 0, len(values))
		elem := action.TagFor(t.Elem())
		for _, v := range values {
			x, err := rc.converter.Convert(v, elem)
			if err != nil {
				return nil, err
			}
			out = reflect.Append(out, reflect.ValueOf(x))
		}
		return out.Interface(), nil
	}

	if len(values) == 0 {
		if t != nil && t.Kind() == reflect.Pointer {
			return reflect.Zero(t).Interface(), nil
		}
		return nil, action.ErrMissingParameter
	}
	if tag.IsString() {
		return values[0], nil
	}
	return rc.converter.Convert(values[0], tag)
}

func (rc *requestContext) PathSegment(index int) (string, error) {
	if index < 0 || index >= len(rc.req.Path) {
		return "", fmt.Errorf("%w: no path segment at index %d", action.ErrMissingParameter, index)
	}
	return rc.req.Path[index], nil
}

func (rc *requestContext) Body() (action.Payload, error) {
	rc.bodyOnce.Do(func() {
		if rc.req.Body == nil {
			rc.body = action.Payload{}
			return
		}
		b, err := io.ReadAll(rc.req.Body)
		rc.body, rc.bodyErr = action.Payload(b), err
	})
	return rc.body, rc.bodyErr
}

func (rc *requestContext) BodyAs(tag action.TypeTag) (any, error) {
	body, err := rc.Body()
	if err != nil {
		return nil, err
	}
	return rc.deserializer.Deserialize(rc.Context(), body, tag, rc.req.Header(action.HeaderContentType))
}
