package action

import "context"

// Context gives an action lazy, independently failing access to the request.
type Context interface {
	// Context returns the standard context bound to the request.
	Context() context.Context
	// Request returns the raw request.
	Request() *Request
	// QueryParameter reads the named query value converted to tag.
	QueryParameter(name string, tag TypeTag) (any, error)
	// PathSegment returns the path segment at index.
	PathSegment(index int) (string, error)
	// Body returns the raw request body, read once.
	Body() (Payload, error)
	// BodyAs deserializes the request body into tag.
	BodyAs(tag TypeTag) (any, error)
}

type boundContext struct {
	inner Context
	ctx   context.Context
}

func (b boundContext) Context() context.Context { return b.ctx }
func (b boundContext) Request() *Request        { return b.inner.Request() }
func (b boundContext) PathSegment(index int) (string, error) {
	return b.inner.PathSegment(index)
}
func (b boundContext) Body() (Payload, error)          { return b.inner.Body() }
func (b boundContext) BodyAs(tag TypeTag) (any, error) { return b.inner.BodyAs(tag) }
func (b boundContext) QueryParameter(name string, tag TypeTag) (any, error) {
	return b.inner.QueryParameter(name, tag)
}

// WithStdContext returns c with its standard context replaced by ctx. Filters
// use it to hand span or deadline-carrying contexts to the next function.
func WithStdContext(c Context, ctx context.Context) Context {
	if b, ok := c.(boundContext); ok {
		c = b.inner
	}
	return boundContext{inner: c, ctx: ctx}
}
