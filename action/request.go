package action

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

// Request is the raw inbound request as seen by the dispatch core. Handlers
// declaring a *Request parameter receive it unchanged.
type Request struct {
	// Method is the HTTP method.
	Method string
	// URI is the request URI as sent by the client (path and query).
	URI string
	// Path holds the decoded path segments.
	Path []string
	// Query holds the parsed query string.
	Query url.Values
	// Headers holds the request headers.
	Headers http.Header
	// RemoteAddr is the network address of the client.
	RemoteAddr string
	// Body is the unread request body, possibly nil.
	Body io.Reader

	ctx context.Context
}

// Context returns the request's context, never nil.
func (r *Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// WithContext returns a shallow copy of r bound to ctx.
func (r *Request) WithContext(ctx context.Context) *Request {
	r2 := *r
	r2.ctx = ctx
	return &r2
}

// Header returns the first value of the named request header.
func (r *Request) Header(key string) string {
	return r.Headers.Get(key)
}
