package action

import "net/http"

// HeaderContentType is the canonical Content-Type header name.
const HeaderContentType = "Content-Type"

// Result is the immutable outcome of an action: a status code, a header
// multimap and optional typed content. Every With* method returns a new
// Result and leaves the receiver untouched.
type Result struct {
	status  int
	headers http.Header
	content *Serializable
}

// NewResult creates an empty Result with the given status.
func NewResult(status int) Result {
	return Result{status: status}
}

// OK creates a 200 Result carrying v. When v is already a Serializable it is
// used as is, keeping any explicit tag.
func OK(v any) Result {
	return NewResult(http.StatusOK).WithContent(contentOf(v))
}

// NotFound creates a 404 Result carrying v.
func NotFound(v any) Result {
	return NewResult(http.StatusNotFound).WithContent(contentOf(v))
}

// Empty creates a Result with the given status and no content.
func Empty(status int) Result {
	return NewResult(status)
}

func contentOf(v any) Serializable {
	if s, ok := v.(Serializable); ok {
		return s
	}
	return Of(v)
}

// Status returns the status code.
func (r Result) Status() int { return r.status }

// Headers returns a copy of the header multimap.
func (r Result) Headers() http.Header {
	if r.headers == nil {
		return http.Header{}
	}
	return r.headers.Clone()
}

// Header returns the first value stored for key.
func (r Result) Header(key string) string {
	return r.headers.Get(key)
}

// HasHeader reports whether at least one value is stored for key.
func (r Result) HasHeader(key string) bool {
	return len(r.headers.Values(key)) > 0
}

// Content returns the content, if any.
func (r Result) Content() (Serializable, bool) {
	if r.content == nil {
		return Serializable{}, false
	}
	return *r.content, true
}

// WithStatus returns a copy with a different status.
func (r Result) WithStatus(status int) Result {
	r.status = status
	return r
}

// WithHeader returns a copy with value appended to key.
func (r Result) WithHeader(key, value string) Result {
	h := r.Headers()
	h.Add(key, value)
	r.headers = h
	return r
}

// WithContentType returns a copy whose Content-Type header is mediaType.
func (r Result) WithContentType(mediaType string) Result {
	h := r.Headers()
	h.Set(HeaderContentType, mediaType)
	r.headers = h
	return r
}

// WithContent returns a copy carrying s, sharing status and headers.
func (r Result) WithContent(s Serializable) Result {
	r.content = &s
	return r
}

// WithoutContent returns a copy with the content discarded.
func (r Result) WithoutContent() Result {
	r.content = nil
	return r
}
