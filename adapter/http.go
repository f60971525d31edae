package adapter

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/iaconlabs/warpcore/action"
	"github.com/iaconlabs/warpcore/pipeline"
	"github.com/iaconlabs/warpcore/router"
)

// ErrResponded is returned when a response is emitted twice for one request.
var ErrResponded = errors.New("response already sent")

// EventHandler consumes transport events. *pipeline.Pipeline implements it.
type EventHandler interface {
	OnEvent(ev pipeline.Event)
}

var _ pipeline.Event = (*HTTPEvent)(nil)

// HTTPEvent is a pipeline.Event over a net/http request and response writer.
type HTTPEvent struct {
	w    http.ResponseWriter
	req  *action.Request
	sent bool
}

// NewEvent wraps w and r into an event.
func NewEvent(w http.ResponseWriter, r *http.Request) *HTTPEvent {
	return &HTTPEvent{w: w, req: NewRequest(r)}
}

// Request implements pipeline.Event.
func (e *HTTPEvent) Request() *action.Request { return e.req }

// Respond writes status, headers and payload. A status below 100 is sent as
// 200 OK.
func (e *HTTPEvent) Respond(status int, headers http.Header, payload action.Payload) error {
	if e.sent {
		return ErrResponded
	}
	e.sent = true

	h := e.w.Header()
	for k, v := range headers {
		h[k] = append([]string(nil), v...)
	}
	if status < 100 {
		status = http.StatusOK
	}
	if len(payload) > 0 {
		h.Set("Content-Length", strconv.Itoa(len(payload)))
	}
	e.w.WriteHeader(status)
	if len(payload) == 0 {
		return nil
	}
	_, err := e.w.Write(payload)
	return err
}

// NewRequest converts r into the request model seen by actions.
func NewRequest(r *http.Request) *action.Request {
	var body io.Reader
	if r.Body != nil && r.Body != http.NoBody {
		body = r.Body
	}
	req := &action.Request{
		Method:     r.Method,
		URI:        r.URL.RequestURI(),
		Path:       router.SplitPath(r.URL.Path),
		Query:      r.URL.Query(),
		Headers:    r.Header,
		RemoteAddr: r.RemoteAddr,
		Body:       body,
	}
	return req.WithContext(r.Context())
}

// Handler is an http.Handler feeding every request to an EventHandler.
type Handler struct {
	events       EventHandler
	maxBodyBytes int64
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithMaxBodyBytes limits request bodies to n bytes. Zero means no limit.
func WithMaxBodyBytes(n int64) HandlerOption {
	return func(h *Handler) {
		h.maxBodyBytes = n
	}
}

// NewHandler creates a Handler dispatching to events.
func NewHandler(events EventHandler, opts ...HandlerOption) *Handler {
	h := &Handler{events: events}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.maxBodyBytes > 0 && r.Body != nil {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}
	h.events.OnEvent(NewEvent(w, r))
}
