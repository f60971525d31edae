// Package pipeline implements the per-request dispatch pipeline: action
// resolution, filter chaining, invocation, content negotiation, serialization
// and uniform failure recovery.
package pipeline

import (
	"context"
	"fmt"
	log "log/slog"
	"net/http"
	"runtime/debug"

	"github.com/iaconlabs/warpcore/action"
	"github.com/iaconlabs/warpcore/dispatch"
	"github.com/iaconlabs/warpcore/negotiate"
	"github.com/iaconlabs/warpcore/router"
	"github.com/iaconlabs/warpcore/serdes"
)

const headerAccept = "Accept"

// Event is one inbound request as delivered by the transport.
type Event interface {
	// Request returns the inbound request.
	Request() *action.Request
	// Respond queues the response for the wire.
	Respond(status int, headers http.Header, payload action.Payload) error
}

// PayloadResult is a fully serialized response, ready for the transport.
type PayloadResult struct {
	Status  int
	Payload action.Payload
	Headers http.Header
}

// Pipeline dispatches transport events to router actions.
type Pipeline struct {
	router       router.Router
	filters      func() []router.FilterProvider
	dispatcher   dispatch.Dispatcher
	serializer   serdes.Serializer
	deserializer serdes.Deserializer
	converter    serdes.ParameterConverter
	notFound     action.Action
	logger       *log.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithFilters reads the active filter providers from f on every request.
func WithFilters(f *router.Filters) Option {
	return func(p *Pipeline) {
		p.filters = f.Snapshot
	}
}

// WithFilterSupplier sets the function returning the active filter providers.
// It is called once per request.
func WithFilterSupplier(fn func() []router.FilterProvider) Option {
	return func(p *Pipeline) {
		p.filters = fn
	}
}

// WithDispatcher sets the dispatcher matched actions are offloaded to.
func WithDispatcher(d dispatch.Dispatcher) Option {
	return func(p *Pipeline) {
		p.dispatcher = d
	}
}

// WithSerializer sets the response serializer.
func WithSerializer(s serdes.Serializer) Option {
	return func(p *Pipeline) {
		p.serializer = s
	}
}

// WithDeserializer sets the request body deserializer.
func WithDeserializer(d serdes.Deserializer) Option {
	return func(p *Pipeline) {
		p.deserializer = d
	}
}

// WithConverter sets the query parameter converter.
func WithConverter(c serdes.ParameterConverter) Option {
	return func(p *Pipeline) {
		p.converter = c
	}
}

// WithNotFound replaces the fallback action run when no route matches.
func WithNotFound(a action.Action) Option {
	return func(p *Pipeline) {
		p.notFound = a
	}
}

// WithLogger sets the pipeline logger.
func WithLogger(l *log.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a Pipeline resolving actions through r.
func New(r router.Router, opts ...Option) *Pipeline {
	codecs := serdes.NewCodecs()
	p := &Pipeline{
		router:       r,
		filters:      func() []router.FilterProvider { return nil },
		dispatcher:   dispatch.NewPool(0),
		serializer:   codecs,
		deserializer: codecs,
		converter:    serdes.Converter{},
		notFound:     NotFound,
		logger:       log.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Action resolves the action for req and wraps it in the active filters. A
// matched action is offloaded to the dispatcher; the not-found fallback runs
// inline. The returned route is nil when nothing matched.
func (p *Pipeline) Action(ctx context.Context, req *action.Request) (action.Action, *router.Route, error) {
	ra, found, err := p.router.ActionFor(ctx, req.Method, req.Path)
	if err != nil {
		return action.Action{}, nil, err
	}

	var (
		act   action.Action
		fn    action.Function
		route *router.Route
	)
	if found {
		r := ra.Route
		route = &r
		act = ra.Action
		fn = p.offload(ra.Action.Function)
	} else {
		act = p.notFound
		fn = act.Function
	}

	// Each matching provider wraps the chain built so far, so the last
	// discovered one is the outermost.
	for _, f := range p.filters() {
		if !f.Matches(req.URI) {
			continue
		}
		next := fn
		fn = func(c action.Context) (action.Result, error) {
			return f.Call(c, next, route)
		}
	}
	act.Function = fn
	return act, route, nil
}

func (p *Pipeline) offload(fn action.Function) action.Function {
	return func(c action.Context) (action.Result, error) {
		return p.dispatcher.Dispatch(c.Context(), func() (action.Result, error) {
			return fn(c)
		})
	}
}

// OnEvent handles one transport event and emits exactly one response. Any
// failure before emission becomes a plain-text 500 response; emission
// failures are only logged.
func (p *Pipeline) OnEvent(ev Event) {
	req := ev.Request()

	res, err := p.Handle(req)
	if err != nil {
		res = p.recovered(req, err)
	}

	if err := ev.Respond(res.Status, res.Headers, res.Payload); err != nil {
		p.logger.Error("could not send result", "method", req.Method, "uri", req.URI, "error", err)
	}
}

// Handle runs the pipeline for req up to, but excluding, emission.
func (p *Pipeline) Handle(req *action.Request) (pr PayloadResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &dispatch.PanicError{Value: r, Stack: debug.Stack()}
		}
	}()

	ctx := req.Context()
	accept := req.Header(headerAccept)
	if accept == "" {
		accept = negotiate.AnyMediaType
	}

	act, _, err := p.Action(ctx, req)
	if err != nil {
		return PayloadResult{}, err
	}
	p.logger.Debug("dispatching", "method", req.Method, "uri", req.URI, "action", act.Key.String())

	res, err := act.Function(NewContext(req, p.deserializer, p.converter))
	if err != nil {
		return PayloadResult{}, err
	}
	return p.render(ctx, res, accept)
}

// render negotiates and serializes the content of res.
func (p *Pipeline) render(ctx context.Context, res action.Result, accept string) (PayloadResult, error) {
	content, ok := res.Content()
	if ok && content.TypeTag().IsNoContent() {
		ok = false
	}
	if !ok {
		return PayloadResult{Status: res.Status(), Payload: action.Payload{}, Headers: res.Headers()}, nil
	}

	tag := content.TypeTag()
	if tag.IsPayload() {
		return PayloadResult{Status: res.Status(), Payload: rawPayload(content.Value()), Headers: res.Headers()}, nil
	}

	ct, err := p.contentType(ctx, res, tag, accept)
	if err != nil {
		return PayloadResult{}, err
	}

	payload, err := p.serializer.Serialize(ctx, content.Value(), tag, ct.MediaType, ct.Options)
	if err != nil {
		return PayloadResult{}, err
	}

	headers := res.Headers()
	if !res.HasHeader(action.HeaderContentType) {
		headers.Set(action.HeaderContentType, ct.String())
	}
	return PayloadResult{Status: res.Status(), Payload: payload, Headers: headers}, nil
}

// contentType uses the Content-Type already set on res, or negotiates one
// from the media types the serializer offers for tag.
func (p *Pipeline) contentType(ctx context.Context, res action.Result, tag action.TypeTag, accept string) (negotiate.ContentType, error) {
	if res.HasHeader(action.HeaderContentType) {
		ct, err := negotiate.Parse(res.Header(action.HeaderContentType))
		if err != nil {
			return negotiate.ContentType{}, fmt.Errorf("result content type: %w", err)
		}
		return negotiate.ContentType{MediaType: ct.MediaType}, nil
	}

	supported, err := p.serializer.MediaTypes(ctx, tag)
	if err != nil {
		return negotiate.ContentType{}, err
	}
	best := negotiate.BestMatch(supported, accept)
	if best == "" {
		return negotiate.ContentType{}, &NegotiationError{Accept: accept, Supported: supported}
	}
	return negotiate.ContentType{MediaType: best}, nil
}

func rawPayload(v any) action.Payload {
	switch b := v.(type) {
	case action.Payload:
		return b
	case []byte:
		return action.Payload(b)
	}
	return action.Payload{}
}

// recovered converts a pipeline failure into a plain-text 500 response.
func (p *Pipeline) recovered(req *action.Request, err error) PayloadResult {
	p.logger.Error("an error was not recovered", "method", req.Method, "uri", req.URI, "error", err)

	headers := http.Header{}
	headers.Set(action.HeaderContentType, negotiate.PlainTextUTF8.String())
	return PayloadResult{
		Status:  http.StatusInternalServerError,
		Payload: action.Payload("Something wrong happened\n" + err.Error()),
		Headers: headers,
	}
}
