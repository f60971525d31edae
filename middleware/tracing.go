package middleware

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/iaconlabs/warpcore/action"
	"github.com/iaconlabs/warpcore/router"
)

const defaultTracerName = "github.com/iaconlabs/warpcore"

// OTelConfig configures the OpenTelemetry filter.
type OTelConfig struct {
	// TracerName is the instrumentation name of the tracer.
	TracerName string

	// TracerProvider supplies the tracer (default: the global provider).
	TracerProvider trace.TracerProvider

	// AttributeExtractor adds custom attributes to every span.
	AttributeExtractor func(c action.Context) []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry filter.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(c action.Context) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// OpenTelemetry returns a filter that wraps the rest of the chain in a server
// span named "METHOD /route". The span context is handed down through
// action.WithStdContext, so handlers receive it as their context.Context.
// Errors are recorded on the span; 5xx results mark it failed.
func OpenTelemetry(opts ...OTelOption) Func {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.TracerProvider == nil {
		config.TracerProvider = otel.GetTracerProvider()
	}
	tracer := config.TracerProvider.Tracer(config.TracerName)

	return func(c action.Context, next action.Function, route *router.Route) (action.Result, error) {
		req := c.Request()
		label := routeLabel(route)

		attrs := []attribute.KeyValue{
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", pathOf(req.URI)),
			attribute.String("http.route", label),
		}
		if req.RemoteAddr != "" {
			attrs = append(attrs, attribute.String("client.address", req.RemoteAddr))
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(c)...)
		}

		ctx, span := tracer.Start(c.Context(), req.Method+" "+label,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		res, err := next(action.WithStdContext(c, ctx))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return res, err
		}

		span.SetAttributes(attribute.Int("http.response.status_code", res.Status()))
		if res.Status() >= 500 {
			span.SetStatus(codes.Error, "")
		}
		return res, nil
	}
}
