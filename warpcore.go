// Package warpcore wires the dispatch core into a single http.Handler:
// controllers are bound into router actions, registered into a router
// registry and served through the dispatch pipeline.
package warpcore

import (
	log "log/slog"
	"net/http"

	"github.com/iaconlabs/warpcore/action"
	"github.com/iaconlabs/warpcore/adapter"
	"github.com/iaconlabs/warpcore/binder"
	"github.com/iaconlabs/warpcore/pipeline"
	"github.com/iaconlabs/warpcore/router"
)

// Ensure Warpcore can be mounted anywhere an http.Handler is accepted.
var _ http.Handler = &Warpcore{}

// Warpcore is the primary entry point for the library. It owns the binder,
// the filter set and the pipeline, while route matching stays with the
// registry it was created with.
type Warpcore struct {
	registry router.Registry
	binder   *binder.Binder
	filters  *router.Filters
	pipeline *pipeline.Pipeline
	handler  http.Handler
	logger   *log.Logger
}

type config struct {
	logger          *log.Logger
	binderOptions   []binder.Option
	pipelineOptions []pipeline.Option
	handlerOptions  []adapter.HandlerOption
	stack           bool
}

// Option configures a Warpcore instance.
type Option func(*config)

// WithLogger sets the logger shared by the binder, the pipeline and the
// panic recovery.
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithBinderOptions passes extra options to the binder.
func WithBinderOptions(opts ...binder.Option) Option {
	return func(c *config) {
		c.binderOptions = append(c.binderOptions, opts...)
	}
}

// WithPipelineOptions passes extra options to the pipeline.
func WithPipelineOptions(opts ...pipeline.Option) Option {
	return func(c *config) {
		c.pipelineOptions = append(c.pipelineOptions, opts...)
	}
}

// WithMaxBodyBytes limits request bodies to n bytes.
func WithMaxBodyBytes(n int64) Option {
	return func(c *config) {
		c.handlerOptions = append(c.handlerOptions, adapter.WithMaxBodyBytes(n))
	}
}

// WithStackTraces logs the goroutine stack of recovered transport panics.
func WithStackTraces(enabled bool) Option {
	return func(c *config) {
		c.stack = enabled
	}
}

// New creates a Warpcore resolving routes through registry.
func New(registry router.Registry, opts ...Option) *Warpcore {
	cfg := &config{logger: log.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	filters := router.NewFilters()
	pipe := pipeline.New(registry, append([]pipeline.Option{
		pipeline.WithFilters(filters),
		pipeline.WithLogger(cfg.logger),
	}, cfg.pipelineOptions...)...)

	return &Warpcore{
		registry: registry,
		binder:   binder.New(append([]binder.Option{binder.WithLogger(cfg.logger)}, cfg.binderOptions...)...),
		filters:  filters,
		pipeline: pipe,
		handler:  Recovery(cfg.logger, cfg.stack)(adapter.NewHandler(pipe, cfg.handlerOptions...)),
		logger:   cfg.logger,
	}
}

// Register binds every controller and adds the resulting actions to the
// registry. Methods that fail to bind are logged and skipped; an error is
// only returned when the registry rejects the routes.
func (w *Warpcore) Register(controllers ...binder.Controller) error {
	var actions []router.RouterAction
	for _, c := range controllers {
		actions = append(actions, w.binder.Bind(c)...)
	}
	if len(actions) == 0 {
		return nil
	}
	if err := w.registry.Add(actions...); err != nil {
		return err
	}
	for _, ra := range actions {
		w.logger.Info("route registered", "route", ra.Route.String(), "action", ra.Action.Key.String())
	}
	return nil
}

// Deregister removes every route bound to one of the controllers' methods.
func (w *Warpcore) Deregister(controllers ...binder.Controller) {
	var keys []action.ActionKey
	for _, c := range controllers {
		if c == nil {
			continue
		}
		for _, m := range c.Methods() {
			ra, err := w.binder.BindMethod(c, m)
			if err != nil {
				continue
			}
			keys = append(keys, ra.Action.Key)
		}
	}
	if len(keys) > 0 {
		w.registry.Remove(keys...)
	}
}

// Use adds filter providers to the active set. Filters added later run
// further out. The returned function removes all of them again.
func (w *Warpcore) Use(providers ...router.FilterProvider) (remove func()) {
	removers := make([]func(), 0, len(providers))
	for _, p := range providers {
		removers = append(removers, w.filters.Add(p))
	}
	return func() {
		for _, r := range removers {
			r()
		}
	}
}

// Routes lists the registered router actions.
func (w *Warpcore) Routes() []router.RouterAction {
	return w.registry.Routes()
}

// Pipeline returns the underlying dispatch pipeline.
func (w *Warpcore) Pipeline() *pipeline.Pipeline {
	return w.pipeline
}

// ServeHTTP dispatches the request through the pipeline.
func (w *Warpcore) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	w.handler.ServeHTTP(rw, r)
}
