// Package binder turns controllers into dispatchable router actions. Each
// routed method is bound once: its route is derived from the path template,
// one extractor is chosen per parameter and the result normalization rule is
// fixed from the declared return shape.
package binder

import (
	"fmt"
	log "log/slog"
	"strings"

	"github.com/iaconlabs/warpcore/action"
	"github.com/iaconlabs/warpcore/router"
	"github.com/iaconlabs/warpcore/serdes"
)

// Binder binds controllers to router actions.
type Binder struct {
	converter serdes.ParameterConverter
	logger    *log.Logger
}

// Option configures a Binder.
type Option func(*Binder)

// WithLogger sets the logger used to report skipped methods.
func WithLogger(l *log.Logger) Option {
	return func(b *Binder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithConverter sets the converter used for typed path parameters.
func WithConverter(c serdes.ParameterConverter) Option {
	return func(b *Binder) {
		if c != nil {
			b.converter = c
		}
	}
}

// New creates a Binder.
func New(opts ...Option) *Binder {
	b := &Binder{
		converter: serdes.Converter{},
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Bind returns a router action for every method of controller that binds.
// Methods failing to bind are logged and skipped; the rest are still bound.
func (b *Binder) Bind(controller Controller) []router.RouterAction {
	if controller == nil {
		return nil
	}
	methods := controller.Methods()
	bound := make([]router.RouterAction, 0, len(methods))
	for _, m := range methods {
		ra, err := b.BindMethod(controller, m)
		if err != nil {
			b.logger.Warn("could not create action",
				"route", m.Verb+" "+basePath(controller)+m.URI,
				"method", controllerName(controller)+"#"+m.Name,
				"error", err)
			continue
		}
		bound = append(bound, ra)
	}
	return bound
}

// BindMethod binds a single method of controller.
func (b *Binder) BindMethod(controller Controller, m Method) (router.RouterAction, error) {
	typeName := controllerName(controller)
	fail := func(err error) (router.RouterAction, error) {
		return router.RouterAction{}, &BindingError{Controller: typeName, Method: m.Name, Err: err}
	}

	if m.Call == nil {
		return fail(ErrNoCall)
	}
	if m.Verb == "" {
		return fail(ErrNoVerb)
	}

	pattern := router.SplitPath(basePath(controller) + m.URI)
	route := router.Route{
		Method:  strings.ToUpper(m.Verb),
		Pattern: router.MatcherPattern(pattern),
	}

	extractors := make([]Extractor, len(m.Params))
	for i, p := range m.Params {
		ex, err := b.extractorFor(p, pattern)
		if err != nil {
			return fail(err)
		}
		extractors[i] = ex
	}

	resultType := m.Returns.Type
	if resultType.IsZero() {
		resultType = action.Top
	}
	inv := &Invoker{
		extractors: extractors,
		call:       m.Call,
		normalize:  normalizerFor(m.Returns.Shape),
		resultType: resultType,
	}

	key := newMethodKey(typeName, m)
	b.logger.Debug("bound action", "route", route.String(), "action", key.String())

	return router.RouterAction{
		Route:  route,
		Action: action.New(key, inv.Invoke, resultType),
	}, nil
}

func basePath(controller Controller) string {
	if bp, ok := controller.(BasePather); ok {
		return bp.BasePath()
	}
	return ""
}

// normalizer turns a handler's raw return value into a Result.
type normalizer func(out any) (action.Result, error)

func normalizerFor(shape Shape) normalizer {
	switch shape {
	case ShapeFutureResult:
		return func(out any) (action.Result, error) {
			v, err := await(out)
			if err != nil {
				return action.Result{}, err
			}
			return asResult(v)
		}
	case ShapeFuture:
		return func(out any) (action.Result, error) {
			v, err := await(out)
			if err != nil {
				return action.Result{}, err
			}
			return action.OK(v), nil
		}
	case ShapeResult:
		return asResult
	default:
		return func(out any) (action.Result, error) {
			return action.OK(out), nil
		}
	}
}

func await(out any) (any, error) {
	f, ok := out.(*action.Future)
	if !ok || f == nil {
		return nil, fmt.Errorf("handler returned %T, want *action.Future", out)
	}
	return f.Await()
}

func asResult(v any) (action.Result, error) {
	r, ok := v.(action.Result)
	if !ok {
		return action.Result{}, fmt.Errorf("handler returned %T, want action.Result", v)
	}
	return r, nil
}

// stamp tags the content of res with the inferred type unless the content
// already carries an explicit tag or the inferred type is the top type.
func stamp(res action.Result, inferred action.TypeTag) action.Result {
	content, ok := res.Content()
	if !ok || inferred.IsTop() || inferred.IsZero() {
		return res
	}
	if _, explicit := content.ExplicitType(); explicit {
		return res
	}
	return res.WithContent(content.WithTypeTag(inferred))
}
