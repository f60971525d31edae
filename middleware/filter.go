// Package middleware provides route filters for the dispatch pipeline:
// metrics, tracing and rate limiting, plus helpers scoping a filter to a set
// of request URIs.
package middleware

import (
	"fmt"
	"path"
	"strings"

	"github.com/iaconlabs/warpcore/action"
	"github.com/iaconlabs/warpcore/router"
)

// Func is a filter body. It runs around next; route is nil when the request
// matched no route.
type Func func(c action.Context, next action.Function, route *router.Route) (action.Result, error)

var _ router.FilterProvider = Filter{}

// Filter is a router.FilterProvider made of a URI matcher and a Func.
type Filter struct {
	match func(uri string) bool
	fn    Func
}

// Matches implements router.FilterProvider.
func (f Filter) Matches(uri string) bool { return f.match(uri) }

// Call implements router.FilterProvider.
func (f Filter) Call(c action.Context, next action.Function, route *router.Route) (action.Result, error) {
	return f.fn(c, next, route)
}

// All applies fn to every request.
func All(fn Func) Filter {
	return Filter{match: func(string) bool { return true }, fn: fn}
}

// Prefix applies fn to requests whose path starts with prefix.
func Prefix(prefix string, fn Func) Filter {
	return Filter{
		match: func(uri string) bool { return strings.HasPrefix(pathOf(uri), prefix) },
		fn:    fn,
	}
}

// Glob applies fn to requests whose path matches pattern, in path.Match
// syntax.
func Glob(pattern string, fn Func) (Filter, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return Filter{}, fmt.Errorf("glob %q: %w", pattern, err)
	}
	return Filter{
		match: func(uri string) bool {
			ok, _ := path.Match(pattern, pathOf(uri))
			return ok
		},
		fn: fn,
	}, nil
}

// Chain composes fns into one Func; the first runs outermost.
func Chain(fns ...Func) Func {
	return func(c action.Context, next action.Function, route *router.Route) (action.Result, error) {
		fn := next
		for i := len(fns) - 1; i >= 0; i-- {
			inner, f := fn, fns[i]
			fn = func(c action.Context) (action.Result, error) {
				return f(c, inner, route)
			}
		}
		return fn(c)
	}
}

func pathOf(uri string) string {
	p, _, _ := strings.Cut(uri, "?")
	return p
}

func routeLabel(route *router.Route) string {
	if route == nil {
		return "unmatched"
	}
	return "/" + strings.Join(route.Pattern, "/")
}
