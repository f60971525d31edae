// Package router defines the routing contracts used by the dispatch core: the
// Route model, the external Router that resolves requests to bound actions,
// and the route filter providers that wrap action functions.
package router

import (
	"context"
	"strings"

	"github.com/iaconlabs/warpcore/action"
)

// Wildcard is the matcher token substituted for every {name} capture segment.
const Wildcard = ".*"

// Route is an HTTP method plus an ordered list of matcher segments. A segment
// is either a literal or Wildcard.
type Route struct {
	Method  string
	Pattern []string
}

// String renders the route as "METHOD /seg/seg".
func (r Route) String() string {
	return r.Method + " /" + strings.Join(r.Pattern, "/")
}

// RouterAction is a bound (Route, Action) pair registered into a Router.
type RouterAction struct {
	Route  Route
	Action action.Action
}

// Router resolves a method and path to a registered RouterAction. The
// matching structure is owned by the implementation; the dispatch core only
// reads from it.
type Router interface {
	// ActionFor returns the action matching method and path, if any.
	ActionFor(ctx context.Context, method string, path []string) (RouterAction, bool, error)
}

// Registry is a Router that accepts registrations.
type Registry interface {
	Router
	// Add registers router actions. Registering the same key twice replaces
	// the previous entry.
	Add(actions ...RouterAction) error
	// Remove drops every route bound to one of keys.
	Remove(keys ...action.ActionKey)
	// Routes lists the registered router actions.
	Routes() []RouterAction
}

// SplitPath splits a path into its non-empty segments.
func SplitPath(path string) []string {
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// IsCapture reports whether segment is a {name} placeholder.
func IsCapture(segment string) bool {
	return len(segment) > 2 && strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}")
}

// MatcherPattern turns a declarative pattern into a matcher pattern: every
// {name} segment becomes Wildcard and literals pass through. The result has
// exactly the same length and order as pattern.
func MatcherPattern(pattern []string) []string {
	out := make([]string, len(pattern))
	for i, seg := range pattern {
		if IsCapture(seg) {
			out[i] = Wildcard
			continue
		}
		out[i] = seg
	}
	return out
}
