// Package muxadapter provides a router.Registry backed by gorilla/mux.
package muxadapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/gorilla/mux"

	"github.com/iaconlabs/warpcore/action"
	"github.com/iaconlabs/warpcore/adapter"
	"github.com/iaconlabs/warpcore/router"
)

var _ router.Registry = (*Registry)(nil)

type snapshot struct {
	table  *adapter.Table
	router *mux.Router
}

// Registry resolves actions with gorilla/mux. gorilla matches routes in
// registration order, so the router is rebuilt with literal segments ahead
// of wildcards at every position.
type Registry struct {
	mu      sync.Mutex // serializes writers
	current atomic.Pointer[snapshot]
}

// New creates an empty Registry.
func New() *Registry {
	r := &Registry{}
	r.current.Store(&snapshot{table: adapter.NewTable(), router: mux.NewRouter()})
	return r
}

// ActionFor implements router.Router.
func (r *Registry) ActionFor(ctx context.Context, method string, path []string) (router.RouterAction, bool, error) {
	s := r.current.Load()

	req := (&http.Request{
		Method: method,
		URL:    &url.URL{Path: adapter.RequestPath(path)},
		Header: http.Header{},
	}).WithContext(ctx)

	var match mux.RouteMatch
	if !s.router.Match(req, &match) || match.MatchErr != nil || match.Route == nil {
		return router.RouterAction{}, false, nil
	}
	tpl, err := match.Route.GetPathTemplate()
	if err != nil {
		return router.RouterAction{}, false, err
	}
	ra, ok := s.table.Lookup(method, tpl)
	return ra, ok, nil
}

// Add implements router.Registry.
func (r *Registry) Add(actions ...router.RouterAction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	table := r.current.Load().table.Clone()
	if err := table.Put(actions...); err != nil {
		return err
	}
	return r.publish(table)
}

// Remove implements router.Registry.
func (r *Registry) Remove(keys ...action.ActionKey) {
	r.mu.Lock()
	defer r.mu.Unlock()

	table := r.current.Load().table.Clone()
	if !table.Delete(keys...) {
		return
	}
	_ = r.publish(table)
}

// Routes implements router.Registry.
func (r *Registry) Routes() []router.RouterAction {
	return r.current.Load().table.Actions()
}

func (r *Registry) publish(table *adapter.Table) error {
	rt, err := build(table)
	if err != nil {
		return err
	}
	r.current.Store(&snapshot{table: table, router: rt})
	return nil
}

var matchOnly = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNotImplemented)
})

func build(table *adapter.Table) (*mux.Router, error) {
	entries := table.Entries()
	slices.SortStableFunc(entries, func(a, b adapter.Entry) int {
		return compareSpecificity(a.Action.Route.Pattern, b.Action.Route.Pattern)
	})

	rt := mux.NewRouter()
	for _, e := range entries {
		route := rt.NewRoute().
			Name(e.ID).
			Methods(e.Action.Route.Method).
			Path(e.Template).
			Handler(matchOnly)
		if err := route.GetError(); err != nil {
			return nil, fmt.Errorf("gorilla/mux %s: %w", e.ID, err)
		}
	}
	return rt, nil
}

// compareSpecificity orders patterns so that, at the first position where
// they differ in kind, the literal segment comes first.
func compareSpecificity(a, b []string) int {
	for i := range min(len(a), len(b)) {
		wa, wb := a[i] == router.Wildcard, b[i] == router.Wildcard
		switch {
		case wa == wb:
			continue
		case wb:
			return -1
		default:
			return 1
		}
	}
	return 0
}
