// Package chiadapter provides a router.Registry backed by the go-chi route
// tree.
package chiadapter

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/go-chi/chi/v5"

	"github.com/iaconlabs/warpcore/action"
	"github.com/iaconlabs/warpcore/adapter"
	"github.com/iaconlabs/warpcore/router"
)

var _ router.Registry = (*Registry)(nil)

// snapshot pairs a table with the chi tree built from it so lookups never
// observe one without the other.
type snapshot struct {
	table *adapter.Table
	mux   *chi.Mux
}

// Registry resolves actions with chi's matcher. Lookups are lock-free; every
// registration change rebuilds the tree and publishes it atomically.
type Registry struct {
	mu      sync.Mutex // serializes writers
	current atomic.Pointer[snapshot]
}

// New creates an empty Registry.
func New() *Registry {
	r := &Registry{}
	r.current.Store(&snapshot{table: adapter.NewTable(), mux: chi.NewRouter()})
	return r
}

// ActionFor implements router.Router.
func (r *Registry) ActionFor(_ context.Context, method string, path []string) (router.RouterAction, bool, error) {
	s := r.current.Load()
	rctx := chi.NewRouteContext()
	if !s.mux.Match(rctx, method, adapter.RequestPath(path)) {
		return router.RouterAction{}, false, nil
	}
	ra, ok := s.table.Lookup(method, rctx.RoutePattern())
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
	// The routes were accepted by chi before, rebuilding cannot fail.
	_ = r.publish(table)
}

// Routes implements router.Registry.
func (r *Registry) Routes() []router.RouterAction {
	return r.current.Load().table.Actions()
}

func (r *Registry) publish(table *adapter.Table) error {
	mux, err := build(table)
	if err != nil {
		return err
	}
	r.current.Store(&snapshot{table: table, mux: mux})
	return nil
}

// matchOnly marks a route in the tree. The registry never serves through chi.
var matchOnly = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNotImplemented)
})

// build creates a chi tree holding every entry of table. chi reports invalid
// patterns and methods by panicking; those panics become errors.
func build(table *adapter.Table) (mux *chi.Mux, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("chi: %v", rec)
		}
	}()

	mux = chi.NewRouter()
	for _, e := range table.Entries() {
		mux.Method(e.Action.Route.Method, e.Template, matchOnly)
	}
	return mux, nil
}
