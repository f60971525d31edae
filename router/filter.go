package router

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/iaconlabs/warpcore/action"
)

// FilterProvider is a middleware wrapping action functions. Matches selects the
// request URIs the filter applies to; Call runs the filter around next. route
// is nil when the request matched no registered route.
type FilterProvider interface {
	Matches(uri string) bool
	Call(c action.Context, next action.Function, route *Route) (action.Result, error)
}

// Filters is a concurrent set of filter providers. Readers take a point-in-time
// snapshot without locking; writers replace the whole set.
type Filters struct {
	mu      sync.Mutex // serializes writers
	nextID  uint64
	current atomic.Pointer[filterSet]
}

type filterSet struct {
	ids       []uint64
	providers []FilterProvider
}

// NewFilters creates a set holding providers in discovery order.
func NewFilters(providers ...FilterProvider) *Filters {
	f := &Filters{}
	set := &filterSet{}
	for _, p := range providers {
		f.nextID++
		set.ids = append(set.ids, f.nextID)
		set.providers = append(set.providers, p)
	}
	f.current.Store(set)
	return f
}

// Add appends p and returns a function removing it again.
func (f *Filters) Add(p FilterProvider) (remove func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	id := f.nextID
	cur := f.load()
	f.current.Store(&filterSet{
		ids:       append(slices.Clone(cur.ids), id),
		providers: append(slices.Clone(cur.providers), p),
	})

	var once sync.Once
	return func() {
		once.Do(func() { f.remove(id) })
	}
}

func (f *Filters) remove(id uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cur := f.load()
	idx := slices.Index(cur.ids, id)
	if idx < 0 {
		return
	}
	f.current.Store(&filterSet{
		ids:       slices.Delete(slices.Clone(cur.ids), idx, idx+1),
		providers: slices.Delete(slices.Clone(cur.providers), idx, idx+1),
	})
}

// Snapshot returns the providers registered at this instant, in discovery
// order. The returned slice must not be modified.
func (f *Filters) Snapshot() []FilterProvider {
	return f.load().providers
}

func (f *Filters) load() *filterSet {
	if s := f.current.Load(); s != nil {
		return s
	}
	return &filterSet{}
}
