// Package adapter bridges net/http to the dispatch pipeline and holds the
// pieces shared by the third-party Router implementations.
package adapter

import (
	"errors"
	"fmt"
	"slices"

	"github.com/iaconlabs/warpcore/action"
	"github.com/iaconlabs/warpcore/router"
)

// ErrRouteConflict is returned when a route is already bound to another key.
var ErrRouteConflict = errors.New("route already bound")

// Entry is one registered router action with its rendered path template.
type Entry struct {
	ID       string
	Template string
	Action   router.RouterAction
}

// Table indexes router actions by "METHOD template". A Table is not safe for
// concurrent mutation; Registry implementations clone it, mutate the clone
// and publish it together with the matcher built from it.
type Table struct {
	entries []Entry
	byID    map[string]int
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{byID: map[string]int{}}
}

// RouteID returns the lookup key for a method and path template.
func RouteID(method, template string) string {
	return method + " " + template
}

// Clone returns an independent copy of t.
func (t *Table) Clone() *Table {
	c := &Table{entries: slices.Clone(t.entries), byID: make(map[string]int, len(t.byID))}
	for id, i := range t.byID {
		c.byID[id] = i
	}
	return c
}

// Put registers actions. An action whose key is already registered replaces
// the earlier routes of that key. A route bound to a different key fails the
// whole batch and leaves t unchanged.
func (t *Table) Put(actions ...router.RouterAction) error {
	batch := make([]Entry, 0, len(actions))
	owners := map[string]action.ActionKey{}
	for _, ra := range actions {
		tpl, err := PathTemplate(ra.Route.Pattern)
		if err != nil {
			return fmt.Errorf("%s: %w", ra.Route, err)
		}
		id := RouteID(ra.Route.Method, tpl)
		if owner, ok := owners[id]; ok && owner != ra.Action.Key {
			return fmt.Errorf("%w: %s to %s", ErrRouteConflict, id, owner)
		}
		if i, ok := t.byID[id]; ok && t.entries[i].Action.Action.Key != ra.Action.Key {
			return fmt.Errorf("%w: %s to %s", ErrRouteConflict, id, t.entries[i].Action.Action.Key)
		}
		owners[id] = ra.Action.Key
		batch = append(batch, Entry{ID: id, Template: tpl, Action: ra})
	}

	keys := make([]action.ActionKey, 0, len(batch))
	for _, e := range batch {
		keys = append(keys, e.Action.Action.Key)
	}
	t.Delete(keys...)
	for _, e := range batch {
		if i, ok := t.byID[e.ID]; ok {
			t.entries[i] = e
			continue
		}
		t.byID[e.ID] = len(t.entries)
		t.entries = append(t.entries, e)
	}
	return nil
}

// Delete drops every entry bound to one of keys and reports whether any was
// removed.
func (t *Table) Delete(keys ...action.ActionKey) bool {
	if len(keys) == 0 {
		return false
	}
	n := len(t.entries)
	t.entries = slices.DeleteFunc(t.entries, func(e Entry) bool {
		return slices.Contains(keys, e.Action.Action.Key)
	})
	if len(t.entries) == n {
		return false
	}
	clear(t.byID)
	for i, e := range t.entries {
		t.byID[e.ID] = i
	}
	return true
}

// Lookup returns the action registered for method and template.
func (t *Table) Lookup(method, template string) (router.RouterAction, bool) {
	i, ok := t.byID[RouteID(method, template)]
	if !ok {
		return router.RouterAction{}, false
	}
	return t.entries[i].Action, true
}

// Entries returns the entries in registration order.
func (t *Table) Entries() []Entry {
	return slices.Clone(t.entries)
}

// Actions returns the router actions in registration order.
func (t *Table) Actions() []router.RouterAction {
	out := make([]router.RouterAction, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Action
	}
	return out
}
