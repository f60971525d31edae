package adapter

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaconlabs/warpcore/action"
	"github.com/iaconlabs/warpcore/router"
)

const concurrentReaders = 50

// ContractAction builds a router action answering with its own key, for use in
// Registry tests.
func ContractAction(method string, pattern ...string) router.RouterAction {
	key := action.NamedKey(method + " /" + fmt.Sprint(pattern))
	return router.RouterAction{
		Route: router.Route{Method: method, Pattern: pattern},
		Action: action.New(key, func(action.Context) (action.Result, error) {
			return action.OK(key.String()), nil
		}, action.TypeOf[string]()),
	}
}

// RunRegistryContract executes the functional contract every router.Registry
// must satisfy: literal and wildcard matching, method discrimination,
// registration replacement, removal and safe concurrent lookups.
func RunRegistryContract(t *testing.T, factory func() router.Registry) {
	t.Run("Static Routes", func(t *testing.T) {
		testStaticRoutes(t, factory())
	})

	t.Run("Wildcard Segments", func(t *testing.T) {
		testWildcardSegments(t, factory())
	})

	t.Run("Method Discrimination", func(t *testing.T) {
		testMethodDiscrimination(t, factory())
	})

	t.Run("Root Route", func(t *testing.T) {
		testRootRoute(t, factory())
	})

	t.Run("Static Before Dynamic", func(t *testing.T) {
		testStaticBeforeDynamic(t, factory())
	})

	t.Run("Re-registration Replaces Key", func(t *testing.T) {
		testReplaceKey(t, factory())
	})

	t.Run("Route Conflict", func(t *testing.T) {
		testRouteConflict(t, factory())
	})

	t.Run("Unsupported Literal", func(t *testing.T) {
		testUnsupportedLiteral(t, factory())
	})

	t.Run("Remove", func(t *testing.T) {
		testRemove(t, factory())
	})

	t.Run("Concurrent Lookups", func(t *testing.T) {
		testConcurrentLookups(t, factory())
	})
}

func lookup(t *testing.T, r router.Router, method string, path ...string) (router.RouterAction, bool) {
	t.Helper()
	ra, ok, err := r.ActionFor(context.Background(), method, path)
	require.NoError(t, err)
	return ra, ok
}

func testStaticRoutes(t *testing.T, r router.Registry) {
	users := ContractAction("GET", "api", "users")
	health := ContractAction("GET", "health")
	require.NoError(t, r.Add(users, health))

	ra, ok := lookup(t, r, "GET", "api", "users")
	require.True(t, ok)
	assert.Equal(t, users.Action.Key, ra.Action.Key)
	assert.Equal(t, users.Route, ra.Route)

	_, ok = lookup(t, r, "GET", "api")
	assert.False(t, ok)
	_, ok = lookup(t, r, "GET", "api", "users", "extra")
	assert.False(t, ok)

	assert.Len(t, r.Routes(), 2)
}

func testWildcardSegments(t *testing.T, r router.Registry) {
	one := ContractAction("GET", "users", router.Wildcard)
	two := ContractAction("GET", "users", router.Wildcard, "posts", router.Wildcard)
	require.NoError(t, r.Add(one, two))

	ra, ok := lookup(t, r, "GET", "users", "42")
	require.True(t, ok)
	assert.Equal(t, one.Action.Key, ra.Action.Key)

	ra, ok = lookup(t, r, "GET", "users", "42", "posts", "x.json")
	require.True(t, ok)
	assert.Equal(t, two.Action.Key, ra.Action.Key)

	_, ok = lookup(t, r, "GET", "users")
	assert.False(t, ok)
	_, ok = lookup(t, r, "GET", "users", "42", "posts")
	assert.False(t, ok)
}

func testMethodDiscrimination(t *testing.T, r router.Registry) {
	get := ContractAction("GET", "items")
	post := ContractAction("POST", "items")
	require.NoError(t, r.Add(get, post))

	ra, ok := lookup(t, r, "POST", "items")
	require.True(t, ok)
	assert.Equal(t, post.Action.Key, ra.Action.Key)

	_, ok = lookup(t, r, "DELETE", "items")
	assert.False(t, ok)
}

func testRootRoute(t *testing.T, r router.Registry) {
	root := ContractAction("GET")
	require.NoError(t, r.Add(root))

	ra, ok := lookup(t, r, "GET")
	require.True(t, ok)
	assert.Equal(t, root.Action.Key, ra.Action.Key)
}

func testStaticBeforeDynamic(t *testing.T, r router.Registry) {
	me := ContractAction("GET", "users", "me")
	byID := ContractAction("GET", "users", router.Wildcard)
	require.NoError(t, r.Add(me, byID))

	ra, ok := lookup(t, r, "GET", "users", "me")
	require.True(t, ok)
	assert.Equal(t, me.Action.Key, ra.Action.Key)

	ra, ok = lookup(t, r, "GET", "users", "7")
	require.True(t, ok)
	assert.Equal(t, byID.Action.Key, ra.Action.Key)
}

func testReplaceKey(t *testing.T, r router.Registry) {
	first := ContractAction("GET", "old")
	require.NoError(t, r.Add(first))

	moved := first
	moved.Route = router.Route{Method: "GET", Pattern: []string{"new"}}
	require.NoError(t, r.Add(moved))

	_, ok := lookup(t, r, "GET", "old")
	assert.False(t, ok)
	ra, ok := lookup(t, r, "GET", "new")
	require.True(t, ok)
	assert.Equal(t, first.Action.Key, ra.Action.Key)
	assert.Len(t, r.Routes(), 1)
}

func testRouteConflict(t *testing.T, r router.Registry) {
	a := ContractAction("GET", "things", router.Wildcard)
	require.NoError(t, r.Add(a))

	b := ContractAction("GET", "things", router.Wildcard)
	b.Action.Key = action.NamedKey("other")
	require.ErrorIs(t, r.Add(b), ErrRouteConflict)

	ra, ok := lookup(t, r, "GET", "things", "1")
	require.True(t, ok)
	assert.Equal(t, a.Action.Key, ra.Action.Key)
}

func testUnsupportedLiteral(t *testing.T, r router.Registry) {
	bad := ContractAction("GET", "files", "*")
	require.ErrorIs(t, r.Add(bad), ErrUnsupportedPattern)
	assert.Empty(t, r.Routes())
}

func testRemove(t *testing.T, r router.Registry) {
	keep := ContractAction("GET", "keep")
	drop := ContractAction("GET", "drop", router.Wildcard)
	require.NoError(t, r.Add(keep, drop))

	r.Remove(drop.Action.Key)

	_, ok := lookup(t, r, "GET", "drop", "1")
	assert.False(t, ok)
	_, ok = lookup(t, r, "GET", "keep")
	assert.True(t, ok)

	// Removing an unknown key is a no-op.
	r.Remove(action.NamedKey("unknown"))
	assert.Len(t, r.Routes(), 1)
}

func testConcurrentLookups(t *testing.T, r router.Registry) {
	stable := ContractAction("GET", "stable", router.Wildcard)
	require.NoError(t, r.Add(stable))

	var wg sync.WaitGroup
	errs := make(chan error, concurrentReaders)
	for i := range concurrentReaders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 20 {
				ra, ok, err := r.ActionFor(context.Background(), "GET", []string{"stable", fmt.Sprint(i * j)})
				if err != nil {
					errs <- err
					return
				}
				if !ok || ra.Action.Key != stable.Action.Key {
					errs <- fmt.Errorf("reader %d: stable route lost", i)
					return
				}
			}
		}()
	}

	for i := range 20 {
		churn := ContractAction("GET", "churn", fmt.Sprint(i))
		if err := r.Add(churn); err != nil {
			t.Fatalf("add churn route: %v", err)
		}
		r.Remove(churn.Action.Key)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
