package adapter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaconlabs/warpcore/action"
	"github.com/iaconlabs/warpcore/adapter"
	"github.com/iaconlabs/warpcore/router"
)

func TestPathTemplate(t *testing.T) {
	tests := []struct {
		pattern []string
		want    string
		err     error
	}{
		{pattern: nil, want: "/"},
		{pattern: []string{"users"}, want: "/users"},
		{pattern: []string{"users", router.Wildcard, "posts", router.Wildcard}, want: "/users/{p1}/posts/{p3}"},
		{pattern: []string{"v1.json"}, want: "/v1.json"},
		{pattern: []string{"files", "*"}, err: adapter.ErrUnsupportedPattern},
		{pattern: []string{"a{b"}, err: adapter.ErrUnsupportedPattern},
	}

	for _, tt := range tests {
		got, err := adapter.PathTemplate(tt.pattern)
		if tt.err != nil {
			assert.ErrorIs(t, err, tt.err, "%v", tt.pattern)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestTable_PutIsAtomic(t *testing.T) {
	table := adapter.NewTable()
	a := adapter.ContractAction("GET", "a")
	require.NoError(t, table.Put(a))

	clash := adapter.ContractAction("GET", "a")
	clash.Action.Key = action.NamedKey("clash")
	fresh := adapter.ContractAction("GET", "fresh")

	err := table.Put(fresh, clash)
	require.ErrorIs(t, err, adapter.ErrRouteConflict)

	_, ok := table.Lookup("GET", "/fresh")
	assert.False(t, ok, "failed batch must not register anything")
	assert.Len(t, table.Entries(), 1)
}

func TestTable_CloneIsIndependent(t *testing.T) {
	table := adapter.NewTable()
	require.NoError(t, table.Put(adapter.ContractAction("GET", "a")))

	clone := table.Clone()
	require.NoError(t, clone.Put(adapter.ContractAction("GET", "b")))
	assert.True(t, clone.Delete(table.Actions()[0].Action.Key))

	assert.Len(t, table.Actions(), 1)
	assert.Len(t, clone.Actions(), 1)
	_, ok := table.Lookup("GET", "/a")
	assert.True(t, ok)
	_, ok = clone.Lookup("GET", "/b")
	assert.True(t, ok)
}
