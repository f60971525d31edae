package chiadapter_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaconlabs/warpcore/adapter"
	"github.com/iaconlabs/warpcore/adapter/chiadapter"
	"github.com/iaconlabs/warpcore/router"
)

func TestChiRegistry_Contract(t *testing.T) {
	// Cada sub-test recibe una instancia limpia del registro.
	adapter.RunRegistryContract(t, func() router.Registry {
		return chiadapter.New()
	})
}

func TestChiRegistry_UnknownMethod(t *testing.T) {
	r := chiadapter.New()

	err := r.Add(adapter.ContractAction("BREW", "coffee"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chi:")
	assert.Empty(t, r.Routes())

	_, ok, err := r.ActionFor(context.Background(), "BREW", []string{"coffee"})
	require.NoError(t, err)
	assert.False(t, ok)
}
