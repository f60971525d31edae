package middleware_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaconlabs/warpcore/action"
	"github.com/iaconlabs/warpcore/middleware"
)

func TestRateLimit_PerClientBuckets(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	f := middleware.RateLimit(1, 2, middleware.WithClock(func() time.Time { return now }))

	calls := 0
	next := func(c action.Context) (action.Result, error) {
		calls++
		return okAction(c)
	}

	call := func(remote string) action.Result {
		res, err := f(newContext(http.MethodGet, "/r", remote), next, nil)
		require.NoError(t, err)
		return res
	}

	// La ráfaga permite dos peticiones, la tercera se rechaza.
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1000").Status())
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1001").Status())

	rejected := call("10.0.0.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, rejected.Status())
	assert.Equal(t, "1", rejected.Header("Retry-After"))
	assert.Equal(t, "text/plain", rejected.Header("Content-Type"))

	// Otro cliente tiene su propio bucket.
	assert.Equal(t, http.StatusOK, call("10.0.0.2:1000").Status())

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1003").Status())
	assert.Equal(t, 4, calls)
}

func TestRateLimit_CustomKey(t *testing.T) {
	f := middleware.RateLimit(0, 1, middleware.WithKey(func(action.Context) string { return "global" }))

	res, err := f(newContext(http.MethodGet, "/", "a:1"), okAction, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.Status())

	res, err = f(newContext(http.MethodGet, "/", "b:1"), okAction, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, res.Status())
	assert.Empty(t, res.Header("Retry-After"))
}

func TestClientIP(t *testing.T) {
	assert.Equal(t, "192.0.2.1", middleware.ClientIP(newContext(http.MethodGet, "/", "192.0.2.1:1234")))
	assert.Equal(t, "unix", middleware.ClientIP(newContext(http.MethodGet, "/", "unix")))
}
