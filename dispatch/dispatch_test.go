package dispatch_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaconlabs/warpcore/action"
	"github.com/iaconlabs/warpcore/dispatch"
)

func TestPool_RunsOffCallerGoroutine(t *testing.T) {
	p := dispatch.NewPool(2)

	res, err := p.Dispatch(context.Background(), func() (action.Result, error) {
		return action.Empty(http.StatusAccepted), nil
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, res.Status())
}

func TestPool_IgnoresCancellation(t *testing.T) {
	p := dispatch.NewPool(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	res, err := p.Dispatch(ctx, func() (action.Result, error) {
		ran = true
		return action.Empty(http.StatusNoContent), nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, http.StatusNoContent, res.Status())

	// Con el único worker ocupado, un contexto cancelado sigue esperando turno.
	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_, _ = p.Dispatch(context.Background(), func() (action.Result, error) {
			close(started)
			<-release
			return action.Empty(http.StatusOK), nil
		})
	}()
	<-started

	done := make(chan error, 1)
	go func() {
		_, err := p.Dispatch(ctx, func() (action.Result, error) {
			return action.Empty(http.StatusOK), nil
		})
		done <- err
	}()

	select {
	case err := <-done:
		t.Fatalf("dispatch returned before a worker was free: %v", err)
	case <-time.After(20 * time.Millisecond):
	}
	close(release)
	require.NoError(t, <-done)
}

func TestPool_BoundsConcurrency(t *testing.T) {
	p := dispatch.NewPool(3)
	var inFlight, peak atomic.Int32

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = p.Dispatch(context.Background(), func() (action.Result, error) {
				n := inFlight.Add(1)
				for {
					old := peak.Load()
					if n <= old || peak.CompareAndSwap(old, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				inFlight.Add(-1)
				return action.Empty(http.StatusOK), nil
			})
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(3))
	assert.Equal(t, 3, p.Size())
}

func TestPool_PropagatesErrorsAndPanics(t *testing.T) {
	p := dispatch.NewPool(1)
	boom := errors.New("boom")

	_, err := p.Dispatch(context.Background(), func() (action.Result, error) { return action.Result{}, boom })
	assert.Same(t, boom, err)

	_, err = p.Dispatch(context.Background(), func() (action.Result, error) { panic("kaput") })
	var pe *dispatch.PanicError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "kaput", pe.Value)

	// El worker se libera tras el pánico.
	_, err = p.Dispatch(context.Background(), func() (action.Result, error) { return action.Empty(http.StatusOK), nil })
	assert.NoError(t, err)
}

func TestInline(t *testing.T) {
	_, err := dispatch.Inline{}.Dispatch(context.Background(), func() (action.Result, error) { panic("x") })
	var pe *dispatch.PanicError
	assert.ErrorAs(t, err, &pe)
}

func TestNewPool_DefaultSize(t *testing.T) {
	assert.Greater(t, dispatch.NewPool(0).Size(), 0)
}
