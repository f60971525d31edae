// Package dispatch offloads action invocations from the transport goroutine
// onto a bounded pool of workers.
package dispatch

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"

	"golang.org/x/sync/semaphore"

	"github.com/iaconlabs/warpcore/action"
)

// Work is a unit of handler execution.
type Work func() (action.Result, error)

// Dispatcher runs work on a scheduling abstraction and returns its outcome.
type Dispatcher interface {
	Dispatch(ctx context.Context, work Work) (action.Result, error)
}

// PanicError is returned when dispatched work panics.
type PanicError struct {
	Value any
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("handler panicked: %v", e.Value)
}

// Pool is a Dispatcher running each unit of work on its own goroutine, with at
// most a fixed number of units in flight.
type Pool struct {
	sem  *semaphore.Weighted
	size int64
}

// NewPool creates a Pool admitting size concurrent units of work. A size of
// zero or less defaults to 4*GOMAXPROCS.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = 4 * runtime.GOMAXPROCS(0)
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size)), size: int64(size)}
}

// Size returns the number of workers.
func (p *Pool) Size() int { return int(p.size) }

// Dispatch waits for a free worker, runs work on it and waits for the result.
// Cancellation of ctx is ignored: once dispatched, work always runs.
func (p *Pool) Dispatch(ctx context.Context, work Work) (action.Result, error) {
	if err := p.sem.Acquire(context.WithoutCancel(ctx), 1); err != nil {
		return action.Result{}, err
	}

	type outcome struct {
		res action.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		defer p.sem.Release(1)
		res, err := run(work)
		done <- outcome{res: res, err: err}
	}()

	o := <-done
	return o.res, o.err
}

// Inline is a Dispatcher running work on the calling goroutine.
type Inline struct{}

// Dispatch implements Dispatcher.
func (Inline) Dispatch(_ context.Context, work Work) (action.Result, error) {
	return run(work)
}

func run(work Work) (res action.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return work()
}
