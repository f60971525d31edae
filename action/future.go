package action

import "fmt"

// Future is the eventual outcome of an asynchronous handler. Handlers that
// start work in the background return one; the invoker awaits it.
type Future struct {
	done chan struct{}
	val  any
	err  error
}

// Async runs fn on a new goroutine and returns its Future. A panic inside fn
// fails the Future.
func Async(fn func() (any, error)) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("async handler panicked: %v", r)
			}
		}()
		f.val, f.err = fn()
	}()
	return f
}

// Resolved returns a completed Future holding v.
func Resolved(v any) *Future {
	f := &Future{done: make(chan struct{}), val: v}
	close(f.done)
	return f
}

// Failed returns a completed Future holding err.
func Failed(err error) *Future {
	f := &Future{done: make(chan struct{}), err: err}
	close(f.done)
	return f
}

// Await blocks until the Future completes.
func (f *Future) Await() (any, error) {
	<-f.done
	return f.val, f.err
}
