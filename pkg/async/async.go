package async

import (
	"context"
	"sync"
	"time"
)

// Callback receives the outcome of a Future once it settles.
type Callback[U any] func(U, error)

// Future represents the result of an asynchronous computation.
// A Future settles exactly once; every subscribed Callback observes the same
// value and error that Await returns.
type Future[U any] struct {
	result U
	err    error
	once   sync.Once
	done   chan struct{}

	mu        sync.Mutex
	callbacks []Callback[U]
}

func newFuture[U any](callbacks []Callback[U]) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}
	for _, cb := range callbacks {
		if cb != nil {
			f.callbacks = append(f.callbacks, cb)
		}
	}
	return f
}

// settle stores the outcome and fires pending callbacks. Only the first call has any effect.
func (f *Future[U]) settle(res U, err error) {
	f.once.Do(func() {
		f.mu.Lock()
		f.result = res
		f.err = err
		pending := f.callbacks
		f.callbacks = nil
		close(f.done)
		f.mu.Unlock()

		// Callbacks run after done is closed, so calling Await inside one never blocks.
		for _, cb := range pending {
			cb(res, err)
		}
	})
}

// Await waits for the asynchronous function to complete and returns its result and error.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitWithTimeout waits for the asynchronous function to complete with a timeout.
// Returns the result and error if the function completes before the timeout.
// If the timeout occurs before completion, returns a timeout error.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-time.After(timeout):
		var zero U
		return zero, ErrTimeout
	}
}

// IsComplete checks if the asynchronous function is complete without blocking.
// Returns true if the function has completed, false otherwise.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Done returns a channel that is closed once the future settles.
func (f *Future[U]) Done() <-chan struct{} {
	return f.done
}

// Then subscribes cb to the outcome of the future.
// If the future has already settled, cb is invoked immediately on the calling goroutine.
// Otherwise it runs on the goroutine that settles the future. Either way it runs once.
func (f *Future[U]) Then(cb Callback[U]) *Future[U] {
	if cb == nil {
		return f
	}

	f.mu.Lock()
	select {
	case <-f.done:
		res, err := f.result, f.err
		f.mu.Unlock()
		cb(res, err)
		return f
	default:
	}
	f.callbacks = append(f.callbacks, cb)
	f.mu.Unlock()

	return f
}

// Async executes a function asynchronously and returns a Future.
// The function accepts a context.Context and a parameter of any type T, and returns (U, error).
// Optional callbacks are subscribed before the function starts and fire exactly once.
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error), callbacks ...Callback[U]) *Future[U] {
	f := newFuture(callbacks)

	go func() {
		// Early exit prevents goroutine leak when context is pre-canceled
		select {
		case <-ctx.Done():
			var zero U
			f.settle(zero, ctx.Err())
			return
		default:
		}

		res, err := fn(ctx, param)
		f.settle(res, err)
	}()

	return f
}

// Run is Async without a parameter.
func Run[U any](ctx context.Context, fn func(context.Context) (U, error), callbacks ...Callback[U]) *Future[U] {
	return Async(ctx, struct{}{}, func(ctx context.Context, _ struct{}) (U, error) {
		return fn(ctx)
	}, callbacks...)
}

// Resolved returns a future that has already settled with v.
// Callbacks still fire, on the calling goroutine.
func Resolved[U any](v U, callbacks ...Callback[U]) *Future[U] {
	f := newFuture(callbacks)
	f.settle(v, nil)
	return f
}

// Rejected returns a future that has already settled with err.
func Rejected[U any](err error, callbacks ...Callback[U]) *Future[U] {
	f := newFuture(callbacks)
	var zero U
	f.settle(zero, err)
	return f
}

// WaitAll waits for all futures to complete and returns a slice of their results and an error
// if any of the futures returned an error.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))

	for i, future := range futures {
		result, err := future.Await()
		results[i] = result
		if err != nil {
			return results, err
		}
	}

	return results, nil
}

// WaitAny waits for any of the futures to complete and returns the index of the completed future,
// its result, and any error it might have returned.
func WaitAny[U any](futures ...*Future[U]) (int, U, error) {
	if len(futures) == 0 {
		var zero U
		return -1, zero, ErrNoFutures
	}

	type outcome struct {
		index  int
		result U
		err    error
	}

	// Buffered so late completions never block the subscribing callbacks.
	done := make(chan outcome, len(futures))
	for i, future := range futures {
		future.Then(func(res U, err error) {
			done <- outcome{i, res, err}
		})
	}

	res := <-done
	return res.index, res.result, res.err
}
