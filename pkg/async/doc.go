// Package async provides simple, generic helpers for running computations asynchronously and
// consuming their outcome either by waiting or through callbacks.
//
// The package is centred around the generic type Future that represents the eventual result of an
// asynchronous operation. A Future can be obtained by calling Async or Run, which start the supplied
// function in its own goroutine and immediately return a *Future instance. The caller can then
// wait for completion with Await, block with a timeout using AwaitWithTimeout, poll the state
// with IsComplete, or subscribe a Callback with Then.
//
// A Future settles exactly once. Callbacks passed to Async/Run or registered with Then are invoked
// exactly once with the same value and error that Await returns, so a single operation can serve
// both callers that block on the result and callers that prefer error-first callbacks.
//
// # Usage
//
//	future := async.Run(ctx, func(ctx context.Context) (string, error) {
//	    return load(ctx)
//	}, func(v string, err error) {
//	    log.Println("loaded", v, err)
//	})
//
//	v, err := future.Await() // same v and err the callback saw
//
// Resolved and Rejected build futures for outcomes that are known synchronously, keeping the
// completion channel uniform for the caller.
//
// # Error Handling
//
// Functions return the error produced by the user callback, the context error when the context
// was cancelled before the work started, or ErrTimeout from AwaitWithTimeout.
package async
