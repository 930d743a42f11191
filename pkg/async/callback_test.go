package async_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tokensession/pkg/async"
)

func TestAsyncCallbacks(t *testing.T) {
	t.Parallel()

	t.Run("callback observes the awaited result", func(t *testing.T) {
		t.Parallel()

		got := make(chan string, 1)
		future := async.Async(context.Background(), 21, func(_ context.Context, n int) (string, error) {
			return "value", nil
		}, func(v string, err error) {
			assert.NoError(t, err)
			got <- v
		})

		v, err := future.Await()
		require.NoError(t, err)
		assert.Equal(t, "value", v)

		select {
		case cbValue := <-got:
			assert.Equal(t, v, cbValue)
		case <-time.After(time.Second):
			t.Fatal("callback was not invoked")
		}
	})

	t.Run("callback observes the awaited error", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("boom")
		got := make(chan error, 1)
		future := async.Run(context.Background(), func(context.Context) (int, error) {
			return 0, wantErr
		}, func(_ int, err error) {
			got <- err
		})

		_, err := future.Await()
		require.ErrorIs(t, err, wantErr)

		select {
		case cbErr := <-got:
			assert.ErrorIs(t, cbErr, wantErr)
		case <-time.After(time.Second):
			t.Fatal("callback was not invoked")
		}
	})

	t.Run("nil callbacks are ignored", func(t *testing.T) {
		t.Parallel()

		future := async.Run(context.Background(), func(context.Context) (int, error) {
			return 1, nil
		}, nil)

		v, err := future.Await()
		require.NoError(t, err)
		assert.Equal(t, 1, v)
	})

	t.Run("pre-cancelled context settles both channels with ctx error", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var called atomic.Int32
		var wg sync.WaitGroup
		wg.Add(1)
		future := async.Run(ctx, func(context.Context) (int, error) {
			t.Error("function must not run")
			return 0, nil
		}, func(_ int, err error) {
			defer wg.Done()
			called.Add(1)
			assert.ErrorIs(t, err, context.Canceled)
		})

		_, err := future.Await()
		assert.ErrorIs(t, err, context.Canceled)
		wg.Wait()
		assert.Equal(t, int32(1), called.Load())
	})
}

func TestFutureThen(t *testing.T) {
	t.Parallel()

	t.Run("fires once when subscribed before settling", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		future := async.Run(context.Background(), func(context.Context) (int, error) {
			<-release
			return 7, nil
		})

		var calls atomic.Int32
		var wg sync.WaitGroup
		wg.Add(1)
		future.Then(func(v int, err error) {
			defer wg.Done()
			calls.Add(1)
			assert.Equal(t, 7, v)
			assert.NoError(t, err)
		})

		close(release)
		wg.Wait()
		_, _ = future.Await()
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("fires immediately on settled future", func(t *testing.T) {
		t.Parallel()

		future := async.Resolved("done")
		var got string
		future.Then(func(v string, err error) {
			got = v
		})
		assert.Equal(t, "done", got)
	})

	t.Run("many subscribers each fire once", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		future := async.Run(context.Background(), func(context.Context) (int, error) {
			<-release
			return 3, nil
		})

		const subscribers = 50
		var calls atomic.Int32
		var wg sync.WaitGroup
		wg.Add(subscribers)
		for range subscribers {
			go future.Then(func(int, error) {
				calls.Add(1)
				wg.Done()
			})
		}

		close(release)
		wg.Wait()
		assert.Equal(t, int32(subscribers), calls.Load())
	})

	t.Run("await inside callback does not block", func(t *testing.T) {
		t.Parallel()

		var future *async.Future[int]
		done := make(chan int, 1)
		ready := make(chan struct{})
		future = async.Run(context.Background(), func(context.Context) (int, error) {
			<-ready
			return 9, nil
		}, func(int, error) {
			v, _ := future.Await()
			done <- v
		})
		close(ready)

		select {
		case v := <-done:
			assert.Equal(t, 9, v)
		case <-time.After(time.Second):
			t.Fatal("callback deadlocked on Await")
		}
	})
}

func TestResolvedRejected(t *testing.T) {
	t.Parallel()

	t.Run("resolved", func(t *testing.T) {
		var cbValue int
		future := async.Resolved(5, func(v int, err error) {
			cbValue = v
			assert.NoError(t, err)
		})

		assert.True(t, future.IsComplete())
		v, err := future.Await()
		require.NoError(t, err)
		assert.Equal(t, 5, v)
		assert.Equal(t, 5, cbValue)
	})

	t.Run("rejected", func(t *testing.T) {
		wantErr := errors.New("config")
		var cbErr error
		future := async.Rejected[string](wantErr, func(_ string, err error) {
			cbErr = err
		})

		v, err := future.Await()
		assert.ErrorIs(t, err, wantErr)
		assert.Empty(t, v)
		assert.ErrorIs(t, cbErr, wantErr)
	})
}
