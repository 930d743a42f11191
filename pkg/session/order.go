package session

import (
	"context"
	"sync"

	"github.com/dmitrymomot/tokensession/pkg/async"
)

// idQueue orders store calls per session id. Each operation takes a ticket on
// the caller's goroutine and reaches the store only once the previous ticket
// for the same id has been released.
type idQueue struct {
	mu    sync.Mutex
	tails map[string]chan struct{}
}

type ticket struct {
	q    *idQueue
	id   string
	prev <-chan struct{}
	done chan struct{}
	once sync.Once
}

func newIDQueue() *idQueue {
	return &idQueue{tails: make(map[string]chan struct{})}
}

func (q *idQueue) enqueue(id string) *ticket {
	q.mu.Lock()
	defer q.mu.Unlock()

	t := &ticket{q: q, id: id, done: make(chan struct{})}
	if prev, ok := q.tails[id]; ok {
		t.prev = prev
	}
	q.tails[id] = t.done
	return t
}

// wait blocks until every earlier operation on the id has finished.
func (t *ticket) wait(ctx context.Context) error {
	if t.prev == nil {
		return nil
	}
	select {
	case <-t.prev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// release lets the next operation on the id proceed. A ticket abandoned
// before its turn still releases only after its predecessor, so the chain
// never reorders.
func (t *ticket) release() {
	t.once.Do(func() {
		if t.prev == nil {
			t.finish()
			return
		}
		select {
		case <-t.prev:
			t.finish()
		default:
			go func() {
				<-t.prev
				t.finish()
			}()
		}
	})
}

func (t *ticket) finish() {
	close(t.done)

	t.q.mu.Lock()
	defer t.q.mu.Unlock()
	if t.q.tails[t.id] == t.done {
		delete(t.q.tails, t.id)
	}
}

// inOrder runs fn asynchronously after all operations previously issued for id
// through the same manager.
func inOrder[U any](ctx context.Context, m *Manager, id string, fn func(context.Context) (U, error), callbacks []async.Callback[U]) *async.Future[U] {
	t := m.queue.enqueue(id)

	// Released first on settle as well, since a context cancelled before the
	// goroutine starts skips fn entirely.
	release := func(U, error) { t.release() }
	callbacks = append([]async.Callback[U]{release}, callbacks...)

	return async.Run(ctx, func(ctx context.Context) (U, error) {
		defer t.release()

		if err := t.wait(ctx); err != nil {
			var zero U
			return zero, err
		}
		return fn(ctx)
	}, callbacks...)
}
