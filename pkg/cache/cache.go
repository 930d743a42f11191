package cache

import (
	"container/list"
	"sync"
	"time"
)

// Options configures a Cache.
type Options struct {
	// StdTTL is the default time-to-live applied by Set and Touch. Zero disables expiry.
	StdTTL time.Duration
	// CheckPeriod is the interval of the background sweep. Zero disables the sweeper;
	// expired entries are then only dropped lazily on access.
	CheckPeriod time.Duration
	// MaxEntries bounds the cache size. When exceeded the least recently used entry is evicted.
	// Zero means unbounded.
	MaxEntries int
	// Now overrides the clock, mainly for tests.
	Now func() time.Time
}

type entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time // zero means never
}

// Cache is a thread-safe in-memory key/value cache with per-entry expiry,
// periodic sweeping and optional LRU bounding.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	opts     Options
	items    map[K]*list.Element
	eviction *list.List

	ticker    *time.Ticker
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a cache. If opts.CheckPeriod is positive a sweeper goroutine is
// started; call Close to stop it.
func New[K comparable, V any](opts Options) *Cache[K, V] {
	if opts.MaxEntries < 0 {
		panic("cache: MaxEntries must not be negative")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	c := &Cache[K, V]{
		opts:     opts,
		items:    make(map[K]*list.Element),
		eviction: list.New(),
		done:     make(chan struct{}),
	}

	if opts.CheckPeriod > 0 {
		c.ticker = time.NewTicker(opts.CheckPeriod)
		go c.sweepLoop()
	}

	return c
}

// StdTTL returns the default time-to-live.
func (c *Cache[K, V]) StdTTL() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts.StdTTL
}

// SetStdTTL changes the default time-to-live used by subsequent Set and Touch calls.
// Entries already stored keep their expiry.
func (c *Cache[K, V]) SetStdTTL(ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts.StdTTL = ttl
}

// Get retrieves a live value and marks it as recently used.
// Expired entries are removed and reported as missing.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, ok := c.items[key]
	if !ok {
		return zero, false
	}

	e := elem.Value.(*entry[K, V])
	if c.expired(e) {
		c.removeElement(elem)
		return zero, false
	}

	c.eviction.MoveToFront(elem)
	return e.value, true
}

// Set stores value under key with the default time-to-live.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(key, value, c.opts.StdTTL)
}

// Touch resets the expiry of a live entry to now plus the default time-to-live.
// Returns false if the key is missing or already expired.
func (c *Cache[K, V]) Touch(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return false
	}

	e := elem.Value.(*entry[K, V])
	if c.expired(e) {
		c.removeElement(elem)
		return false
	}

	e.expiresAt = c.deadline(c.opts.StdTTL)
	c.eviction.MoveToFront(elem)
	return true
}

// Delete removes an item from the cache.
// Returns the removed value and true if it existed, zero value and false otherwise.
func (c *Cache[K, V]) Delete(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		e := elem.Value.(*entry[K, V])
		c.removeElement(elem)
		return e.value, true
	}

	var zero V
	return zero, false
}

// Len returns the number of stored entries, including expired ones not yet swept.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eviction.Len()
}

// DeleteExpired removes every expired entry and returns how many were removed.
func (c *Cache[K, V]) DeleteExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, elem := range c.items {
		if c.expired(elem.Value.(*entry[K, V])) {
			c.removeElement(elem)
			removed++
		}
	}
	return removed
}

// Clear removes all items from the cache.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*list.Element)
	c.eviction.Init()
}

// Close stops the sweeper goroutine. It is safe to call more than once.
func (c *Cache[K, V]) Close() error {
	c.closeOnce.Do(func() {
		if c.ticker != nil {
			c.ticker.Stop()
		}
		close(c.done)
	})
	return nil
}

func (c *Cache[K, V]) sweepLoop() {
	for {
		select {
		case <-c.ticker.C:
			c.DeleteExpired()
		case <-c.done:
			return
		}
	}
}

// Must be called with lock held.
func (c *Cache[K, V]) set(key K, value V, ttl time.Duration) {
	expiresAt := c.deadline(ttl)

	if elem, ok := c.items[key]; ok {
		c.eviction.MoveToFront(elem)
		e := elem.Value.(*entry[K, V])
		e.value = value
		e.expiresAt = expiresAt
		return
	}

	elem := c.eviction.PushFront(&entry[K, V]{key: key, value: value, expiresAt: expiresAt})
	c.items[key] = elem

	if c.opts.MaxEntries > 0 && c.eviction.Len() > c.opts.MaxEntries {
		if oldest := c.eviction.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
}

func (c *Cache[K, V]) deadline(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return c.opts.Now().Add(ttl)
}

func (c *Cache[K, V]) expired(e *entry[K, V]) bool {
	return !e.expiresAt.IsZero() && !c.opts.Now().Before(e.expiresAt)
}

// Must be called with lock held.
func (c *Cache[K, V]) removeElement(elem *list.Element) {
	c.eviction.Remove(elem)
	e := elem.Value.(*entry[K, V])
	delete(c.items, e.key)
}
