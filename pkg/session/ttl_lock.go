package session

import (
	"reflect"
	"sync"
	"time"
)

// ttlLockEntry guards the default TTL of one store instance.
type ttlLockEntry struct {
	mu   sync.RWMutex
	refs int
}

// ttlLocks holds one lock per live store instance, reference counted so
// entries disappear once no operation uses them.
var ttlLocks = struct {
	mu      sync.Mutex
	entries map[Store]*ttlLockEntry
	shared  ttlLockEntry // used for stores whose dynamic type cannot be a map key
}{
	entries: make(map[Store]*ttlLockEntry),
}

func acquireTTLLock(store Store) *ttlLockEntry {
	if !reflect.TypeOf(store).Comparable() {
		return &ttlLocks.shared
	}

	ttlLocks.mu.Lock()
	defer ttlLocks.mu.Unlock()

	entry, ok := ttlLocks.entries[store]
	if !ok {
		entry = &ttlLockEntry{}
		ttlLocks.entries[store] = entry
	}
	entry.refs++
	return entry
}

func releaseTTLLock(store Store, entry *ttlLockEntry) {
	if entry == &ttlLocks.shared {
		return
	}

	ttlLocks.mu.Lock()
	defer ttlLocks.mu.Unlock()

	entry.refs--
	if entry.refs <= 0 {
		delete(ttlLocks.entries, store)
	}
}

// withTTLOverride runs fn while the store's default TTL is temporarily set to
// ttl, restoring the previous value after fn returns. Overrides on the same
// store are serialized; calls without override share the lock so they never
// run under someone else's TTL.
func withTTLOverride(shim TTLShim, store Store, ttl time.Duration, fn func() error) error {
	entry := acquireTTLLock(store)
	defer releaseTTLLock(store, entry)

	if ttl <= 0 {
		entry.mu.RLock()
		defer entry.mu.RUnlock()
		return fn()
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	prev, ok := shim.WriteTTL(store, ttl)
	if !ok {
		return fn()
	}
	defer shim.WriteTTL(store, prev)

	return fn()
}
