// Package cache provides a generic, thread-safe in-memory cache with per-entry
// expiry, a periodic sweeper and optional LRU bounding.
//
// It is the storage engine behind the in-process session store: entries carry
// a deadline derived from the cache's default time-to-live (StdTTL), expired
// entries are dropped lazily on access and eagerly by a sweeper that runs every
// CheckPeriod.
//
// # Usage
//
//	c := cache.New[string, []byte](cache.Options{
//		StdTTL:      30 * time.Minute,
//		CheckPeriod: time.Minute,
//	})
//	defer c.Close()
//
//	c.Set("sess:abc", payload)
//	v, ok := c.Get("sess:abc")
//	c.Touch("sess:abc") // extend by StdTTL
//
// StdTTL can be changed at runtime with SetStdTTL. The new value applies to
// subsequent Set and Touch calls only; existing entries keep their deadline.
//
// # Capacity Management
//
// When MaxEntries is positive and an insert exceeds it, the least recently used
// entry is evicted. Items are considered "recently used" when they are read with
// Get, written with Set or extended with Touch.
//
// Clear drops every entry at once; Close stops the sweeper.
package cache
