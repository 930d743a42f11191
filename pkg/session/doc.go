// Package session manages opaque, token-addressed session state on top of
// pluggable storage backends.
//
// A Manager mints session ids, wraps payloads in an Envelope and persists them
// through any Store. Stores differ in how they expose their default
// time-to-live; a TTLShim hides those differences so a single write can carry
// its own TTL. Every Manager operation returns an async.Future and accepts
// optional error-first callbacks that observe the same outcome.
//
// # Architecture
//
//	┌────────┐  token-session  ┌────────────┐
//	│ Client │ ──────────────► │ Middleware │  checksum before/after handler
//	└────────┘                 └────────────┘
//	                                 │ Read / Write / Touch
//	                                 ▼
//	┌─────────────────────────────────────────┐
//	│                 Manager                 │  futures + callbacks
//	└─────────────────────────────────────────┘
//	      │ Get / Set / Destroy / Touch    ▲ TTL read/write (TTLShim)
//	      ▼                                │
//	┌──────────────────────────────────────────┐
//	│ Store (memory, redis, postgres, mongo)   │
//	└──────────────────────────────────────────┘
//
// # Usage
//
//	manager, err := session.New(
//	    session.WithStore(redis.NewStore(client)),
//	)
//	if err != nil {
//	    return err
//	}
//
//	id, err := manager.Create(ctx, session.Payload{"user": "42"}, 0).Await()
//
//	// Callback style: same outcome as Await
//	manager.Read(ctx, id, func(p session.Payload, err error) {
//	    // ...
//	})
//
//	// One-off TTL for a single write
//	manager.Write(ctx, id, payload, time.Minute)
//
// HTTP:
//
//	mux.Handle("/", manager.Middleware(handler))
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    sess := session.MustFromContext(r.Context())
//	    sess.Set("visits", visits+1) // written back because the checksum changed
//	}
//
// # TTL overrides
//
// Stores expose their default TTL in one of three shapes (DirectTTL,
// OptionsTTL, NestedTTL). A write with a positive ttl saves the current default,
// installs the override, performs the write and restores the saved value. The
// default is shared by every caller of that store instance, so the whole
// sequence runs under a per-store lock; plain writes and touches take the same
// lock in shared mode so they never run under another caller's override.
// The lock is process-local; processes sharing a backend are not coordinated.
//
// # Configuration
//
// Options (WithStore, WithIDGenerator, WithTTLShim, ...) or a Config passed to
// NewFromConfig. Config fields carry env tags for pkg/config.
//
// # Error Handling
//
//   - ErrInvalidConfiguration – wraps ErrInvalidGenerator, ErrInvalidTTLShim or ErrInvalidStore from New
//   - ErrTokenGeneration      – the generator returned an empty id
//   - ErrInvalidSession       – empty id on write
//
// Store errors are returned unchanged. Reading an absent session yields a nil
// payload and no error; destroying one succeeds.
package session
