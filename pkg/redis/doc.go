// Package redis connects to Redis and provides a session store on top of it.
//
// The package wraps the go-redis client and adds:
//
//   - Connect, which retries the connection using the supplied configuration.
//   - Store, a session.Store keeping one JSON string per session under a
//     prefixed key. Its default expiry is exposed through TTL/SetTTL, so the
//     session manager can override it for a single write.
//   - Healthcheck, for liveness and readiness probes.
//
// Configuration is described by the Config struct whose fields are populated
// from environment variables via github.com/caarlos0/env.
//
// # Usage
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    // handle error, probably terminate the application
//	}
//	defer client.Close()
//
//	store := redis.NewStoreFromConfig(client, cfg)
//	manager, err := session.New(session.WithStore(store))
//
// Touch refreshes the key expiry with EXPIRE; Len and Reset walk the prefix
// with SCAN and never touch keys outside it.
//
// # Errors
//
// Sentinel errors (e.g. ErrRedisNotReady) wrap the underlying go-redis errors
// using errors.Join, so they can be matched with errors.Is.
package redis
