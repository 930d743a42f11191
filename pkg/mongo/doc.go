// Package mongo provides MongoDB connection management and a session store
// backed by a single collection.
//
// New connects with retries and pings the server before returning.
// Healthcheck wraps Ping for readiness probes. Store implements session.Store
// and session.Toucher; its default expiry is a plain TTL/SetTTL pair, which
// the session manager overrides per write when asked to.
//
// # Usage
//
//	client, err := mongo.New(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Disconnect(ctx)
//
//	store := mongo.NewStoreFromConfig(client, cfg)
//	if err := store.EnsureIndexes(ctx); err != nil {
//		log.Fatal(err)
//	}
//
//	manager, err := session.New(session.WithStore(store))
//
// Each session is one document {_id, session, expires}. The payload is a JSON
// string and "expires" carries a TTL index, so the server deletes expired
// sessions on its own schedule. Reads ignore expired documents in the meantime.
//
// # Error Handling
//
// Connection failures are wrapped in sentinel errors that work with errors.Is.
package mongo
