package mongo_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tokensession/pkg/mongo"
	"github.com/dmitrymomot/tokensession/pkg/session"
)

func TestStore_TTLShape(t *testing.T) {
	store := mongo.NewStore(nil, mongo.WithTTL(time.Hour))

	ttl, ok := session.DefaultTTLShim.ReadTTL(store)
	require.True(t, ok)
	assert.Equal(t, time.Hour, ttl)

	prev, ok := session.DefaultTTLShim.WriteTTL(store, 0)
	require.True(t, ok)
	assert.Equal(t, time.Hour, prev)
	assert.Equal(t, time.Duration(0), store.TTL())
}

// TestStore_Mongo runs against a real server when MONGODB_URL is set.
func TestStore_Mongo(t *testing.T) {
	url := os.Getenv("MONGODB_URL")
	if url == "" {
		t.Skip("MONGODB_URL not set")
	}

	ctx := context.Background()
	cfg := mongo.Config{
		ConnectionURL:     url,
		ConnectTimeout:    5 * time.Second,
		MaxPoolSize:       4,
		RetryAttempts:     1,
		RetryInterval:     time.Second,
		Database:          "tokensession_test",
		SessionCollection: "sessions_" + time.Now().Format("150405.000000"),
		SessionTTL:        time.Minute,
	}

	client, err := mongo.New(ctx, cfg)
	require.NoError(t, err)
	defer client.Disconnect(ctx)

	require.NoError(t, mongo.Healthcheck(client)(ctx))

	clock := time.Now()
	store := mongo.NewStore(
		client.Database(cfg.Database).Collection(cfg.SessionCollection),
		mongo.WithTTL(cfg.SessionTTL),
		mongo.WithClock(func() time.Time { return clock }),
	)
	defer client.Database(cfg.Database).Collection(cfg.SessionCollection).Drop(ctx)

	require.NoError(t, store.EnsureIndexes(ctx))

	m, err := session.New(session.WithStore(store))
	require.NoError(t, err)

	id, err := m.Create(ctx, session.Payload{"$set": "literal", "n": 1}, 0).Await()
	require.NoError(t, err)

	got, err := m.Read(ctx, id).Await()
	require.NoError(t, err)
	assert.Equal(t, session.Payload{"$set": "literal", "n": float64(1)}, got)

	clock = clock.Add(2 * time.Minute)
	got, err = m.Read(ctx, id).Await()
	require.NoError(t, err)
	assert.Nil(t, got, "expired documents are hidden before the TTL monitor runs")

	_, err = m.Destroy(ctx, id).Await()
	require.NoError(t, err)
}
