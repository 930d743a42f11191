package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tokensession/pkg/redis"
	"github.com/dmitrymomot/tokensession/pkg/session"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestStore_Lifecycle(t *testing.T) {
	mr, client := setupRedis(t)
	store := redis.NewStore(client)
	ctx := context.Background()

	env := session.NewEnvelope(session.Payload{"user": "42"})
	require.NoError(t, store.Set(ctx, "abc", env))

	assert.True(t, mr.Exists("sess:abc"))
	assert.Equal(t, 30*time.Minute, mr.TTL("sess:abc"))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, env, *got)

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, store.Destroy(ctx, "abc"))
	assert.False(t, mr.Exists("sess:abc"))

	got, err = store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Destroy(ctx, "abc"), "destroying a missing key succeeds")
}

func TestStore_Expiry(t *testing.T) {
	mr, client := setupRedis(t)
	store := redis.NewStore(client, redis.WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "abc", session.NewEnvelope(nil)))

	mr.FastForward(50 * time.Second)
	require.NoError(t, store.Touch(ctx, "abc", session.Envelope{}))
	assert.Equal(t, time.Minute, mr.TTL("sess:abc"))

	mr.FastForward(61 * time.Second)
	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_ZeroTTL(t *testing.T) {
	mr, client := setupRedis(t)
	store := redis.NewStore(client, redis.WithTTL(0))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "abc", session.NewEnvelope(nil)))
	assert.Equal(t, time.Duration(0), mr.TTL("sess:abc"))

	store.SetTTL(time.Minute)
	require.NoError(t, store.Touch(ctx, "abc", session.Envelope{}))
	assert.Equal(t, time.Minute, mr.TTL("sess:abc"))

	store.SetTTL(0)
	require.NoError(t, store.Touch(ctx, "abc", session.Envelope{}))
	assert.Equal(t, time.Duration(0), mr.TTL("sess:abc"))
}

func TestStore_InvalidData(t *testing.T) {
	mr, client := setupRedis(t)
	store := redis.NewStore(client)

	require.NoError(t, mr.Set("sess:broken", "not json"))

	_, err := store.Get(context.Background(), "broken")
	assert.ErrorIs(t, err, redis.ErrInvalidSessionData)
}

func TestStore_PrefixIsolation(t *testing.T) {
	mr, client := setupRedis(t)
	ctx := context.Background()

	a := redis.NewStore(client, redis.WithPrefix("a:"))
	b := redis.NewStore(client, redis.WithPrefix("b:"))
	require.NoError(t, mr.Set("unrelated", "keep"))

	require.NoError(t, a.Set(ctx, "1", session.NewEnvelope(nil)))
	require.NoError(t, a.Set(ctx, "2", session.NewEnvelope(nil)))
	require.NoError(t, b.Set(ctx, "1", session.NewEnvelope(nil)))

	n, err := a.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, a.Reset(ctx))

	n, err = a.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.True(t, mr.Exists("b:1"))
	assert.True(t, mr.Exists("unrelated"))
}

func TestStore_FromConfig(t *testing.T) {
	_, client := setupRedis(t)

	store := redis.NewStoreFromConfig(client, redis.Config{
		SessionPrefix: "app:",
		SessionTTL:    time.Hour,
	})

	assert.Equal(t, time.Hour, store.TTL())
	assert.Same(t, client, store.Conn())
}

func TestStore_WithManager(t *testing.T) {
	mr, client := setupRedis(t)
	store := redis.NewStore(client, redis.WithTTL(30*time.Minute))
	ctx := context.Background()

	m, err := session.New(session.WithStore(store))
	require.NoError(t, err)

	ttl, ok := m.ReadTTL()
	require.True(t, ok)
	assert.Equal(t, 30*time.Minute, ttl)

	id, err := m.Create(ctx, session.Payload{"n": 1}, time.Minute).Await()
	require.NoError(t, err)

	assert.Equal(t, time.Minute, mr.TTL("sess:"+id))
	assert.Equal(t, 30*time.Minute, store.TTL(), "default restored after override")

	got, err := m.Read(ctx, id).Await()
	require.NoError(t, err)
	assert.Equal(t, session.Payload{"n": float64(1)}, got, "numbers round trip through JSON")
	assert.Equal(t, 30*time.Minute, mr.TTL("sess:"+id), "auto touch applies the default ttl")

	newID, err := m.Regenerate(ctx, id, got).Await()
	require.NoError(t, err)
	assert.False(t, mr.Exists("sess:"+id))
	assert.True(t, mr.Exists("sess:"+newID))
}

func TestHealthcheck(t *testing.T) {
	mr, client := setupRedis(t)
	check := redis.Healthcheck(client)

	require.NoError(t, check(context.Background()))

	mr.Close()
	assert.ErrorIs(t, check(context.Background()), redis.ErrHealthcheckFailed)
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := redis.Connect(context.Background(), redis.Config{
		ConnectionURL:  "redis://" + mr.Addr() + "/0",
		RetryAttempts:  1,
		RetryInterval:  time.Millisecond,
		ConnectTimeout: time.Second,
	})
	require.NoError(t, err)
	defer client.Close()

	_, err = redis.Connect(context.Background(), redis.Config{ConnectionURL: "://bad"})
	assert.ErrorIs(t, err, redis.ErrFailedToParseRedisConnString)

	_, err = redis.Connect(context.Background(), redis.Config{})
	assert.ErrorIs(t, err, redis.ErrEmptyConnectionURL)
}
