package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/meiyaku-knights/navi/pkg/adapters/redis"
	"github.com/meiyaku-knights/navi/pkg/domain"
	"github.com/meiyaku-knights/navi/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := setup(t)
	ports.RunSessionStoreContract(t, redis.NewFromClient(client))
}

func TestRedisCache_Contract(t *testing.T) {
	_, client := setup(t)
	ports.RunVideoCacheContract(t, redis.NewCache(client))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client, redis.WithTTL(time.Second))
	ctx := context.Background()

	s := domain.NewSession("session-ttl")
	s.Phase = domain.PhaseAtQuestion
	s.CurrentID = "Q1"
	require.NoError(t, store.Save(ctx, s))

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, sessions, "session-ttl")

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "session-ttl")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.NewSession("my-session")))

	assert.True(t, mr.Exists("custom:app:my-session"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")
}

func TestRedisCache_Expiry(t *testing.T) {
	mr, client := setup(t)
	cache := redis.NewCache(client, redis.WithCachePrefix("c:"), redis.WithCacheExpiry(time.Hour))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, domain.VideoCacheKey, domain.CacheEntry{Data: []domain.Video{{ID: "v"}}, Timestamp: 1}))
	assert.True(t, mr.Exists("c:"+domain.VideoCacheKey))

	mr.FastForward(2 * time.Hour)
	_, err := cache.Get(ctx, domain.VideoCacheKey)
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCache_Corrupt(t *testing.T) {
	mr, client := setup(t)
	require.NoError(t, mr.Set("navi:cache:"+domain.VideoCacheKey, "not-json"))

	_, err := redis.NewCache(client).Get(context.Background(), domain.VideoCacheKey)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisLocker_LockUnlock(t *testing.T) {
	mr, client := setup(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "resource1", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:lock:resource1"), "Lock key should be set in Redis")

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("test:lock:resource1"), "Lock key should be removed after unlock")
}

func TestRedisLocker_Contention(t *testing.T) {
	mr, client := setup(t)
	locker1 := redis.NewLocker(client, "test:")
	locker2 := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock1, err := locker1.Lock(ctx, "shared", 5*time.Second)
	require.NoError(t, err)

	ctxTimeout, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	_, err = locker2.Lock(ctxTimeout, "shared", 5*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock1(ctx))

	unlock2, err := locker2.Lock(ctx, "shared", 5*time.Second)
	require.NoError(t, err)
	defer func() { _ = unlock2(ctx) }()
	assert.True(t, mr.Exists("test:lock:shared"))
}

func TestRedisLocker_ForeignUnlockIsNoop(t *testing.T) {
	mr, client := setup(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "expiring", time.Second)
	require.NoError(t, err)

	// Lock expires and someone else grabs it.
	mr.FastForward(2 * time.Second)
	other, err := locker.Lock(ctx, "expiring", 5*time.Second)
	require.NoError(t, err)

	require.NoError(t, unlock(ctx))
	assert.True(t, mr.Exists("test:lock:expiring"), "stale unlock must not release someone else's lock")
	require.NoError(t, other(ctx))
}
