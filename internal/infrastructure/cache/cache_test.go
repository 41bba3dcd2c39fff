package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

func TestRedisStateStore_SingleUse(t *testing.T) {
	ctx := context.Background()
	_, client := setupTestRedis(t)
	store := NewRedisStateStore(client, "oauth:state:", 10*time.Minute)

	require.NoError(t, store.Set(ctx, "abc", StateInfo{UserID: "coach-1", Provider: "calendly", CodeVerifier: "verifier"}))

	info, err := store.VerifyAndGet(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "coach-1", info.UserID)
	assert.Equal(t, "verifier", info.CodeVerifier)
	assert.False(t, info.CreatedAt.IsZero())

	_, err = store.VerifyAndGet(ctx, "abc")
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestRedisStateStore_Expires(t *testing.T) {
	ctx := context.Background()
	mr, client := setupTestRedis(t)
	store := NewRedisStateStore(client, "oauth:state:", time.Minute)

	require.NoError(t, store.Set(ctx, "abc", StateInfo{CodeVerifier: "v"}))
	mr.FastForward(2 * time.Minute)

	_, err := store.VerifyAndGet(ctx, "abc")
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestRedisStateStore_Validation(t *testing.T) {
	ctx := context.Background()
	_, client := setupTestRedis(t)
	store := NewRedisStateStore(client, "oauth:state:", time.Minute)

	assert.Error(t, store.Set(ctx, "", StateInfo{CodeVerifier: "v"}))
	assert.Error(t, store.Set(ctx, "s", StateInfo{}))
	_, err := store.VerifyAndGet(ctx, "")
	assert.Error(t, err)
}

func TestRefreshLock(t *testing.T) {
	ctx := context.Background()
	mr, client := setupTestRedis(t)
	lock := NewRefreshLock(client)

	ok, err := lock.TryAcquire(ctx, "int-1", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = lock.TryAcquire(ctx, "int-1", 30*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = lock.TryAcquire(ctx, "int-2", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(31 * time.Second)
	ok, err = lock.TryAcquire(ctx, "int-1", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, lock.Release(ctx, "int-1"))
	ok, err = lock.TryAcquire(ctx, "int-1", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCoachListingCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	_, client := setupTestRedis(t)
	c := NewCoachListingCache(client, time.Minute)

	miss, err := c.Get(ctx, "page=1")
	require.NoError(t, err)
	assert.Nil(t, miss)

	require.NoError(t, c.Set(ctx, "page=1", []byte(`{"items":[]}`)))
	hit, err := c.Get(ctx, "page=1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(hit))

	require.NoError(t, c.Invalidate(ctx))
	gone, err := c.Get(ctx, "page=1")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestTicketNumberGenerator(t *testing.T) {
	ctx := context.Background()
	_, client := setupTestRedis(t)
	g := NewTicketNumberGenerator(client)
	day := time.Date(2025, 3, 9, 23, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return day }

	first, err := g.Generate(ctx)
	require.NoError(t, err)
	second, err := g.Generate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "TKT-20250309-0001", first)
	assert.Equal(t, "TKT-20250309-0002", second)

	day = day.Add(2 * time.Hour)
	next, err := g.Generate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "TKT-20250310-0001", next)
}
