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

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestTokenStore(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewTokenStore(client)
	ctx := context.Background()

	token, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Set(ctx, "abc", time.Hour))
	token, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", token)
	assert.Equal(t, time.Hour, mr.TTL(identityTokenKey))

	require.NoError(t, store.Clear(ctx))
	token, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestTokenStore_Expires(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewTokenStore(client)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "abc", time.Minute))
	mr.FastForward(2 * time.Minute)

	token, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestUpdateStore_MarkSeen(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewUpdateStore(client, time.Hour)
	ctx := context.Background()

	fresh, err := store.MarkSeen(ctx, 10)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = store.MarkSeen(ctx, 10)
	require.NoError(t, err)
	assert.False(t, fresh)

	fresh, err = store.MarkSeen(ctx, 11)
	require.NoError(t, err)
	assert.True(t, fresh)

	mr.FastForward(2 * time.Hour)
	fresh, err = store.MarkSeen(ctx, 10)
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestTokenStore_RedisDown(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewTokenStore(client)
	mr.Close()

	_, err := store.Get(context.Background())
	assert.Error(t, err)
}
