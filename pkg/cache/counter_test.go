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
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return mr, client
}

func TestRedisCounters_MissThenSet(t *testing.T) {
	_, client := setupTestRedis(t)
	c := NewRedisCounters(client, "unread", time.Hour)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "u-1", 3))
	v, ok, err := c.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(3), v)
}

func TestRedisCounters_IncrLeavesMissingKeysAlone(t *testing.T) {
	mr, client := setupTestRedis(t)
	c := NewRedisCounters(client, "unread", time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Incr(ctx, "u-1", 1))
	assert.False(t, mr.Exists("unread:u-1"))
}

func TestRedisCounters_IncrClampsAtZero(t *testing.T) {
	_, client := setupTestRedis(t)
	c := NewRedisCounters(client, "unread", time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "u-1", 1))
	require.NoError(t, c.Incr(ctx, "u-1", 2))
	require.NoError(t, c.Incr(ctx, "u-1", -5))

	v, ok, err := c.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(0), v)
}

func TestRedisCounters_TTLAndDelete(t *testing.T) {
	mr, client := setupTestRedis(t)
	c := NewRedisCounters(client, "unread", time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "u-1", 4))
	mr.FastForward(2 * time.Minute)
	_, ok, err := c.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.False(t, ok, "counter should expire")

	require.NoError(t, c.Set(ctx, "u-1", 4))
	require.NoError(t, c.Delete(ctx, "u-1"))
	_, ok, _ = c.Get(ctx, "u-1")
	assert.False(t, ok)
}

func TestRedisCounters_FillOnlyWhenUntouched(t *testing.T) {
	_, client := setupTestRedis(t)
	c := NewRedisCounters(client, "unread", time.Hour)
	ctx := context.Background()

	version, err := c.Version(ctx, "u-1")
	require.NoError(t, err)

	// An adjustment that finds the counter missing moves the version.
	require.NoError(t, c.Incr(ctx, "u-1", 1))
	filled, err := c.Fill(ctx, "u-1", 3, version)
	require.NoError(t, err)
	assert.False(t, filled)
	_, ok, _ := c.Get(ctx, "u-1")
	assert.False(t, ok)

	version, err = c.Version(ctx, "u-1")
	require.NoError(t, err)
	filled, err = c.Fill(ctx, "u-1", 4, version)
	require.NoError(t, err)
	assert.True(t, filled)

	// A counter that already exists is never overwritten.
	filled, err = c.Fill(ctx, "u-1", 9, version)
	require.NoError(t, err)
	assert.False(t, filled)
	v, _, _ := c.Get(ctx, "u-1")
	assert.Equal(t, int64(4), v)
}

func TestRedisCounters_DeleteMovesVersion(t *testing.T) {
	mr, client := setupTestRedis(t)
	c := NewRedisCounters(client, "unread", time.Minute)
	ctx := context.Background()

	before, err := c.Version(ctx, "u-1")
	require.NoError(t, err)
	require.NoError(t, c.Delete(ctx, "u-1"))

	after, err := c.Version(ctx, "u-1")
	require.NoError(t, err)
	assert.Greater(t, after, before)
	assert.Greater(t, mr.TTL("unread:u-1:version"), time.Duration(0))
}

func TestRedisCounters_ErrorWhenServerDown(t *testing.T) {
	mr, client := setupTestRedis(t)
	c := NewRedisCounters(client, "unread", time.Minute)
	mr.Close()

	_, _, err := c.Get(context.Background(), "u-1")
	assert.Error(t, err)
}
