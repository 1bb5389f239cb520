package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CounterStore keeps integer counters that may be missing or stale; callers
// treat a miss as "recompute from the source of truth".
type CounterStore interface {
	Get(ctx context.Context, key string) (int64, bool, error)
	Set(ctx context.Context, key string, value int64) error
	// Version changes whenever an adjustment finds the counter missing or the
	// counter is deleted. Read it before recomputing and hand it to Fill.
	Version(ctx context.Context, key string) (int64, error)
	// Fill stores a recomputed value only if the counter is still missing and
	// the version has not moved, so a write racing the recount is not lost.
	Fill(ctx context.Context, key string, value, version int64) (bool, error)
	// Incr adjusts an existing counter by delta, never below zero. Missing
	// counters are left missing.
	Incr(ctx context.Context, key string, delta int64) error
	Delete(ctx context.Context, key string) error
}

var adjustScript = redis.NewScript(`
	if redis.call("exists", KEYS[1]) == 0 then
		redis.call("incr", KEYS[2])
		redis.call("expire", KEYS[2], ARGV[2])
		return -1
	end
	local v = redis.call("incrby", KEYS[1], ARGV[1])
	if v < 0 then
		redis.call("incrby", KEYS[1], -v)
		v = 0
	end
	return v
`)

var fillScript = redis.NewScript(`
	local version = tonumber(redis.call("get", KEYS[2]) or "0")
	if version ~= tonumber(ARGV[2]) or redis.call("exists", KEYS[1]) == 1 then
		return 0
	end
	redis.call("set", KEYS[1], ARGV[1], "EX", ARGV[3])
	return 1
`)

var dropScript = redis.NewScript(`
	redis.call("del", KEYS[1])
	redis.call("incr", KEYS[2])
	redis.call("expire", KEYS[2], ARGV[1])
	return 1
`)

type RedisCounters struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCounters(client *redis.Client, prefix string, ttl time.Duration) *RedisCounters {
	return &RedisCounters{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisCounters) key(key string) string {
	return c.prefix + ":" + key
}

func (c *RedisCounters) keys(key string) []string {
	return []string{c.key(key), c.key(key) + ":version"}
}

// ttlSeconds is also the lifetime of the version key. An expired version
// reads as zero and only makes a pending Fill give up.
func (c *RedisCounters) ttlSeconds() int64 {
	if s := int64(c.ttl / time.Second); s > 0 {
		return s
	}
	return 1
}

func (c *RedisCounters) Get(ctx context.Context, key string) (int64, bool, error) {
	v, err := c.client.Get(ctx, c.key(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read counter %s: %w", key, err)
	}
	return v, true, nil
}

func (c *RedisCounters) Set(ctx context.Context, key string, value int64) error {
	if err := c.client.Set(ctx, c.key(key), value, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set counter %s: %w", key, err)
	}
	return nil
}

func (c *RedisCounters) Version(ctx context.Context, key string) (int64, error) {
	v, err := c.client.Get(ctx, c.keys(key)[1]).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read counter version %s: %w", key, err)
	}
	return v, nil
}

func (c *RedisCounters) Fill(ctx context.Context, key string, value, version int64) (bool, error) {
	filled, err := fillScript.Run(ctx, c.client, c.keys(key), value, version, c.ttlSeconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("failed to fill counter %s: %w", key, err)
	}
	return filled == 1, nil
}

func (c *RedisCounters) Incr(ctx context.Context, key string, delta int64) error {
	if err := adjustScript.Run(ctx, c.client, c.keys(key), delta, c.ttlSeconds()).Err(); err != nil {
		return fmt.Errorf("failed to adjust counter %s: %w", key, err)
	}
	return nil
}

func (c *RedisCounters) Delete(ctx context.Context, key string) error {
	if err := dropScript.Run(ctx, c.client, c.keys(key), c.ttlSeconds()).Err(); err != nil {
		return fmt.Errorf("failed to delete counter %s: %w", key, err)
	}
	return nil
}
