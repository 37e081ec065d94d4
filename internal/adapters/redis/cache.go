package redisad

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"

	"lite_pages/internal/adapters/observability"
)

const cacheName = "content"

// Cache is a JSON cache over Redis.
type Cache struct {
	c      redis.UniversalClient
	prefix string
}

func New(addr, pass string, db int) *Cache {
	return NewFromClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}))
}

func NewFromClient(c redis.UniversalClient) *Cache {
	return &Cache{c: c, prefix: "lite:"}
}

func (r *Cache) Ping(ctx context.Context) error {
	return errors.Wrap(r.c.Ping(ctx).Err(), "redis ping")
}

func (r *Cache) Close() error { return r.c.Close() }

func (r *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, err := r.c.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.ObserveCache(cacheName, "miss")
		return false, nil
	}
	if err != nil {
		observability.ObserveCache(cacheName, "error")
		return false, errors.Wrap(err, "redis get")
	}
	if err := json.Unmarshal(v, dst); err != nil {
		// a stale shape is a miss, not a failure
		observability.ObserveCache(cacheName, "miss")
		return false, errors.Wrapf(err, "decode %s", key)
	}
	observability.ObserveCache(cacheName, "hit")
	return true, nil
}

func (r *Cache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}
	observability.ObserveCache(cacheName, "set")
	return errors.Wrap(r.c.Set(ctx, r.prefix+key, b, time.Duration(ttlSec)*time.Second).Err(), "redis set")
}
