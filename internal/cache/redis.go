package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	pageKeyPrefix = "page:"
	genKeyPrefix  = "pagegen:"
)

var errStaleGeneration = errors.New("page generation changed")

// RedisCache shares rendered pages between dashboard instances. Each view is one
// hash keyed by variant, so invalidation is a single DEL, plus a generation counter
// that is bumped in the same transaction.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisCache wraps an existing client.
func NewRedisCache(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// DialRedis connects and pings the server before returning the cache.
func DialRedis(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisCache, *redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return NewRedisCache(client, ttl), client, nil
}

func (c *RedisCache) Get(ctx context.Context, view, variant string) ([]byte, bool, error) {
	b, err := c.client.HGet(ctx, pageKeyPrefix+view, variant).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (c *RedisCache) Generation(ctx context.Context, view string) (uint64, error) {
	return readGeneration(ctx, c.client, genKeyPrefix+view)
}

// Set stores page under a WATCH on the generation key, so a concurrent Invalidate
// either happens before (and the page is dropped) or after (and deletes it).
func (c *RedisCache) Set(ctx context.Context, view, variant string, gen uint64, page []byte) error {
	key, genKey := pageKeyPrefix+view, genKeyPrefix+view
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := readGeneration(ctx, tx, genKey)
		if err != nil {
			return err
		}
		if cur != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, variant, page)
			pipe.Expire(ctx, key, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, errStaleGeneration) || errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

func (c *RedisCache) Invalidate(ctx context.Context, view string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKeyPrefix+view)
		pipe.Del(ctx, pageKeyPrefix+view)
		return nil
	})
	return err
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGeneration(ctx context.Context, r stringGetter, key string) (uint64, error) {
	gen, err := r.Get(ctx, key).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}
