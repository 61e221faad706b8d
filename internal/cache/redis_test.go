package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisCache(t *testing.T, ttl time.Duration) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, ttl), mr
}

func TestRedisCacheSetGet(t *testing.T) {
	c, _ := newTestRedisCache(t, time.Minute)
	ctx := context.Background()
	if _, ok, err := c.Get(ctx, "/dashboard/invoices", "en"); ok || err != nil {
		t.Fatalf("expected clean miss got ok=%v err=%v", ok, err)
	}
	gen, err := c.Generation(ctx, "/dashboard/invoices")
	if err != nil || gen != 0 {
		t.Fatalf("expected generation 0 got %d %v", gen, err)
	}
	if err := c.Set(ctx, "/dashboard/invoices", "en", gen, []byte("page")); err != nil {
		t.Fatalf("set: %v", err)
	}
	b, ok, err := c.Get(ctx, "/dashboard/invoices", "en")
	if err != nil || !ok || string(b) != "page" {
		t.Fatalf("expected hit got ok=%v b=%q err=%v", ok, b, err)
	}
	if _, ok, _ := c.Get(ctx, "/dashboard/invoices", "fr"); ok {
		t.Fatalf("variants must be independent")
	}
}

func TestRedisCacheAppliesTTL(t *testing.T) {
	c, mr := newTestRedisCache(t, 30*time.Second)
	ctx := context.Background()
	if err := c.Set(ctx, "a", "en", 0, []byte("1")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ttl := mr.TTL(pageKeyPrefix + "a"); ttl != 30*time.Second {
		t.Fatalf("expected 30s ttl got %s", ttl)
	}
	mr.FastForward(31 * time.Second)
	if _, ok, _ := c.Get(ctx, "a", "en"); ok {
		t.Fatalf("expected expiry")
	}
}

func TestRedisCacheInvalidateDropsAllVariants(t *testing.T) {
	c, mr := newTestRedisCache(t, time.Minute)
	ctx := context.Background()
	_ = c.Set(ctx, "a", "en", 0, []byte("1"))
	_ = c.Set(ctx, "a", "fr", 0, []byte("1"))
	_ = c.Set(ctx, "b", "en", 0, []byte("2"))
	if err := c.Invalidate(ctx, "a"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if mr.Exists(pageKeyPrefix + "a") {
		t.Fatalf("page hash should be deleted")
	}
	for _, variant := range []string{"en", "fr"} {
		if _, ok, _ := c.Get(ctx, "a", variant); ok {
			t.Fatalf("expected a/%s to be invalidated", variant)
		}
	}
	if _, ok, _ := c.Get(ctx, "b", "en"); !ok {
		t.Fatalf("b should survive")
	}
	if gen, _ := c.Generation(ctx, "a"); gen != 1 {
		t.Fatalf("expected generation 1 got %d", gen)
	}
}

func TestRedisCacheDropsPageFromOlderGeneration(t *testing.T) {
	c, _ := newTestRedisCache(t, time.Minute)
	ctx := context.Background()
	gen, _ := c.Generation(ctx, "a")
	if err := c.Invalidate(ctx, "a"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if err := c.Set(ctx, "a", "en", gen, []byte("old rows")); err != nil {
		t.Fatalf("stale set should be dropped silently, got %v", err)
	}
	if _, ok, _ := c.Get(ctx, "a", "en"); ok {
		t.Fatalf("page rendered before the invalidation must not be cached")
	}
}

func TestRedisCacheSurfacesServerErrors(t *testing.T) {
	c, mr := newTestRedisCache(t, time.Minute)
	mr.SetError("ERR server down")
	ctx := context.Background()
	if err := c.Invalidate(ctx, "a"); err == nil {
		t.Fatalf("expected invalidate error")
	}
	if _, _, err := c.Get(ctx, "a", "en"); err == nil {
		t.Fatalf("expected get error")
	}
}

func TestDialRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	c, client, err := DialRedis(context.Background(), mr.Addr(), "", 0, time.Minute)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()
	if err := c.Set(context.Background(), "a", "en", 0, []byte("1")); err != nil {
		t.Fatalf("set: %v", err)
	}

	addr := mr.Addr()
	mr.Close()
	if _, _, err := DialRedis(context.Background(), addr, "", 0, time.Minute); err == nil {
		t.Fatalf("expected dial error against a stopped server")
	}
}
