package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	ctx := context.Background()
	if _, ok, _ := c.Get(ctx, "/dashboard/invoices", "en"); ok {
		t.Fatalf("expected miss on empty cache")
	}
	_ = c.Set(ctx, "/dashboard/invoices", "en", 0, []byte("page"))
	b, ok, err := c.Get(ctx, "/dashboard/invoices", "en")
	if err != nil || !ok || string(b) != "page" {
		t.Fatalf("expected hit got ok=%v b=%q err=%v", ok, b, err)
	}
	if _, ok, _ := c.Get(ctx, "/dashboard/invoices", "fr"); ok {
		t.Fatalf("variants must be independent")
	}
}

func TestMemoryCacheInvalidateDropsAllVariants(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	ctx := context.Background()
	_ = c.Set(ctx, "a", "en", 0, []byte("1"))
	_ = c.Set(ctx, "a", "fr", 0, []byte("1"))
	_ = c.Set(ctx, "b", "en", 0, []byte("2"))
	if err := c.Invalidate(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	for _, variant := range []string{"en", "fr"} {
		if _, ok, _ := c.Get(ctx, "a", variant); ok {
			t.Fatalf("expected a/%s to be invalidated", variant)
		}
	}
	if _, ok, _ := c.Get(ctx, "b", "en"); !ok {
		t.Fatalf("b should survive")
	}
}

func TestMemoryCacheDropsPageFromOlderGeneration(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	ctx := context.Background()
	gen, _ := c.Generation(ctx, "a")
	// a write lands between the reader's query and its Set
	_ = c.Invalidate(ctx, "a")
	_ = c.Set(ctx, "a", "en", gen, []byte("old rows"))
	if _, ok, _ := c.Get(ctx, "a", "en"); ok {
		t.Fatalf("page rendered before the invalidation must not be cached")
	}

	gen, _ = c.Generation(ctx, "a")
	_ = c.Set(ctx, "a", "en", gen, []byte("new rows"))
	if b, ok, _ := c.Get(ctx, "a", "en"); !ok || string(b) != "new rows" {
		t.Fatalf("expected fresh page to be cached, got ok=%v %q", ok, b)
	}
	if other, _ := c.Generation(ctx, "b"); other != 0 {
		t.Fatalf("generations are per view, got %d", other)
	}
}

func TestMemoryCacheTTLExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()
	_ = c.Set(ctx, "a", "en", 0, []byte("1"))
	now = now.Add(2 * time.Minute)
	if _, ok, _ := c.Get(ctx, "a", "en"); ok {
		t.Fatalf("expected expiry")
	}
}
