package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_TIMEOUT", "")
	t.Setenv("PAGE_CACHE", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port got %q", cfg.Port)
	}
	if cfg.DBTimeout != 5*time.Second {
		t.Fatalf("expected 5s timeout got %v", cfg.DBTimeout)
	}
	if cfg.PageCache != "memory" {
		t.Fatalf("expected memory page cache got %q", cfg.PageCache)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_TIMEOUT", "250ms")
	t.Setenv("MIGRATIONS", "true")
	t.Setenv("PAGE_CACHE", "redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("APP_ENV", "production")
	cfg := Load()
	if cfg.Port != "9090" || cfg.DBTimeout != 250*time.Millisecond || !cfg.Migrations {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.PageCache != "redis" || cfg.RedisDB != 3 {
		t.Fatalf("redis settings not applied: %+v", cfg)
	}
	if cfg.IsDevelopment() {
		t.Fatalf("production should not be development")
	}
}

func TestInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("DB_TIMEOUT", "soon")
	if got := Load().DBTimeout; got != 5*time.Second {
		t.Fatalf("expected fallback 5s got %v", got)
	}
}
