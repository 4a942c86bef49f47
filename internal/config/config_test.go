package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"HTTP_ADDR", "CATALOG_URL", "CATALOG_TIMEOUT", "CATALOG_REVALIDATE",
		"REDIS_ADDR", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "PRERENDER_ON_START",
	} {
		t.Setenv(k, "")
	}

	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr default, got %q", c.HTTPAddr)
	}
	if c.CatalogURL != "http://localhost:3333" {
		t.Fatalf("CatalogURL default, got %q", c.CatalogURL)
	}
	if c.CatalogRevalidate != time.Hour {
		t.Fatalf("CatalogRevalidate default, got %v", c.CatalogRevalidate)
	}
	if c.CatalogTimeout != 10*time.Second {
		t.Fatalf("CatalogTimeout default, got %v", c.CatalogTimeout)
	}
	if c.RedisAddr != "" {
		t.Fatalf("RedisAddr default should be empty")
	}
	if !c.PrerenderOnStart {
		t.Fatalf("PrerenderOnStart default should be true")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("CATALOG_URL", "https://api.devstore.test/")
	t.Setenv("CATALOG_REVALIDATE", "30s")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("RATE_LIMIT_BURST", "7")
	t.Setenv("PRERENDER_ON_START", "false")

	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.HTTPAddr != ":9090" {
		t.Fatalf("HTTPAddr env, got %q", c.HTTPAddr)
	}
	if c.CatalogURL != "https://api.devstore.test" {
		t.Fatalf("CatalogURL should drop trailing slash, got %q", c.CatalogURL)
	}
	if c.CatalogRevalidate != 30*time.Second {
		t.Fatalf("CatalogRevalidate env, got %v", c.CatalogRevalidate)
	}
	if c.RedisAddr != "redis:6379" {
		t.Fatalf("RedisAddr env, got %q", c.RedisAddr)
	}
	if c.RateLimitBurst != 7 {
		t.Fatalf("RateLimitBurst env, got %d", c.RateLimitBurst)
	}
	if c.PrerenderOnStart {
		t.Fatalf("PrerenderOnStart env should be false")
	}
}

func TestLoadRejectsRelativeCatalogURL(t *testing.T) {
	t.Setenv("CATALOG_URL", "/products")

	if _, err := Load(); err == nil {
		t.Fatalf("expected an error for a relative catalog URL")
	}
}

func TestLoadCacheMaxEntries(t *testing.T) {
	t.Setenv("CACHE_MAX_ENTRIES", "")
	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.CacheMaxEntries != 10000 {
		t.Fatalf("CacheMaxEntries default, got %d", c.CacheMaxEntries)
	}

	t.Setenv("CACHE_MAX_ENTRIES", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected an error for a zero CACHE_MAX_ENTRIES")
	}
}
