package handlers_integrated_test_suite

import (
	"net/http"
	"strings"
	"testing"

	api "github.com/rogerio-castellano/devstore-web/internal/http"
	handler "github.com/rogerio-castellano/devstore-web/internal/http/handlers"
)

func TestProductPage_SharedRedisCacheAcrossInstances(t *testing.T) {
	rs := startRedis(t)
	c := newCountingCatalog(t)

	setupInstance(t, rs, c.URL)
	w := get(api.NewRouter(), "/product/caneca-devstore", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	if c.Hits() != 1 {
		t.Fatalf("expected 1 upstream fetch, got %d", c.Hits())
	}

	// A second process with its own in-memory state reads the same redis entries.
	setupInstance(t, rs, c.URL)
	w = get(api.NewRouter(), "/product/caneca-devstore", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Caneca devstore") {
		t.Errorf("expected the product title in the page")
	}
	if c.Hits() != 1 {
		t.Errorf("expected the second instance to be served from redis, got %d fetches", c.Hits())
	}
}

func TestStaticPaths_BypassRedisCache(t *testing.T) {
	rs := startRedis(t)
	c := newCountingCatalog(t)
	setupInstance(t, rs, c.URL)
	r := api.NewRouter()

	get(r, "/api/static-paths", "")
	get(r, "/api/static-paths", "")

	if c.Hits() != 2 {
		t.Errorf("expected every call to reach the catalog, got %d fetches", c.Hits())
	}
	keys, err := rs.Rdb().Keys(t.Context(), "devstore:test:*").Result()
	if err != nil {
		t.Fatalf("error listing keys: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("expected nothing cached for featured products, got %d keys", len(keys))
	}
}

func TestHealth_ReportsRedis(t *testing.T) {
	rs := startRedis(t)
	c := newCountingCatalog(t)
	setupInstance(t, rs, c.URL)

	w := get(api.NewRouter(), "/healthz", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	resp := decode[handler.HealthResponse](t, w)
	if resp.Status != "ok" || resp.Redis != "ok" {
		t.Errorf("expected ok/ok, got %s/%s", resp.Status, resp.Redis)
	}
}
