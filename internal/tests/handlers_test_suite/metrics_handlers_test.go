package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/rogerio-castellano/devstore-web/internal/cache"
	api "github.com/rogerio-castellano/devstore-web/internal/http"
)

func TestCacheMetricsHandler(t *testing.T) {
	setupTestCatalog(t)
	r := api.NewRouter()

	get(r, "/search?q=moletom")
	get(r, "/search?q=moletom")
	get(r, "/api/static-paths")

	w := get(r, "/metrics/cache")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	var stats cache.Stats
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatalf("failed to decode metrics: %v", err)
	}
	if stats.Misses != 1 {
		t.Errorf("expected 1 miss, got %d", stats.Misses)
	}
	if stats.Hits != 1 {
		t.Errorf("expected 1 hit, got %d", stats.Hits)
	}
	if stats.Bypass != 1 {
		t.Errorf("expected 1 bypass, got %d", stats.Bypass)
	}
}
