package handlers_integrated_test_suite

import (
	"net/http"
	"testing"
	"time"

	api "github.com/rogerio-castellano/devstore-web/internal/http"
	"github.com/rogerio-castellano/devstore-web/internal/http/ban"
	mw "github.com/rogerio-castellano/devstore-web/internal/http/middleware"
	rl "github.com/rogerio-castellano/devstore-web/internal/http/rate_limiter"
)

func TestRateLimit_RepeatOffenderIsBanned(t *testing.T) {
	rs := startRedis(t)
	c := newCountingCatalog(t)
	setupInstance(t, rs, c.URL)

	rl.SetLimits(0.001, 1)
	mw.SetBanTracker(ban.NewTracker(rs.Rdb(), 2, time.Minute, time.Minute))
	t.Cleanup(func() { mw.SetBanTracker(nil) })
	r := api.NewRouter()

	const visitor = "10.9.9.9:4000"
	if w := get(r, "/search?q=caneca", visitor); w.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", w.Code)
	}
	for i := range 2 {
		if w := get(r, "/search?q=caneca", visitor); w.Code != http.StatusTooManyRequests {
			t.Fatalf("request %d: expected 429, got %d", i+2, w.Code)
		}
	}

	if w := get(r, "/search?q=caneca", visitor); w.Code != http.StatusForbidden {
		t.Errorf("expected banned visitor to get 403, got %d", w.Code)
	}
	if w := get(r, "/search?q=caneca", "10.8.8.8:4000"); w.Code != http.StatusOK {
		t.Errorf("expected other visitors to pass, got %d", w.Code)
	}

	n, err := rs.Rdb().LLen(t.Context(), ban.DailyBanLogKey).Result()
	if err != nil {
		t.Fatalf("error reading ban log: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 ban log entry, got %d", n)
	}
}
