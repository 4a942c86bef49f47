package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/devstore-web/internal/cache"
	"github.com/rogerio-castellano/devstore-web/internal/obs"
)

// GetCacheMetricsHandler godoc
// @Summary Response cache counters
// @Tags metrics
// @Produce json
// @Success 200 {object} cache.Stats
// @Router /metrics/cache [get]
func GetCacheMetricsHandler(w http.ResponseWriter, r *http.Request) {
	var stats cache.Stats
	if responseCache != nil {
		stats = responseCache.Stats()
	}
	if err := writeJSON(w, http.StatusOK, stats); err != nil {
		obs.Logger.Error("write_response_failed", "error", err)
	}
}

type HealthResponse struct {
	Status string `json:"status"`
	Redis  string `json:"redis,omitempty"`
}

// HealthHandler godoc
// @Summary Liveness check
// @Description Reports "ok", and the redis connection state when redis is configured.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /healthz [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	status := http.StatusOK

	if redisService != nil {
		if err := redisService.Ping(r.Context()); err != nil {
			obs.Logger.Warn("health_redis_down", "error", err)
			resp.Status = "degraded"
			resp.Redis = "down"
			status = http.StatusServiceUnavailable
		} else {
			resp.Redis = "ok"
		}
	}

	if err := writeJSON(w, status, resp); err != nil {
		obs.Logger.Error("write_response_failed", "error", err)
	}
}
