package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/devstore-web/internal/obs"
	"github.com/rogerio-castellano/devstore-web/internal/prerender"
)

// GetStaticPathsHandler godoc
// @Summary List product pages to pre-render
// @Description One entry per featured product, in catalog order. Always read fresh from the catalog.
// @Tags prerender
// @Produce json
// @Success 200 {array} prerender.StaticParam
// @Failure 502 {string} string "Catalog unavailable"
// @Router /api/static-paths [get]
func GetStaticPathsHandler(w http.ResponseWriter, r *http.Request) {
	params, err := prerender.GenerateStaticParams(r.Context(), productCatalog)
	if err != nil {
		obs.Logger.Error("static_paths_failed", "error", err, "request_id", obs.RequestIDFromContext(r.Context()))
		http.Error(w, "failed to fetch featured products", http.StatusBadGateway)
		return
	}
	if err := writeJSON(w, http.StatusOK, params); err != nil {
		obs.Logger.Error("write_response_failed", "error", err)
	}
}
