package handlers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rogerio-castellano/devstore-web/internal/obs"
	"github.com/rogerio-castellano/devstore-web/internal/prerender"
)

// ProductPageHandler renders GET /product/{slug}. Fresh pre-rendered pages are served
// as they are; anything else is rendered now, refreshing the stored copy for featured slugs.
func ProductPageHandler(w http.ResponseWriter, r *http.Request) {
	slug, err := slugParam(r)
	if err != nil || slug == "" {
		NotFoundHandler(w, r)
		return
	}

	var prerendered bool
	if pageStore != nil {
		page, ok := pageStore.Get(slug)
		if ok && pageRevalidate > 0 && time.Since(page.GeneratedAt) < pageRevalidate {
			w.Header().Set("X-Prerendered", "1")
			writeHTML(w, http.StatusOK, page.HTML)
			return
		}
		prerendered = ok
	}

	html, err := prerender.RenderPage(r.Context(), productCatalog, slug)
	if err != nil {
		renderFetchError(w, r, err)
		return
	}

	if prerendered {
		pageStore.Put(prerender.Page{Slug: slug, HTML: html, GeneratedAt: time.Now()})
		obs.Logger.Debug("prerendered_page_refreshed", "slug", slug)
	}
	writeHTML(w, http.StatusOK, html)
}

// slugParam returns the decoded slug. chi hands out the raw segment when the path
// carried escapes that differ from the default encoding.
func slugParam(r *http.Request) (string, error) {
	slug := chi.URLParam(r, "slug")
	if r.URL.RawPath == "" {
		return slug, nil
	}
	return url.PathUnescape(slug)
}
