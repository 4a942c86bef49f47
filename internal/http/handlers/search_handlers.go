package handlers

import (
	"bytes"
	"net/http"

	"github.com/rogerio-castellano/devstore-web/internal/views"
)

// SearchPageHandler renders the results of GET /search?q=. A missing or empty query
// sends the visitor back to the home page without touching the catalog.
func SearchPageHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	products, err := productCatalog.SearchProducts(r.Context(), query)
	if err != nil {
		renderFetchError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := views.RenderSearch(&buf, query, products); err != nil {
		renderFetchError(w, r, err)
		return
	}
	writeHTML(w, http.StatusOK, buf.Bytes())
}
