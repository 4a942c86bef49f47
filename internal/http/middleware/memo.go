package middleware

import (
	"net/http"

	"github.com/rogerio-castellano/devstore-web/internal/catalog"
)

// CatalogMemo gives every request its own catalog lookup memo, so a page that resolves
// the same catalog URL twice hits the upstream once.
func CatalogMemo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(catalog.WithRequestMemo(r.Context())))
	})
}
