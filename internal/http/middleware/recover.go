package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/rogerio-castellano/devstore-web/internal/obs"
)

func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				obs.Logger.Error("panic_recovered",
					"panic", rec,
					"path", r.URL.Path,
					"request_id", obs.RequestIDFromContext(r.Context()),
					"stack", string(debug.Stack()),
				)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
