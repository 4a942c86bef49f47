package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/rogerio-castellano/devstore-web/internal/obs"
)

// RequestID reuses the caller's X-Request-Id or assigns a new one, echoes it on the
// response and stores it in the request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(obs.HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(obs.HeaderRequestID, reqID)
		next.ServeHTTP(w, r.WithContext(obs.WithRequestID(r.Context(), reqID)))
	})
}
