package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	api "github.com/rogerio-castellano/devstore-web/internal/http"
	handler "github.com/rogerio-castellano/devstore-web/internal/http/handlers"
	"github.com/rogerio-castellano/devstore-web/internal/obs"
)

func TestHealthz(t *testing.T) {
	handler.SetRedisService(nil)
	r := api.NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var resp handler.HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %q", resp.Status)
	}
	if w.Header().Get(obs.HeaderRequestID) == "" {
		t.Errorf("expected a request id header")
	}
}

func TestUnknownRouteRendersNotFoundPage(t *testing.T) {
	r := api.NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Content-Type"), "text/html") {
		t.Errorf("expected an html error page, got %q", w.Header().Get("Content-Type"))
	}
}

func TestPageRoutesAreGetOnly(t *testing.T) {
	r := api.NewRouter()

	for _, path := range []string{"/search?q=x", "/product/camiseta"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST %s: expected 405, got %d", path, w.Code)
		}
	}
}

func TestSwaggerDocIsServed(t *testing.T) {
	r := api.NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "/api/static-paths") {
		t.Errorf("expected the static paths endpoint in the swagger doc")
	}
}
