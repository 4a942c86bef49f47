package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rogerio-castellano/devstore-web/internal/cache"
	"github.com/rogerio-castellano/devstore-web/internal/catalog"
	handler "github.com/rogerio-castellano/devstore-web/internal/http/handlers"
	mw "github.com/rogerio-castellano/devstore-web/internal/http/middleware"
	rl "github.com/rogerio-castellano/devstore-web/internal/http/rate_limiter"
	"github.com/rogerio-castellano/devstore-web/internal/prerender"
)

type catalogProduct struct {
	ID          int     `json:"id"`
	Slug        string  `json:"slug"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Description string  `json:"description"`
}

var fixtureProducts = []catalogProduct{
	{ID: 1, Slug: "moletom-never-stop-learning", Title: "Moletom Never Stop Learning", Price: 129, Image: "/moletom-never-stop-learning.png", Description: "Moletom fabricado com 88% de algodão e 12% de poliéster."},
	{ID: 2, Slug: "moletom-java", Title: "Moletom Java", Price: 129, Image: "/moletom-java.png", Description: "Moletom fabricado com 88% de algodão e 12% de poliéster."},
	{ID: 3, Slug: "camiseta-dowhile-2022", Title: "Camiseta DoWhile 2022", Price: 69, Image: "/camiseta-dowhile-2022.png", Description: "Camiseta 100% algodão."},
	{ID: 4, Slug: "kit-nlw", Title: "Kit NLW", Price: 29990, Image: "/kit-nlw.png", Description: "Kit com camiseta, caneca e adesivos."},
}

// fakeCatalog serves the catalog API from fixtureProducts and counts every request by path.
type fakeCatalog struct {
	*httptest.Server

	mu       sync.Mutex
	hits     map[string]int
	featured []string
	failWith int
}

func (f *fakeCatalog) Hits(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *fakeCatalog) TotalHits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.hits {
		total += n
	}
	return total
}

// FailWith makes every following request answer with status.
func (f *fakeCatalog) FailWith(status int) {
	f.mu.Lock()
	f.failWith = status
	f.mu.Unlock()
}

func (f *fakeCatalog) SetFeatured(slugs ...string) {
	f.mu.Lock()
	f.featured = slugs
	f.mu.Unlock()
}

func (f *fakeCatalog) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.hits[r.URL.Path]++
	failWith := f.failWith
	featured := append([]string(nil), f.featured...)
	f.mu.Unlock()

	if failWith != 0 {
		http.Error(w, http.StatusText(failWith), failWith)
		return
	}

	switch {
	case r.URL.Path == "/products/search":
		q := strings.ToLower(r.URL.Query().Get("q"))
		found := []catalogProduct{}
		for _, p := range fixtureProducts {
			if strings.Contains(strings.ToLower(p.Title), q) {
				found = append(found, p)
			}
		}
		json.NewEncoder(w).Encode(found)
	case r.URL.Path == "/products/featured":
		list := []catalogProduct{}
		for _, slug := range featured {
			if p, ok := findProduct(slug); ok {
				list = append(list, p)
			}
		}
		json.NewEncoder(w).Encode(list)
	case r.URL.Path == "/products/broken":
		w.Write([]byte(`{"id": 9, "title": "no slug"`))
	case strings.HasPrefix(r.URL.Path, "/products/"):
		p, ok := findProduct(strings.TrimPrefix(r.URL.Path, "/products/"))
		if !ok {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(p)
	default:
		http.NotFound(w, r)
	}
}

func findProduct(slug string) (catalogProduct, bool) {
	for _, p := range fixtureProducts {
		if p.Slug == slug {
			return p, true
		}
	}
	return catalogProduct{}, false
}

var catalogClient *catalog.Client

func init() {
	rl.SetLimits(1000, 1000)
	mw.SetBanTracker(nil)
}

// setupTestCatalog points the handlers at a fresh fake catalog with empty caches.
func setupTestCatalog(t *testing.T) (*fakeCatalog, *prerender.PageStore) {
	t.Helper()

	f := &fakeCatalog{hits: make(map[string]int)}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)

	respCache := cache.New(cache.NewMemoryStore(cache.DefaultMaxEntries, 0))
	t.Cleanup(respCache.Wait)

	client, err := catalog.NewClient(f.URL, &http.Client{Timeout: 5 * time.Second}, respCache, time.Hour)
	if err != nil {
		t.Fatalf("error creating catalog client: %v", err)
	}

	catalogClient = client
	pages := prerender.NewPageStore()
	handler.SetProductCatalog(client)
	handler.SetResponseCache(respCache)
	handler.SetPageStore(pages)
	handler.SetPageRevalidate(time.Hour)
	t.Cleanup(rl.CleanupAllVisitors)

	return f, pages
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
