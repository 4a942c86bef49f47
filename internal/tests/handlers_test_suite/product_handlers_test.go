package handlers_test_suite

import (
	"net/http"
	"strings"
	"testing"
	"time"

	api "github.com/rogerio-castellano/devstore-web/internal/http"
	"github.com/rogerio-castellano/devstore-web/internal/prerender"
)

func TestProductPageHandler_RendersProduct(t *testing.T) {
	setupTestCatalog(t)
	r := api.NewRouter()

	w := get(r, "/product/moletom-never-stop-learning")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		"<title>Moletom Never Stop Learning | devstore</title>",
		"Moletom fabricado com 88% de algodão e 12% de poliéster.",
		"R$\u00a0129",
		"Em 12x s/ juros de R$\u00a010,75",
		">P</button>",
		">M</button>",
		">G</button>",
		"Adicionar ao carrinho",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
}

func TestProductPageHandler_OneFetchPerPageView(t *testing.T) {
	f, _ := setupTestCatalog(t)
	r := api.NewRouter()

	get(r, "/product/moletom-java")
	if hits := f.Hits("/products/moletom-java"); hits != 1 {
		t.Fatalf("expected 1 upstream fetch on a cold cache, got %d", hits)
	}

	w := get(r, "/product/moletom-java")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	if hits := f.Hits("/products/moletom-java"); hits != 1 {
		t.Errorf("expected warm cache to avoid upstream fetches, got %d total", hits)
	}
}

func TestProductPageHandler_NotFound(t *testing.T) {
	setupTestCatalog(t)
	r := api.NewRouter()

	w := get(r, "/product/nao-existe")

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Produto não encontrado") {
		t.Errorf("expected the product not found page")
	}
}

func TestProductPageHandler_SchemaMismatch(t *testing.T) {
	setupTestCatalog(t)
	r := api.NewRouter()

	w := get(r, "/product/broken")

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}

func TestProductPageHandler_ServesFreshPrerenderedPage(t *testing.T) {
	f, pages := setupTestCatalog(t)
	pages.Put(prerender.Page{
		Slug:        "kit-nlw",
		HTML:        []byte("<html>prerendered kit</html>"),
		GeneratedAt: time.Now(),
	})
	r := api.NewRouter()

	w := get(r, "/product/kit-nlw")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	if w.Body.String() != "<html>prerendered kit</html>" {
		t.Errorf("expected the stored page, got %q", w.Body.String())
	}
	if hits := f.TotalHits(); hits != 0 {
		t.Errorf("expected no catalog fetches, got %d", hits)
	}
}

func TestProductPageHandler_RefreshesStalePrerenderedPage(t *testing.T) {
	f, pages := setupTestCatalog(t)
	old := time.Now().Add(-2 * time.Hour)
	pages.Put(prerender.Page{Slug: "kit-nlw", HTML: []byte("old"), GeneratedAt: old})
	r := api.NewRouter()

	w := get(r, "/product/kit-nlw")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Kit NLW") {
		t.Errorf("expected a freshly rendered page")
	}
	if hits := f.Hits("/products/kit-nlw"); hits != 1 {
		t.Errorf("expected 1 upstream fetch, got %d", hits)
	}

	page, ok := pages.Get("kit-nlw")
	if !ok || !page.GeneratedAt.After(old) {
		t.Errorf("expected the stored page to be refreshed")
	}
}

func TestProductPageHandler_PrerenderedFromFeatured(t *testing.T) {
	f, pages := setupTestCatalog(t)
	f.SetFeatured("moletom-never-stop-learning", "camiseta-dowhile-2022")

	n, err := prerender.NewPrerenderer(catalogClient, pages).Run(t.Context())
	if err != nil {
		t.Fatalf("prerender failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 pages, got %d", n)
	}

	before := f.TotalHits()
	r := api.NewRouter()
	w := get(r, "/product/camiseta-dowhile-2022")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	if w.Header().Get("X-Prerendered") != "1" {
		t.Errorf("expected the prerendered page")
	}
	if hits := f.TotalHits(); hits != before {
		t.Errorf("expected no new catalog fetches, got %d", hits-before)
	}
}
