package handlers_integrated_test_suite

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/rogerio-castellano/devstore-web/internal/cache"
	"github.com/rogerio-castellano/devstore-web/internal/catalog"
	handler "github.com/rogerio-castellano/devstore-web/internal/http/handlers"
	mw "github.com/rogerio-castellano/devstore-web/internal/http/middleware"
	rl "github.com/rogerio-castellano/devstore-web/internal/http/rate_limiter"
	"github.com/rogerio-castellano/devstore-web/internal/prerender"
	"github.com/rogerio-castellano/devstore-web/internal/redissvc"
)

const productJSON = `{"id": 7, "slug": "caneca-devstore", "title": "Caneca devstore", "price": 49.9, "image": "/caneca.png", "description": "Caneca de cerâmica."}`

// countingCatalog serves a single product and counts requests.
type countingCatalog struct {
	*httptest.Server
	mu   sync.Mutex
	hits int
}

func (c *countingCatalog) Hits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}

func newCountingCatalog(t *testing.T) *countingCatalog {
	t.Helper()
	c := &countingCatalog{}
	c.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()

		switch {
		case r.URL.Path == "/products/featured":
			w.Write([]byte("[" + productJSON + "]"))
		case r.URL.Path == "/products/caneca-devstore":
			w.Write([]byte(productJSON))
		case strings.HasPrefix(r.URL.Path, "/products/search"):
			w.Write([]byte("[" + productJSON + "]"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(c.Close)
	return c
}

// startRedis uses REDIS_ADDR when set and a throwaway container otherwise.
func startRedis(t *testing.T) *redissvc.RedisService {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis backed suite in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		testcontainers.SkipIfProviderIsNotHealthy(t)

		container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "redis:7-alpine",
				ExposedPorts: []string{"6379/tcp"},
				WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
			},
			Started: true,
		})
		if err != nil {
			t.Fatalf("could not start redis: %v", err)
		}
		t.Cleanup(func() {
			cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cleanupCancel()
			_ = container.Terminate(cleanupCtx)
		})

		host, err := container.Host(ctx)
		if err != nil {
			t.Fatalf("redis host: %v", err)
		}
		port, err := container.MappedPort(ctx, "6379")
		if err != nil {
			t.Fatalf("redis port: %v", err)
		}
		addr = host + ":" + port.Port()
	}

	rs := redissvc.NewRedisService(addr, "", 0)
	if err := rs.Ping(ctx); err != nil {
		t.Fatalf("could not connect to redis: %v", err)
	}
	if err := rs.Rdb().FlushDB(ctx).Err(); err != nil {
		t.Fatalf("could not flush redis: %v", err)
	}
	t.Cleanup(func() { rs.Close() })
	return rs
}

// setupInstance wires the handlers the way one server process would, with its
// response cache kept in redis under prefix.
func setupInstance(t *testing.T, rs *redissvc.RedisService, catalogURL string) *cache.Cache {
	t.Helper()

	respCache := cache.New(cache.NewRedisStore(rs.Rdb(), "devstore:test:", time.Hour))
	t.Cleanup(respCache.Wait)

	client, err := catalog.NewClient(catalogURL, &http.Client{Timeout: 5 * time.Second}, respCache, time.Hour)
	if err != nil {
		t.Fatalf("error creating catalog client: %v", err)
	}

	handler.SetProductCatalog(client)
	handler.SetResponseCache(respCache)
	handler.SetPageStore(prerender.NewPageStore())
	handler.SetRedisService(rs)
	t.Cleanup(func() { handler.SetRedisService(nil) })

	rl.SetLimits(1000, 1000)
	t.Cleanup(rl.CleanupAllVisitors)
	mw.SetBanTracker(nil)
	return respCache
}

func get(r http.Handler, target, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	return v
}
