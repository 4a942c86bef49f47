package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/rogerio-castellano/devstore-web/docs"
	"github.com/rogerio-castellano/devstore-web/internal/http/handlers"
	mw "github.com/rogerio-castellano/devstore-web/internal/http/middleware"
)

func NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.Recover)

	r.Get("/healthz", handlers.HealthHandler)
	r.Get("/metrics/cache", handlers.GetCacheMetricsHandler)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimit)
		r.Use(mw.CatalogMemo)

		r.Get("/", handlers.HomePageHandler)
		r.Get("/search", handlers.SearchPageHandler)
		r.Get("/product/{slug}", handlers.ProductPageHandler)
		r.Get("/api/static-paths", handlers.GetStaticPathsHandler)
	})

	r.NotFound(handlers.NotFoundHandler)
	return r
}
