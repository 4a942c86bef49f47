package handlers

import (
	"context"
	"time"

	"github.com/rogerio-castellano/devstore-web/internal/cache"
	"github.com/rogerio-castellano/devstore-web/internal/models"
	"github.com/rogerio-castellano/devstore-web/internal/prerender"
	"github.com/rogerio-castellano/devstore-web/internal/redissvc"
)

// ProductCatalog is what the page handlers need from the catalog client.
type ProductCatalog interface {
	prerender.Catalog
	SearchProducts(ctx context.Context, query string) ([]models.Product, error)
}

var (
	productCatalog ProductCatalog
	pageStore      *prerender.PageStore
	responseCache  *cache.Cache
	redisService   *redissvc.RedisService

	// pageRevalidate is how long a pre-rendered page is served before it is rendered again.
	pageRevalidate = time.Hour
)

func SetProductCatalog(c ProductCatalog) {
	productCatalog = c
}

func SetPageStore(s *prerender.PageStore) {
	pageStore = s
}

func SetResponseCache(c *cache.Cache) {
	responseCache = c
}

func SetPageRevalidate(d time.Duration) {
	pageRevalidate = d
}

// SetRedisService enables the redis check of the health endpoint. A nil service disables it.
func SetRedisService(rs *redissvc.RedisService) {
	redisService = rs
}
