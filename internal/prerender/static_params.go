// Package prerender produces product pages ahead of traffic for the slugs the catalog
// publishes as featured. Which slugs are featured is the catalog's decision.
package prerender

import (
	"context"
	"fmt"

	"github.com/rogerio-castellano/devstore-web/internal/models"
)

// StaticParam identifies one pre-renderable product page.
type StaticParam struct {
	Slug string `json:"slug"`
}

// FeaturedSource lists the featured products. It must not serve cached data.
type FeaturedSource interface {
	FeaturedProducts(ctx context.Context) ([]models.Product, error)
}

// GenerateStaticParams returns one param per featured product, in catalog order.
// Empty and repeated slugs are dropped.
func GenerateStaticParams(ctx context.Context, src FeaturedSource) ([]StaticParam, error) {
	products, err := src.FeaturedProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch featured products: %w", err)
	}

	params := make([]StaticParam, 0, len(products))
	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		if p.Slug == "" {
			continue
		}
		if _, dup := seen[p.Slug]; dup {
			continue
		}
		seen[p.Slug] = struct{}{}
		params = append(params, StaticParam{Slug: p.Slug})
	}
	return params, nil
}
