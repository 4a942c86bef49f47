package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/rogerio-castellano/devstore-web/internal/models"
)

// SearchProducts calls GET /products/search?q=<query>. Ranking is owned by the catalog;
// the returned order is preserved.
func (c *Client) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	body, err := c.get(ctx, "/products/search", url.Values{"q": {query}}.Encode(), Directive{Revalidate: c.revalidate})
	if err != nil {
		return nil, err
	}
	return decodeProducts(body)
}

// GetProduct calls GET /products/<slug>.
func (c *Client) GetProduct(ctx context.Context, slug string) (models.Product, error) {
	body, err := c.get(ctx, "/products/"+url.PathEscape(slug), "", Directive{Revalidate: c.revalidate})
	if err != nil {
		return models.Product{}, err
	}
	return decodeProduct(body)
}

// FeaturedProducts calls GET /products/featured, bypassing the response cache.
func (c *Client) FeaturedProducts(ctx context.Context) ([]models.Product, error) {
	body, err := c.get(ctx, "/products/featured", "", NoStore)
	if err != nil {
		return nil, err
	}
	return decodeProducts(body)
}

func decodeProduct(body []byte) (models.Product, error) {
	var p models.Product
	if err := json.Unmarshal(body, &p); err != nil {
		return models.Product{}, fmt.Errorf("%w: %w", ErrSchemaMismatch, err)
	}
	if err := validateProduct(p); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func decodeProducts(body []byte) ([]models.Product, error) {
	var products []models.Product
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaMismatch, err)
	}
	for i, p := range products {
		if err := validateProduct(p); err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

func validateProduct(p models.Product) error {
	if p.Slug == "" {
		return fmt.Errorf("%w: product without slug", ErrSchemaMismatch)
	}
	return nil
}
