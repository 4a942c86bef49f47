package prerender

import (
	"bytes"
	"context"
	"time"

	"github.com/rogerio-castellano/devstore-web/internal/catalog"
	"github.com/rogerio-castellano/devstore-web/internal/models"
	"github.com/rogerio-castellano/devstore-web/internal/obs"
	"github.com/rogerio-castellano/devstore-web/internal/views"
)

// Catalog is what the prerenderer needs from the catalog client.
type Catalog interface {
	FeaturedSource
	GetProduct(ctx context.Context, slug string) (models.Product, error)
}

type Prerenderer struct {
	catalog Catalog
	store   *PageStore
	now     func() time.Time
}

func NewPrerenderer(c Catalog, store *PageStore) *Prerenderer {
	return &Prerenderer{catalog: c, store: store, now: time.Now}
}

// RenderPage fetches and renders the product page for slug. The title metadata and the
// body share one lookup through the per-request memo.
func RenderPage(ctx context.Context, c Catalog, slug string) ([]byte, error) {
	ctx = catalog.WithRequestMemo(ctx)

	meta, err := c.GetProduct(ctx, slug)
	if err != nil {
		return nil, err
	}
	product, err := c.GetProduct(ctx, slug)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := views.RenderProduct(&buf, meta.Title, product); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Run renders every featured product page and replaces the store contents.
// Pages that fail are logged and skipped; a failed featured listing fails the run
// and leaves the store untouched.
func (p *Prerenderer) Run(ctx context.Context) (int, error) {
	params, err := GenerateStaticParams(ctx, p.catalog)
	if err != nil {
		return 0, err
	}

	pages := make([]Page, 0, len(params))
	for _, param := range params {
		html, err := RenderPage(ctx, p.catalog, param.Slug)
		if err != nil {
			obs.Logger.Warn("prerender_page_failed", "slug", param.Slug, "error", err)
			continue
		}
		pages = append(pages, Page{Slug: param.Slug, HTML: html, GeneratedAt: p.now()})
	}

	p.store.Replace(pages)
	obs.Logger.Info("prerender_complete", "featured", len(params), "rendered", len(pages))
	return len(pages), nil
}

// StartRefreshLoop re-runs the prerenderer every interval until ctx is done.
func (p *Prerenderer) StartRefreshLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.Run(ctx); err != nil {
				obs.Logger.Error("prerender_refresh_failed", "error", err)
			}
		}
	}
}
