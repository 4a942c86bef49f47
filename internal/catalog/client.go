// Package catalog is the storefront's client for the remote catalog API.
package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rogerio-castellano/devstore-web/internal/cache"
	"github.com/rogerio-castellano/devstore-web/internal/obs"
)

const maxBodyBytes = 5 << 20

// Directive tells the client how long a response may be reused.
type Directive struct {
	// Revalidate is how long a cached response is served before being refreshed
	// in the background. Zero means no caching: always go to the network.
	Revalidate time.Duration
}

// NoStore always fetches from the network.
var NoStore = Directive{}

// Client performs GET requests against the catalog base URL through the shared response cache.
type Client struct {
	BaseURL    *url.URL
	HTTP       *http.Client
	cache      *cache.Cache
	revalidate time.Duration
}

// NewClient builds a Client. respCache may be nil, in which case nothing is cached.
// revalidate is the directive used for search and product lookups.
func NewClient(baseURL string, httpClient *http.Client, respCache *cache.Cache, revalidate time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("catalog base url %q must be absolute", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{BaseURL: u, HTTP: httpClient, cache: respCache, revalidate: revalidate}, nil
}

// resolve joins the base URL with an already escaped path and query.
func (c *Client) resolve(escapedPath, rawQuery string) string {
	s := strings.TrimRight(c.BaseURL.String(), "/") + escapedPath
	if rawQuery != "" {
		s += "?" + rawQuery
	}
	return s
}

// get returns the body of a 2xx response for path. Identical URLs requested while serving
// the same request share one result; across requests the response cache applies d.
func (c *Client) get(ctx context.Context, escapedPath, rawQuery string, d Directive) ([]byte, error) {
	key := c.resolve(escapedPath, rawQuery)

	fetch := func() ([]byte, error) {
		load := func(ctx context.Context) ([]byte, error) { return c.fetch(ctx, key) }
		if c.cache == nil {
			return load(ctx)
		}
		return c.cache.Fetch(ctx, key, d.Revalidate, load)
	}

	if m := memoFromContext(ctx); m != nil {
		return m.do(key, fetch)
	}
	return fetch()
}

func (c *Client) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if id := obs.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(obs.HeaderRequestID, id)
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", ErrUnreachable, rawURL, err)
	}
	defer resp.Body.Close()

	obs.Logger.Debug("catalog_fetch",
		"url", rawURL,
		"status", resp.StatusCode,
		"latency_ms", float64(time.Since(start).Microseconds())/1000.0,
		"request_id", obs.RequestIDFromContext(ctx),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrUnreachable, rawURL, err)
	}
	return body, nil
}
