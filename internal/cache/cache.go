package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/rogerio-castellano/devstore-web/internal/obs"
)

// Loader fetches the current body for a key from the origin.
type Loader func(ctx context.Context) ([]byte, error)

// Stats are cumulative counters since the cache was created.
type Stats struct {
	Hits          int64 `json:"hits"`
	Misses        int64 `json:"misses"`
	Stale         int64 `json:"stale"`
	Bypass        int64 `json:"bypass"`
	Refreshes     int64 `json:"refreshes"`
	RefreshErrors int64 `json:"refresh_errors"`
}

type counters struct {
	hits, misses, stale, bypass, refreshes, refreshErrors atomic.Int64
}

// Cache serves entries younger than the caller's revalidate window directly,
// serves older ones stale while refreshing them once in the background, and
// loads misses once per key no matter how many callers ask concurrently.
type Cache struct {
	store       Store
	group       singleflight.Group
	now         func() time.Time
	loadTimeout time.Duration

	mu         sync.Mutex
	refreshing map[string]struct{}
	wg         sync.WaitGroup

	stats counters
}

type Option func(*Cache)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithLoadTimeout bounds origin loads. Loads are shared by every caller waiting on the
// key, so they run detached from the request that started them.
func WithLoadTimeout(d time.Duration) Option {
	return func(c *Cache) { c.loadTimeout = d }
}

func New(store Store, opts ...Option) *Cache {
	c := &Cache{
		store:       store,
		now:         time.Now,
		loadTimeout: 30 * time.Second,
		refreshing:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the body for key. A non-positive revalidate bypasses the cache entirely.
func (c *Cache) Fetch(ctx context.Context, key string, revalidate time.Duration, load Loader) ([]byte, error) {
	if revalidate <= 0 {
		c.stats.bypass.Add(1)
		return load(ctx)
	}

	e, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		if c.now().Sub(e.StoredAt) < revalidate {
			c.stats.hits.Add(1)
			return e.Body, nil
		}
		c.stats.stale.Add(1)
		c.refreshInBackground(ctx, key, load)
		return e.Body, nil
	case !errors.Is(err, ErrNotFound):
		obs.Logger.Warn("cache_get_failed", "key", key, "error", err)
	}

	c.stats.misses.Add(1)
	ch := c.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()
		return c.loadAndStore(loadCtx, key, load)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (c *Cache) loadAndStore(ctx context.Context, key string, load Loader) ([]byte, error) {
	body, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.store.Set(ctx, key, Entry{Body: body, StoredAt: c.now()}); err != nil {
		obs.Logger.Warn("cache_set_failed", "key", key, "error", err)
	}
	return body, nil
}

func (c *Cache) refreshInBackground(parent context.Context, key string, load Loader) {
	c.mu.Lock()
	if _, busy := c.refreshing[key]; busy {
		c.mu.Unlock()
		return
	}
	c.refreshing[key] = struct{}{}
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer func() {
			c.mu.Lock()
			delete(c.refreshing, key)
			c.mu.Unlock()
		}()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), c.loadTimeout)
		defer cancel()

		c.stats.refreshes.Add(1)
		_, err, _ := c.group.Do(key, func() (any, error) {
			return c.loadAndStore(ctx, key, load)
		})
		if err != nil {
			c.stats.refreshErrors.Add(1)
			obs.Logger.Warn("cache_refresh_failed", "key", key, "error", err)
		}
	}()
}

// Wait blocks until in-flight background refreshes finish.
func (c *Cache) Wait() {
	c.wg.Wait()
}

func (c *Cache) Stats() Stats {
	return Stats{
		Hits:          c.stats.hits.Load(),
		Misses:        c.stats.misses.Load(),
		Stale:         c.stats.stale.Load(),
		Bypass:        c.stats.bypass.Load(),
		Refreshes:     c.stats.refreshes.Load(),
		RefreshErrors: c.stats.refreshErrors.Load(),
	}
}
