package prerender

import (
	"sync"
	"time"
)

// Page is a rendered product page.
type Page struct {
	Slug        string
	HTML        []byte
	GeneratedAt time.Time
}

// PageStore holds pre-rendered pages by slug.
type PageStore struct {
	mu    sync.RWMutex
	pages map[string]Page
}

func NewPageStore() *PageStore {
	return &PageStore{pages: make(map[string]Page)}
}

func (s *PageStore) Get(slug string) (Page, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pages[slug]
	return p, ok
}

func (s *PageStore) Put(p Page) {
	s.mu.Lock()
	s.pages[p.Slug] = p
	s.mu.Unlock()
}

// Has reports whether slug was pre-rendered, fresh or not.
func (s *PageStore) Has(slug string) bool {
	_, ok := s.Get(slug)
	return ok
}

// Replace swaps the whole set, dropping slugs that are no longer featured.
func (s *PageStore) Replace(pages []Page) {
	next := make(map[string]Page, len(pages))
	for _, p := range pages {
		next[p.Slug] = p
	}
	s.mu.Lock()
	s.pages = next
	s.mu.Unlock()
}
