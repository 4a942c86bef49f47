package catalog

import (
	"context"
	"sync"
)

type memoKey struct{}

// requestMemo remembers every catalog GET made while serving one request, so a page that
// resolves the same URL twice (title metadata and body) reaches the cache or network once.
type requestMemo struct {
	mu    sync.Mutex
	calls map[string]*memoCall
}

type memoCall struct {
	done chan struct{}
	body []byte
	err  error
}

// WithRequestMemo returns a context carrying a per-request memo. A context that already
// carries one is returned unchanged.
func WithRequestMemo(ctx context.Context) context.Context {
	if memoFromContext(ctx) != nil {
		return ctx
	}
	return context.WithValue(ctx, memoKey{}, &requestMemo{calls: make(map[string]*memoCall)})
}

func memoFromContext(ctx context.Context) *requestMemo {
	m, _ := ctx.Value(memoKey{}).(*requestMemo)
	return m
}

func (m *requestMemo) do(key string, fn func() ([]byte, error)) ([]byte, error) {
	m.mu.Lock()
	if c, ok := m.calls[key]; ok {
		m.mu.Unlock()
		<-c.done
		return c.body, c.err
	}
	c := &memoCall{done: make(chan struct{})}
	m.calls[key] = c
	m.mu.Unlock()

	c.body, c.err = fn()
	close(c.done)
	return c.body, c.err
}
