package mock

import (
	"context"
	"sync"
	"time"

	"headlines/model"
)

var _ model.ArticleCache = (*ArticleCache)(nil)

// ArticleCache is an in-memory model.ArticleCache that counts hits.
type ArticleCache struct {
	mu      sync.Mutex
	entries map[string]model.Article
	Hits    int
}

func NewArticleCache() *ArticleCache {
	return &ArticleCache{entries: make(map[string]model.Article)}
}

func (c *ArticleCache) Get(_ context.Context, id string) (*model.Article, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, ok := c.entries[id]
	if !ok {
		return nil, nil
	}
	c.Hits++
	return &a, nil
}

func (c *ArticleCache) Set(_ context.Context, a *model.Article, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[a.ID.Hex()] = *a
	return nil
}

func (c *ArticleCache) Invalidate(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	return nil
}
