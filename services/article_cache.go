package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"headlines/model"

	"github.com/redis/go-redis/v9"
)

var _ model.ArticleCache = (*ArticleCache)(nil)

// ArticleCache is a Redis-backed read-through cache for single articles.
type ArticleCache struct {
	client *redis.Client
}

// NewArticleCache parses redisURL, connects, and verifies the connection
func NewArticleCache(redisURL string) (*ArticleCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &ArticleCache{client: client}, nil
}

// NewArticleCacheWithClient wraps an existing client.
func NewArticleCacheWithClient(client *redis.Client) *ArticleCache {
	return &ArticleCache{client: client}
}

func articleKey(id string) string {
	return "article:" + id
}

// Get returns the cached article, or nil on a cache miss
func (ac *ArticleCache) Get(ctx context.Context, id string) (*model.Article, error) {
	data, err := ac.client.Get(ctx, articleKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article from cache: %w", err)
	}

	var article model.Article
	if err := json.Unmarshal(data, &article); err != nil {
		return nil, fmt.Errorf("failed to unmarshal article: %w", err)
	}
	return &article, nil
}

func (ac *ArticleCache) Set(ctx context.Context, a *model.Article, ttl time.Duration) error {
	if a == nil {
		return fmt.Errorf("cannot cache nil article")
	}

	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal article: %w", err)
	}

	if err := ac.client.Set(ctx, articleKey(a.ID.Hex()), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache article: %w", err)
	}
	return nil
}

func (ac *ArticleCache) Invalidate(ctx context.Context, id string) error {
	if err := ac.client.Del(ctx, articleKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate article %s: %w", id, err)
	}
	return nil
}

func (ac *ArticleCache) Close() error {
	return ac.client.Close()
}
