package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GTDGit/offerfinder/internal/filter"
	"github.com/GTDGit/offerfinder/internal/models"
)

// ErrMiss is returned when a search page is not cached.
var ErrMiss = errors.New("cache miss")

// Store is the key-value subset of RedisClient used by SearchCache.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// SearchEntry is a cached page of search results.
type SearchEntry struct {
	Rows        []models.OfferRow `json:"rows"`
	HasNextPage bool              `json:"hasNextPage"`
	CachedAt    time.Time         `json:"cachedAt"`
}

// SearchCache caches ranked search pages keyed by the compiled predicate.
// Newly submitted offers become visible once the TTL expires.
type SearchCache struct {
	store Store
	ttl   time.Duration
}

// NewSearchCache creates a new SearchCache. A nil store or a TTL <= 0
// disables caching: Get always misses and Set does nothing.
func NewSearchCache(store Store, ttl time.Duration) *SearchCache {
	return &SearchCache{store: store, ttl: ttl}
}

func (c *SearchCache) enabled() bool {
	return c != nil && c.store != nil && c.ttl > 0
}

// Key returns the Redis key for one page of p.
func (c *SearchCache) Key(p filter.Predicate, sort models.SortOrder, page, pageSize int) string {
	return fmt.Sprintf("offers:search:%s:%s:%d:%d", p.Key(), sort, page, pageSize)
}

// Get returns the cached page or ErrMiss.
func (c *SearchCache) Get(ctx context.Context, p filter.Predicate, sort models.SortOrder, page, pageSize int) (*SearchEntry, error) {
	if !c.enabled() {
		return nil, ErrMiss
	}
	raw, err := c.store.Get(ctx, c.Key(p, sort, page, pageSize))
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}

	var entry SearchEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal search entry: %w", err)
	}
	return &entry, nil
}

// Set stores a page under the TTL configured at construction.
func (c *SearchCache) Set(ctx context.Context, p filter.Predicate, sort models.SortOrder, page, pageSize int, entry *SearchEntry) error {
	if !c.enabled() {
		return nil
	}
	entry.CachedAt = time.Now()

	jsonData, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal search entry: %w", err)
	}
	return c.store.Set(ctx, c.Key(p, sort, page, pageSize), string(jsonData), c.ttl)
}
