package search

import (
	"context"
	"encoding/json"
	"time"

	"github.com/claimwise/claimwise/internal/cache"
)

// SearchResult is one hit returned by a web search.
type SearchResult struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Searcher issues a web search and returns ranked results.
type Searcher interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// CachedSearcher wraps a Searcher with TTL caching keyed on the query.
// Identical queries across claims in one batch hit the network once.
type CachedSearcher struct {
	inner Searcher
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedSearcher wraps inner with the given cache.
func NewCachedSearcher(inner Searcher, c cache.Cache, ttl time.Duration) *CachedSearcher {
	return &CachedSearcher{inner: inner, cache: c, ttl: ttl}
}

// Search returns cached results when available, otherwise delegates and
// stores the outcome.
func (s *CachedSearcher) Search(ctx context.Context, query string) ([]SearchResult, error) {
	key := cache.Key("search:" + query)

	if data, found := s.cache.Get(key); found {
		var results []SearchResult
		if err := json.Unmarshal(data, &results); err == nil {
			return results, nil
		}
		// Corrupt entry: drop it and fall through to a fresh search
		_ = s.cache.Delete(key)
	}

	results, err := s.inner.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(results); err == nil {
		_ = s.cache.Set(key, data, s.ttl)
	}

	return results, nil
}
