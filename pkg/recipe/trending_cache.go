package recipe

import (
	"RecipeAPI/domain"
	"RecipeAPI/internal/metrics"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"time"
)

const (
	DefaultTrendingTTL = 300 * time.Second
	MaxTrendingLimit   = 50
)

// trendingCache holds trending lists per limit. Entries may be up to ttl old;
// writes never invalidate them.
type trendingCache struct {
	entries *expirable.LRU[int, []domain.RecipeSummary]
}

func newTrendingCache(ttl time.Duration) *trendingCache {
	if ttl <= 0 {
		ttl = DefaultTrendingTTL
	}
	return &trendingCache{entries: expirable.NewLRU[int, []domain.RecipeSummary](MaxTrendingLimit, nil, ttl)}
}

func (c *trendingCache) get(limit int) ([]domain.RecipeSummary, bool) {
	v, ok := c.entries.Get(limit)
	metrics.RecordTrendingCache(ok)
	return v, ok
}

func (c *trendingCache) put(limit int, recipes []domain.RecipeSummary) {
	c.entries.Add(limit, recipes)
}
