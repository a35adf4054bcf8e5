package services

import (
	"context"
	"strconv"
	"time"

	"github.com/amaumene/episodebot/internal/cache"
	"github.com/amaumene/episodebot/pkg/logger"
)

// CachedCatalog serves repeated catalog requests from memory. Only
// successful results are cached.
type CachedCatalog struct {
	next   CatalogService
	cache  *cache.LRU[CatalogResult]
	logger logger.Logger
}

func NewCachedCatalog(next CatalogService, capacity int, ttl time.Duration, log logger.Logger) *CachedCatalog {
	return &CachedCatalog{
		next:   next,
		cache:  cache.New[CatalogResult](capacity, ttl),
		logger: log,
	}
}

func (c *CachedCatalog) Fetch(ctx context.Context, endpoint, description string, arrayExpected bool) CatalogResult {
	key := endpoint + "|" + strconv.FormatBool(arrayExpected)
	if result, ok := c.cache.Get(key); ok {
		c.logger.Debugf("[Catalog] cache hit for %s", endpoint)
		return result
	}

	result := c.next.Fetch(ctx, endpoint, description, arrayExpected)
	if result.OK() {
		c.cache.Set(key, result)
	}
	return result
}

// StartCleanup evicts expired entries periodically until ctx is done.
func (c *CachedCatalog) StartCleanup(ctx context.Context, interval time.Duration) {
	c.cache.StartCleanup(ctx, interval)
}
