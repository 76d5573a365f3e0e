// Package cache provides a Redis read-through cache in front of the menu
// catalog. Menu reads dominate the order flow; writes happen elsewhere, so a
// short TTL is the only invalidation.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/naingnainghtun662/apolo/internal/domain/catalog"
)

// DefaultTTL bounds how stale a cached menu read may be.
const DefaultTTL = 30 * time.Second

var _ catalog.Repository = (*CatalogCache)(nil)

// CatalogCache wraps a catalog.Repository with Redis caching. Cache failures
// degrade to direct repository reads; they are logged, never surfaced.
type CatalogCache struct {
	inner  catalog.Repository
	client *redis.Client
	ttl    time.Duration
	lg     *zap.Logger
}

// NewCatalogCache creates a CatalogCache over inner using the given client.
func NewCatalogCache(inner catalog.Repository, client *redis.Client, ttl time.Duration, lg *zap.Logger) *CatalogCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CatalogCache{inner: inner, client: client, ttl: ttl, lg: lg}
}

// GetItem returns a menu item, from cache when fresh.
func (c *CatalogCache) GetItem(ctx context.Context, id int64) (*catalog.MenuItem, error) {
	key := fmt.Sprintf("catalog:item:%d", id)

	var cached catalog.MenuItem
	if c.get(ctx, key, &cached) {
		return &cached, nil
	}

	item, err := c.inner.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, item)
	return item, nil
}

// ListByBranch returns a branch's menu, from cache when fresh.
func (c *CatalogCache) ListByBranch(ctx context.Context, branchID int64) ([]catalog.MenuItem, error) {
	key := fmt.Sprintf("catalog:branch:%d", branchID)

	var cached []catalog.MenuItem
	if c.get(ctx, key, &cached) {
		return cached, nil
	}

	items, err := c.inner.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, items)
	return items, nil
}

func (c *CatalogCache) get(ctx context.Context, key string, dst any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.lg.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.lg.Warn("catalog cache decode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *CatalogCache) set(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.lg.Warn("catalog cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.lg.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}
