// Package cache provides Redis-backed read caches and counters. Every
// operation degrades gracefully when Redis is unreachable; callers fall back
// to the database.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/facilityhub/helpdesk/internal/domain"
)

const (
	buildingsKey  = "helpdesk:taxonomy:buildings"
	categoriesKey = "helpdesk:taxonomy:categories"
)

// TaxonomyCache caches the building and category lists, which are read on
// nearly every ticket form render and change rarely.
type TaxonomyCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewTaxonomyCache constructs the cache.
func NewTaxonomyCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *TaxonomyCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &TaxonomyCache{client: client, ttl: ttl, logger: logger}
}

// GetBuildings returns the cached building list, or nil on miss.
func (c *TaxonomyCache) GetBuildings(ctx context.Context) []domain.Building {
	var buildings []domain.Building
	if !c.get(ctx, buildingsKey, &buildings) {
		return nil
	}
	return buildings
}

// SetBuildings stores the building list.
func (c *TaxonomyCache) SetBuildings(ctx context.Context, buildings []domain.Building) {
	c.set(ctx, buildingsKey, buildings)
}

// GetCategories returns the cached category list, or nil on miss.
func (c *TaxonomyCache) GetCategories(ctx context.Context) []domain.Category {
	var categories []domain.Category
	if !c.get(ctx, categoriesKey, &categories) {
		return nil
	}
	return categories
}

// SetCategories stores the category list.
func (c *TaxonomyCache) SetCategories(ctx context.Context, categories []domain.Category) {
	c.set(ctx, categoriesKey, categories)
}

// Invalidate drops both taxonomy entries. Called after any admin write.
func (c *TaxonomyCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, buildingsKey, categoriesKey).Err(); err != nil {
		c.logger.Warn("taxonomy cache invalidation failed", zap.Error(err))
	}
}

func (c *TaxonomyCache) get(ctx context.Context, key string, dest any) bool {
	if c == nil || c.client == nil {
		return false
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("taxonomy cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		c.logger.Warn("taxonomy cache decode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *TaxonomyCache) set(ctx context.Context, key string, value any) {
	if c == nil || c.client == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("taxonomy cache write failed", zap.String("key", key), zap.Error(err))
	}
}
