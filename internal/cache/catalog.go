// catalog.go provides a Valkey-backed cache for catalog read views.
// The categories-under-platform listing is the hottest read in the API
// and changes only when associations mutate, so it is cached as JSON and
// invalidated by the catalog manager on attach/detach/delete.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rootv890/discovery-5/internal/models"
)

const (
	// platformCategoriesPrefix namespaces cached category listings.
	platformCategoriesPrefix = "catalog:platform-categories:"

	// DefaultCatalogTTL bounds staleness if an invalidation is ever missed.
	DefaultCatalogTTL = 10 * time.Minute
)

// CatalogCache caches catalog read views in Valkey. A nil *CatalogCache
// is valid and disables caching, so call sites need no nil checks.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache creates a catalog cache backed by the given Valkey client.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	if ttl == 0 {
		ttl = DefaultCatalogTTL
	}
	return &CatalogCache{client: client, ttl: ttl}
}

// GetPlatformCategories returns the cached category list for a platform.
// The second return is false on miss or any cache error.
func (c *CatalogCache) GetPlatformCategories(ctx context.Context, platformID uuid.UUID) ([]models.Category, bool) {
	if c == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, platformCategoriesPrefix+platformID.String()).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("catalog cache get error", "platform_id", platformID, "error", err)
		return nil, false
	}

	var categories []models.Category
	if err := json.Unmarshal(payload, &categories); err != nil {
		slog.Warn("catalog cache decode error", "platform_id", platformID, "error", err)
		return nil, false
	}
	return categories, true
}

// SetPlatformCategories stores the category list for a platform.
func (c *CatalogCache) SetPlatformCategories(ctx context.Context, platformID uuid.UUID, categories []models.Category) {
	if c == nil {
		return
	}
	payload, err := json.Marshal(categories)
	if err != nil {
		slog.Warn("catalog cache encode error", "platform_id", platformID, "error", err)
		return
	}
	if err := c.client.Set(ctx, platformCategoriesPrefix+platformID.String(), payload, c.ttl).Err(); err != nil {
		slog.Warn("catalog cache set error", "platform_id", platformID, "error", err)
	}
}

// InvalidatePlatforms drops the cached listings for the given platforms.
// Called after any association mutation touching them.
func (c *CatalogCache) InvalidatePlatforms(ctx context.Context, platformIDs ...uuid.UUID) {
	if c == nil || len(platformIDs) == 0 {
		return
	}
	keys := make([]string, len(platformIDs))
	for i, id := range platformIDs {
		keys[i] = platformCategoriesPrefix + id.String()
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("catalog cache invalidate error", "error", err)
	}
	slog.Debug("catalog cache invalidated", "platforms", len(platformIDs))
}
