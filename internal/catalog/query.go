package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/rootv890/discovery-5/internal/cache"
	"github.com/rootv890/discovery-5/internal/models"
	"github.com/rootv890/discovery-5/internal/store"
)

// Query assembles denormalized read views over the association tables:
// categories under a platform, platforms under a category, and tools
// reachable through either side of a (category, platform) pair.
type Query struct {
	categories   *store.CategoryStore
	platforms    *store.PlatformStore
	associations *store.AssociationStore
	tools        *store.ToolStore
	cache        *cache.CatalogCache
}

// NewQuery creates the read-side query layer. catalogCache may be nil to
// disable caching.
func NewQuery(categories *store.CategoryStore, platforms *store.PlatformStore, associations *store.AssociationStore, tools *store.ToolStore, catalogCache *cache.CatalogCache) *Query {
	return &Query{
		categories:   categories,
		platforms:    platforms,
		associations: associations,
		tools:        tools,
		cache:        catalogCache,
	}
}

// CategoriesForPlatform returns every category attached to the platform,
// plus the total count for pagination metadata. Association rows are
// resolved to full category records with one batched lookup.
func (q *Query) CategoriesForPlatform(ctx context.Context, platformID string) ([]models.Category, int, error) {
	platID, err := parseID("platform_id", platformID)
	if err != nil {
		return nil, 0, err
	}

	exists, err := q.platforms.Exists(platID)
	if err != nil {
		return nil, 0, err
	}
	if !exists {
		return nil, 0, &NotFoundError{Kind: KindPlatform, ID: platID.String()}
	}

	if cached, ok := q.cache.GetPlatformCategories(ctx, platID); ok {
		return cached, len(cached), nil
	}

	rows, err := q.associations.ListByPlatform(platID)
	if err != nil {
		return nil, 0, err
	}
	if len(rows) == 0 {
		return []models.Category{}, 0, nil
	}

	ids := make([]uuid.UUID, len(rows))
	for i, r := range rows {
		ids[i] = r.CategoryID
	}
	categories, err := q.categories.FindByIDsIn(ids)
	if err != nil {
		return nil, 0, err
	}

	q.cache.SetPlatformCategories(ctx, platID, categories)
	return categories, len(categories), nil
}

// PlatformsForCategory returns every platform a category is attached to.
func (q *Query) PlatformsForCategory(ctx context.Context, categoryID string) ([]models.Platform, error) {
	catID, err := parseID("category_id", categoryID)
	if err != nil {
		return nil, err
	}

	exists, err := q.categories.Exists(catID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &NotFoundError{Kind: KindCategory, ID: catID.String()}
	}

	rows, err := q.associations.ListByCategory(catID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []models.Platform{}, nil
	}

	return q.platforms.FindByIDsIn(platformIDsOf(rows))
}

// ToolsForCategory returns the distinct tools placed under a category
// through any platform. The join legitimately repeats a tool reached via
// several platforms, so results are de-duplicated by tool ID here rather
// than assumed unique from the database.
func (q *Query) ToolsForCategory(ctx context.Context, categoryID string) ([]models.Tool, error) {
	catID, err := parseID("category_id", categoryID)
	if err != nil {
		return nil, err
	}

	exists, err := q.categories.Exists(catID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &NotFoundError{Kind: KindCategory, ID: catID.String()}
	}

	joined, err := q.tools.JoinByCategory(catID)
	if err != nil {
		return nil, err
	}
	return dedupeTools(joined), nil
}

// ToolsForPlatform returns the distinct tools placed under a platform
// through any category, de-duplicated like ToolsForCategory.
func (q *Query) ToolsForPlatform(ctx context.Context, platformID string) ([]models.Tool, error) {
	platID, err := parseID("platform_id", platformID)
	if err != nil {
		return nil, err
	}

	exists, err := q.platforms.Exists(platID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &NotFoundError{Kind: KindPlatform, ID: platID.String()}
	}

	joined, err := q.tools.JoinByPlatform(platID)
	if err != nil {
		return nil, err
	}
	return dedupeTools(joined), nil
}

// TagsForTool returns a tool's full set of (category, platform) tags.
func (q *Query) TagsForTool(ctx context.Context, toolID string) ([]models.ToolTag, error) {
	tID, err := parseID("tool_id", toolID)
	if err != nil {
		return nil, err
	}

	exists, err := q.tools.Exists(tID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &NotFoundError{Kind: KindTool, ID: tID.String()}
	}

	return q.associations.ListToolTags(tID)
}

// dedupeTools drops repeated tool rows, keeping first-seen order.
func dedupeTools(tools []models.Tool) []models.Tool {
	seen := make(map[uuid.UUID]bool, len(tools))
	result := make([]models.Tool, 0, len(tools))
	for _, t := range tools {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		result = append(result, t)
	}
	return result
}
