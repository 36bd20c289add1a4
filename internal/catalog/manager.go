package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/rootv890/discovery-5/internal/cache"
	"github.com/rootv890/discovery-5/internal/models"
	"github.com/rootv890/discovery-5/internal/store"
)

// Manager orchestrates the multi-step attach/detach/create workflows for
// category-platform associations and tool placements. All mutation of the
// association tables goes through it: validation fully precedes any
// write, and the check-then-insert sequence runs inside a transaction
// holding a row lock on the category, so two concurrent attaches to the
// same SINGLE category cannot both pass the constraint check.
type Manager struct {
	db           *sql.DB
	categories   *store.CategoryStore
	platforms    *store.PlatformStore
	associations *store.AssociationStore
	tools        *store.ToolStore
	cache        *cache.CatalogCache
}

// NewManager creates a catalog manager. catalogCache may be nil to
// disable read-cache invalidation.
func NewManager(db *sql.DB, categories *store.CategoryStore, platforms *store.PlatformStore, associations *store.AssociationStore, tools *store.ToolStore, catalogCache *cache.CatalogCache) *Manager {
	return &Manager{
		db:           db,
		categories:   categories,
		platforms:    platforms,
		associations: associations,
		tools:        tools,
		cache:        catalogCache,
	}
}

// parseID validates a single identifier.
func parseID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil, &InvalidIdentifierError{Field: field, Value: value}
	}
	return id, nil
}

// normalizeIDs trims, de-duplicates, and validates a list of platform
// IDs, preserving first-seen order.
func normalizeIDs(field string, values []string) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool, len(values))
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := parseID(field, v)
		if err != nil {
			return nil, err
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// verifyPlatformsExist checks every ID against the platforms table with a
// single batched lookup. The first missing ID is reported.
func (m *Manager) verifyPlatformsExist(ids []uuid.UUID) error {
	found, err := m.platforms.FindByIDsIn(ids)
	if err != nil {
		return err
	}
	existing := make(map[uuid.UUID]bool, len(found))
	for _, p := range found {
		existing[p.ID] = true
	}
	for _, id := range ids {
		if !existing[id] {
			return &NotFoundError{Kind: KindPlatform, ID: id.String()}
		}
	}
	return nil
}

// platformIDsOf extracts the platform IDs from association rows.
func platformIDsOf(rows []models.CategoryPlatform) []uuid.UUID {
	ids := make([]uuid.UUID, len(rows))
	for i, r := range rows {
		ids[i] = r.PlatformID
	}
	return ids
}

// CreateCategoryInput is the payload for CreateCategory. PlatformIDs and
// PlatformConstraint arrive as raw strings from the request layer and are
// validated here.
type CreateCategoryInput struct {
	Name               string
	Description        string
	ImageURL           string
	PlatformConstraint string
	PlatformIDs        []string
}

// CreateCategory creates a category together with its initial platform
// attachments. A SINGLE category requires exactly one platform ID; a NONE
// category requires at least one. The category row and its attachment
// rows commit in one transaction, so a failed attachment never leaves an
// orphaned category behind.
func (m *Manager) CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, []models.CategoryPlatform, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, nil, NewValidationError("category name is required")
	}

	constraint := models.PlatformConstraint(input.PlatformConstraint)
	if !constraint.Valid() {
		return nil, nil, NewValidationError("platform_constraint must be SINGLE or NONE, got %q", input.PlatformConstraint)
	}

	ids, err := normalizeIDs("platform_id", input.PlatformIDs)
	if err != nil {
		return nil, nil, err
	}
	switch {
	case constraint == models.ConstraintSingle && len(ids) != 1:
		return nil, nil, NewValidationError("a SINGLE category must be created with exactly one platform, got %d", len(ids))
	case constraint == models.ConstraintNone && len(ids) == 0:
		return nil, nil, NewValidationError("a category must be created with at least one platform")
	}

	if err := m.verifyPlatformsExist(ids); err != nil {
		return nil, nil, err
	}

	tx, err := m.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	created, err := m.categories.CreateTx(tx, &models.Category{
		Name:               name,
		Description:        input.Description,
		ImageURL:           input.ImageURL,
		PlatformConstraint: constraint,
	})
	if errors.Is(err, store.ErrDuplicate) {
		return nil, nil, &DuplicateNameError{Kind: KindCategory, Name: name}
	}
	if err != nil {
		return nil, nil, err
	}

	attached, err := m.associations.BulkInsertTx(tx, created.ID, ids)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit create category: %w", err)
	}

	m.cache.InvalidatePlatforms(ctx, ids...)
	slog.Info("category created",
		"category_id", created.ID,
		"constraint", created.PlatformConstraint,
		"platforms", len(attached),
	)
	return created, attached, nil
}

// AttachCategoryToPlatforms associates a category with additional
// platforms, subject to its platform constraint. Platforms the category
// is already attached to are skipped, not errors; the returned slice
// holds only newly inserted rows and may be empty.
func (m *Manager) AttachCategoryToPlatforms(ctx context.Context, categoryID string, platformIDs []string) ([]models.CategoryPlatform, error) {
	catID, err := parseID("category_id", categoryID)
	if err != nil {
		return nil, err
	}
	ids, err := normalizeIDs("platform_id", platformIDs)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, NewValidationError("at least one platform id is required")
	}

	if err := m.verifyPlatformsExist(ids); err != nil {
		return nil, err
	}

	tx, err := m.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Lock the category row for the duration of the check-then-insert
	// sequence. Concurrent attaches to the same category serialize here.
	category, err := m.categories.FindByIDForUpdate(tx, catID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, &NotFoundError{Kind: KindCategory, ID: catID.String()}
	}

	existing, err := m.associations.ListByCategoryTx(tx, catID)
	if err != nil {
		return nil, err
	}

	decision, err := DecideAttachment(category, platformIDsOf(existing), ids)
	if err != nil {
		return nil, err
	}
	for _, skipped := range decision.Skipped {
		slog.Info("platform already attached, skipping",
			"category_id", catID, "platform_id", skipped)
	}
	if len(decision.ToInsert) == 0 {
		return []models.CategoryPlatform{}, tx.Commit()
	}

	inserted, err := m.associations.BulkInsertTx(tx, catID, decision.ToInsert)
	if errors.Is(err, store.ErrDuplicate) {
		// Backstop: the unique index caught a write that slipped past the
		// row lock (e.g. a direct insert outside the manager).
		return nil, &ConstraintViolationError{
			Reason:     SingleExceeded,
			CategoryID: catID.String(),
			Msg:        "conflicting attachment detected by unique index",
		}
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit attach: %w", err)
	}

	m.cache.InvalidatePlatforms(ctx, decision.ToInsert...)
	slog.Info("category attached to platforms",
		"category_id", catID,
		"inserted", len(inserted),
		"skipped", len(decision.Skipped),
	)
	return inserted, nil
}

// DetachResult reports the outcome of a detach operation.
type DetachResult struct {
	RemovedCount int                       `json:"removed_count"`
	Removed      []models.CategoryPlatform `json:"removed"`
}

// DetachCategoryFromPlatforms removes the association between a category
// and the given platforms. Detaching never consults the constraint
// engine: removing rows cannot exceed the SINGLE upper bound, and no
// minimum attachment is enforced after creation, so a category may
// transiently hold zero platforms. Tool placements under the removed
// pairs cascade away.
func (m *Manager) DetachCategoryFromPlatforms(ctx context.Context, categoryID string, platformIDs []string) (*DetachResult, error) {
	catID, err := parseID("category_id", categoryID)
	if err != nil {
		return nil, err
	}
	ids, err := normalizeIDs("platform_id", platformIDs)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, NewValidationError("at least one platform id is required")
	}

	category, err := m.categories.FindByID(catID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, &NotFoundError{Kind: KindCategory, ID: catID.String()}
	}
	if err := m.verifyPlatformsExist(ids); err != nil {
		return nil, err
	}

	matching, err := m.associations.ListByCategoryAndPlatforms(catID, ids)
	if err != nil {
		return nil, err
	}
	if len(matching) == 0 {
		return nil, &NotFoundError{Kind: KindAssociation, ID: catID.String()}
	}

	removed, err := m.associations.DeleteByCategoryAndPlatforms(catID, ids)
	if err != nil {
		return nil, err
	}

	m.cache.InvalidatePlatforms(ctx, platformIDsOf(removed)...)
	slog.Info("category detached from platforms",
		"category_id", catID, "removed", len(removed))
	return &DetachResult{RemovedCount: len(removed), Removed: removed}, nil
}

// DeleteCategory removes a category. Its association rows, and the tool
// placements under them, cascade away at the database level. Returns the
// deleted category's id and name.
func (m *Manager) DeleteCategory(ctx context.Context, categoryID string) (*models.Category, error) {
	catID, err := parseID("category_id", categoryID)
	if err != nil {
		return nil, err
	}

	// Capture the attached platforms before the cascade wipes the rows,
	// so their cached listings can be invalidated.
	attached, err := m.associations.ListByCategory(catID)
	if err != nil {
		return nil, err
	}

	deleted, err := m.categories.Delete(catID)
	if err != nil {
		return nil, err
	}
	if deleted == nil {
		return nil, &NotFoundError{Kind: KindCategory, ID: catID.String()}
	}

	m.cache.InvalidatePlatforms(ctx, platformIDsOf(attached)...)
	slog.Info("category deleted", "category_id", deleted.ID, "name", deleted.Name)
	return deleted, nil
}

// TagTool places a tool into a (category, platform) slot. The pair must
// already be associated; tagging the same slot twice is an idempotent
// no-op returning the existing placement.
func (m *Manager) TagTool(ctx context.Context, toolID, categoryID, platformID string) (*models.ToolCategoryPlatform, error) {
	tID, err := parseID("tool_id", toolID)
	if err != nil {
		return nil, err
	}
	catID, err := parseID("category_id", categoryID)
	if err != nil {
		return nil, err
	}
	platID, err := parseID("platform_id", platformID)
	if err != nil {
		return nil, err
	}

	exists, err := m.tools.Exists(tID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &NotFoundError{Kind: KindTool, ID: tID.String()}
	}

	pair, err := m.associations.FindPair(catID, platID)
	if err != nil {
		return nil, err
	}
	if pair == nil {
		return nil, &NotFoundError{Kind: KindAssociation, ID: fmt.Sprintf("%s/%s", catID, platID)}
	}

	placement, err := m.associations.InsertToolPlacement(tID, pair.ID)
	if err != nil {
		return nil, err
	}
	slog.Info("tool tagged", "tool_id", tID, "category_id", catID, "platform_id", platID)
	return placement, nil
}

// UntagTool removes a tool from a (category, platform) slot.
func (m *Manager) UntagTool(ctx context.Context, toolID, categoryID, platformID string) error {
	tID, err := parseID("tool_id", toolID)
	if err != nil {
		return err
	}
	catID, err := parseID("category_id", categoryID)
	if err != nil {
		return err
	}
	platID, err := parseID("platform_id", platformID)
	if err != nil {
		return err
	}

	pair, err := m.associations.FindPair(catID, platID)
	if err != nil {
		return err
	}
	if pair == nil {
		return &NotFoundError{Kind: KindAssociation, ID: fmt.Sprintf("%s/%s", catID, platID)}
	}

	removed, err := m.associations.DeleteToolPlacement(tID, pair.ID)
	if err != nil {
		return err
	}
	if !removed {
		return &NotFoundError{Kind: KindAssociation, ID: fmt.Sprintf("%s under %s/%s", tID, catID, platID)}
	}
	slog.Info("tool untagged", "tool_id", tID, "category_id", catID, "platform_id", platID)
	return nil
}
