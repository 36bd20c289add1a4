package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/rootv890/discovery-5/internal/models"
)

// AssociationStore manages the category_platform and
// tool_category_platform tables. Rows in these tables are only written
// through the catalog manager; the composite unique indexes are the
// database-level backstop for its duplicate checks.
type AssociationStore struct {
	db *sql.DB
}

// NewAssociationStore returns a new AssociationStore.
func NewAssociationStore(db *sql.DB) *AssociationStore {
	return &AssociationStore{db: db}
}

const categoryPlatformColumns = `id, category_id, platform_id, created_at, updated_at`

// scanCategoryPlatform scans a row into a CategoryPlatform struct.
func scanCategoryPlatform(scanner interface{ Scan(...any) error }) (*models.CategoryPlatform, error) {
	var cp models.CategoryPlatform
	err := scanner.Scan(&cp.ID, &cp.CategoryID, &cp.PlatformID, &cp.CreatedAt, &cp.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &cp, nil
}

// ListByCategory returns all platform attachments for a category.
func (s *AssociationStore) ListByCategory(categoryID uuid.UUID) ([]models.CategoryPlatform, error) {
	return s.listByCategory(s.db, categoryID)
}

// ListByCategoryTx is ListByCategory inside a transaction. The manager
// calls it after locking the category row so the read and the insert
// that follows see a consistent attachment count.
func (s *AssociationStore) ListByCategoryTx(tx *sql.Tx, categoryID uuid.UUID) ([]models.CategoryPlatform, error) {
	return s.listByCategory(tx, categoryID)
}

func (s *AssociationStore) listByCategory(q querier, categoryID uuid.UUID) ([]models.CategoryPlatform, error) {
	rows, err := q.Query(
		`SELECT `+categoryPlatformColumns+` FROM category_platform WHERE category_id = $1`,
		categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("list category platforms: %w", err)
	}
	defer rows.Close()

	var items []models.CategoryPlatform
	for rows.Next() {
		cp, err := scanCategoryPlatform(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category platform: %w", err)
		}
		items = append(items, *cp)
	}
	return items, rows.Err()
}

// ListByPlatform returns all category attachments for a platform.
func (s *AssociationStore) ListByPlatform(platformID uuid.UUID) ([]models.CategoryPlatform, error) {
	rows, err := s.db.Query(
		`SELECT `+categoryPlatformColumns+` FROM category_platform WHERE platform_id = $1`,
		platformID,
	)
	if err != nil {
		return nil, fmt.Errorf("list platform categories: %w", err)
	}
	defer rows.Close()

	var items []models.CategoryPlatform
	for rows.Next() {
		cp, err := scanCategoryPlatform(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category platform: %w", err)
		}
		items = append(items, *cp)
	}
	return items, rows.Err()
}

// ListByCategoryAndPlatforms returns the attachment rows matching
// categoryID and any of platformIDs, in a single set-membership query.
func (s *AssociationStore) ListByCategoryAndPlatforms(categoryID uuid.UUID, platformIDs []uuid.UUID) ([]models.CategoryPlatform, error) {
	if len(platformIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.Query(
		`SELECT `+categoryPlatformColumns+` FROM category_platform
		 WHERE category_id = $1 AND platform_id = ANY($2)`,
		categoryID, platformIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("list matching category platforms: %w", err)
	}
	defer rows.Close()

	var items []models.CategoryPlatform
	for rows.Next() {
		cp, err := scanCategoryPlatform(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category platform: %w", err)
		}
		items = append(items, *cp)
	}
	return items, rows.Err()
}

// FindPair retrieves the attachment row for a (category, platform) pair.
// Returns nil if the pair is not attached.
func (s *AssociationStore) FindPair(categoryID, platformID uuid.UUID) (*models.CategoryPlatform, error) {
	row := s.db.QueryRow(
		`SELECT `+categoryPlatformColumns+` FROM category_platform
		 WHERE category_id = $1 AND platform_id = $2`,
		categoryID, platformID,
	)
	cp, err := scanCategoryPlatform(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category platform pair: %w", err)
	}
	return cp, nil
}

// BulkInsertTx inserts one attachment row per platform ID inside tx and
// returns the created rows. A conflicting pair returns a wrapped
// ErrDuplicate; with the category row locked this only fires if a writer
// bypassed the manager.
func (s *AssociationStore) BulkInsertTx(tx *sql.Tx, categoryID uuid.UUID, platformIDs []uuid.UUID) ([]models.CategoryPlatform, error) {
	if len(platformIDs) == 0 {
		return nil, nil
	}
	rows, err := tx.Query(
		`INSERT INTO category_platform (category_id, platform_id)
		 SELECT $1, unnest($2::uuid[])
		 RETURNING `+categoryPlatformColumns,
		categoryID, platformIDs,
	)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("attach category %s: %w", categoryID, ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("insert category platforms: %w", err)
	}
	defer rows.Close()

	var items []models.CategoryPlatform
	for rows.Next() {
		cp, err := scanCategoryPlatform(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inserted category platform: %w", err)
		}
		items = append(items, *cp)
	}
	if err := rows.Err(); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("attach category %s: %w", categoryID, ErrDuplicate)
		}
		return nil, fmt.Errorf("insert category platforms: %w", err)
	}
	return items, nil
}

// DeleteByCategoryAndPlatforms bulk-deletes the attachment rows matching
// categoryID and any of platformIDs, returning the removed rows.
// Dependent tool placements cascade away at the database level.
func (s *AssociationStore) DeleteByCategoryAndPlatforms(categoryID uuid.UUID, platformIDs []uuid.UUID) ([]models.CategoryPlatform, error) {
	if len(platformIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.Query(
		`DELETE FROM category_platform
		 WHERE category_id = $1 AND platform_id = ANY($2)
		 RETURNING `+categoryPlatformColumns,
		categoryID, platformIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("delete category platforms: %w", err)
	}
	defer rows.Close()

	var items []models.CategoryPlatform
	for rows.Next() {
		cp, err := scanCategoryPlatform(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deleted category platform: %w", err)
		}
		items = append(items, *cp)
	}
	return items, rows.Err()
}

// --- Tool placements (tool_category_platform) ---

const toolPlacementColumns = `id, tool_id, category_platform_id, created_at, updated_at`

// scanToolPlacement scans a row into a ToolCategoryPlatform struct.
func scanToolPlacement(scanner interface{ Scan(...any) error }) (*models.ToolCategoryPlatform, error) {
	var tp models.ToolCategoryPlatform
	err := scanner.Scan(&tp.ID, &tp.ToolID, &tp.CategoryPlatformID, &tp.CreatedAt, &tp.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &tp, nil
}

// InsertToolPlacement places a tool into a (category, platform) slot.
// Placing the same tool into the same slot twice is an idempotent no-op:
// the existing row is returned.
func (s *AssociationStore) InsertToolPlacement(toolID, categoryPlatformID uuid.UUID) (*models.ToolCategoryPlatform, error) {
	row := s.db.QueryRow(
		`INSERT INTO tool_category_platform (tool_id, category_platform_id)
		 VALUES ($1, $2)
		 ON CONFLICT (tool_id, category_platform_id) DO NOTHING
		 RETURNING `+toolPlacementColumns,
		toolID, categoryPlatformID,
	)
	tp, err := scanToolPlacement(row)
	if err == sql.ErrNoRows {
		// Conflict path: the placement already exists.
		return s.findToolPlacement(toolID, categoryPlatformID)
	}
	if err != nil {
		return nil, fmt.Errorf("insert tool placement: %w", err)
	}
	return tp, nil
}

func (s *AssociationStore) findToolPlacement(toolID, categoryPlatformID uuid.UUID) (*models.ToolCategoryPlatform, error) {
	row := s.db.QueryRow(
		`SELECT `+toolPlacementColumns+` FROM tool_category_platform
		 WHERE tool_id = $1 AND category_platform_id = $2`,
		toolID, categoryPlatformID,
	)
	tp, err := scanToolPlacement(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tool placement: %w", err)
	}
	return tp, nil
}

// DeleteToolPlacement removes a tool from a (category, platform) slot.
// Returns false if no row matched.
func (s *AssociationStore) DeleteToolPlacement(toolID, categoryPlatformID uuid.UUID) (bool, error) {
	res, err := s.db.Exec(
		`DELETE FROM tool_category_platform
		 WHERE tool_id = $1 AND category_platform_id = $2`,
		toolID, categoryPlatformID,
	)
	if err != nil {
		return false, fmt.Errorf("delete tool placement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete tool placement rows affected: %w", err)
	}
	return n > 0, nil
}

// ListToolTags returns a tool's placements resolved to category and
// platform names, via a single three-way join.
func (s *AssociationStore) ListToolTags(toolID uuid.UUID) ([]models.ToolTag, error) {
	rows, err := s.db.Query(`
		SELECT cp.id, c.id, c.name, p.id, p.name
		FROM tool_category_platform tcp
		JOIN category_platform cp ON cp.id = tcp.category_platform_id
		JOIN categories c ON c.id = cp.category_id
		JOIN platforms p ON p.id = cp.platform_id
		WHERE tcp.tool_id = $1
		ORDER BY c.name, p.name
	`, toolID)
	if err != nil {
		return nil, fmt.Errorf("list tool tags: %w", err)
	}
	defer rows.Close()

	var tags []models.ToolTag
	for rows.Next() {
		var t models.ToolTag
		err := rows.Scan(&t.CategoryPlatformID, &t.CategoryID, &t.CategoryName, &t.PlatformID, &t.PlatformName)
		if err != nil {
			return nil, fmt.Errorf("scan tool tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
