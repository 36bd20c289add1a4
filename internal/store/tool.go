package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/rootv890/discovery-5/internal/models"
	"github.com/rootv890/discovery-5/internal/pagination"
)

// ToolStore manages tools in the database.
type ToolStore struct {
	db *sql.DB
}

// NewToolStore returns a new ToolStore.
func NewToolStore(db *sql.DB) *ToolStore {
	return &ToolStore{db: db}
}

const toolColumns = `id, name, description, image_url, thumbnail_urls, approval_status, is_new, created_at, updated_at`

// scanTool scans a row into a Tool struct.
func scanTool(scanner interface{ Scan(...any) error }) (*models.Tool, error) {
	var t models.Tool
	err := scanner.Scan(
		&t.ID, &t.Name, &t.Description, &t.ImageURL, &t.Thumbnails,
		&t.ApprovalStatus, &t.IsNew, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns a page of tools plus the total count, with vote tallies
// aggregated in the same query.
func (s *ToolStore) List(params pagination.Params) ([]models.Tool, int, error) {
	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM tools`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tools: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT t.id, t.name, t.description, t.image_url, t.thumbnail_urls,
		       t.approval_status, t.is_new, t.created_at, t.updated_at,
		       COUNT(*) FILTER (WHERE v.vote_type = 'UPVOTE')   AS upvotes,
		       COUNT(*) FILTER (WHERE v.vote_type = 'DOWNVOTE') AS downvotes
		FROM tools t
		LEFT JOIN votes v ON v.tool_id = t.id
		GROUP BY t.id
		ORDER BY t.%s %s
		LIMIT $1 OFFSET $2`,
		params.SortColumn(), params.OrderSQL(),
	)
	rows, err := s.db.Query(query, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list tools: %w", err)
	}
	defer rows.Close()

	var items []models.Tool
	for rows.Next() {
		var t models.Tool
		err := rows.Scan(
			&t.ID, &t.Name, &t.Description, &t.ImageURL, &t.Thumbnails,
			&t.ApprovalStatus, &t.IsNew, &t.CreatedAt, &t.UpdatedAt,
			&t.Upvotes, &t.Downvotes,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan tool: %w", err)
		}
		items = append(items, t)
	}
	return items, total, rows.Err()
}

// FindByID retrieves a tool by ID with vote tallies. Returns nil if not
// found.
func (s *ToolStore) FindByID(id uuid.UUID) (*models.Tool, error) {
	row := s.db.QueryRow(`
		SELECT t.id, t.name, t.description, t.image_url, t.thumbnail_urls,
		       t.approval_status, t.is_new, t.created_at, t.updated_at,
		       COUNT(*) FILTER (WHERE v.vote_type = 'UPVOTE')   AS upvotes,
		       COUNT(*) FILTER (WHERE v.vote_type = 'DOWNVOTE') AS downvotes
		FROM tools t
		LEFT JOIN votes v ON v.tool_id = t.id
		WHERE t.id = $1
		GROUP BY t.id
	`, id)

	var t models.Tool
	err := row.Scan(
		&t.ID, &t.Name, &t.Description, &t.ImageURL, &t.Thumbnails,
		&t.ApprovalStatus, &t.IsNew, &t.CreatedAt, &t.UpdatedAt,
		&t.Upvotes, &t.Downvotes,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tool by id: %w", err)
	}
	return &t, nil
}

// Exists reports whether a tool with the given ID exists.
func (s *ToolStore) Exists(id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM tools WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("tool exists: %w", err)
	}
	return exists, nil
}

// ExistsByName reports whether a tool with the given name exists.
func (s *ToolStore) ExistsByName(name string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM tools WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("tool exists by name: %w", err)
	}
	return exists, nil
}

// Create inserts a new tool and returns it. Name collisions return a
// wrapped ErrDuplicate.
func (s *ToolStore) Create(t *models.Tool) (*models.Tool, error) {
	row := s.db.QueryRow(`
		INSERT INTO tools (name, description, image_url, thumbnail_urls, approval_status, is_new)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+toolColumns,
		t.Name, t.Description, t.ImageURL, t.Thumbnails, t.ApprovalStatus, t.IsNew,
	)
	result, err := scanTool(row)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("create tool %q: %w", t.Name, ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("create tool: %w", err)
	}
	return result, nil
}

// Update modifies an existing tool and returns the updated row. Returns
// nil if the tool does not exist.
func (s *ToolStore) Update(t *models.Tool) (*models.Tool, error) {
	row := s.db.QueryRow(`
		UPDATE tools SET
			name = $1, description = $2, image_url = $3, thumbnail_urls = $4,
			approval_status = $5, is_new = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING `+toolColumns,
		t.Name, t.Description, t.ImageURL, t.Thumbnails, t.ApprovalStatus, t.IsNew, t.ID,
	)
	result, err := scanTool(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("update tool %q: %w", t.Name, ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("update tool: %w", err)
	}
	return result, nil
}

// Delete removes a tool by ID. Placements, votes, and comments referencing
// it cascade away. Returns false if no row matched.
func (s *ToolStore) Delete(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM tools WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete tool: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete tool rows affected: %w", err)
	}
	return n > 0, nil
}

// JoinByCategory returns tools placed under the given category through
// any platform. A tool reachable through several platforms appears once
// per platform; the query layer de-duplicates.
func (s *ToolStore) JoinByCategory(categoryID uuid.UUID) ([]models.Tool, error) {
	return s.joinByPair(`cp.category_id`, categoryID)
}

// JoinByPlatform returns tools placed under the given platform through
// any category, with the same repeat caveat as JoinByCategory.
func (s *ToolStore) JoinByPlatform(platformID uuid.UUID) ([]models.Tool, error) {
	return s.joinByPair(`cp.platform_id`, platformID)
}

// joinByPair runs the Tool → ToolCategoryPlatform → CategoryPlatform join
// filtered on the given column. column is one of two fixed strings, never
// user input.
func (s *ToolStore) joinByPair(column string, id uuid.UUID) ([]models.Tool, error) {
	query := fmt.Sprintf(`
		SELECT t.id, t.name, t.description, t.image_url, t.thumbnail_urls,
		       t.approval_status, t.is_new, t.created_at, t.updated_at
		FROM tools t
		JOIN tool_category_platform tcp ON tcp.tool_id = t.id
		JOIN category_platform cp ON cp.id = tcp.category_platform_id
		WHERE %s = $1
		ORDER BY t.name`, column)

	rows, err := s.db.Query(query, id)
	if err != nil {
		return nil, fmt.Errorf("join tools: %w", err)
	}
	defer rows.Close()

	var items []models.Tool
	for rows.Next() {
		t, err := scanTool(rows)
		if err != nil {
			return nil, fmt.Errorf("scan joined tool: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}
