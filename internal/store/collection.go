package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/rootv890/discovery-5/internal/models"
)

// CollectionStore manages user tool collections.
type CollectionStore struct {
	db *sql.DB
}

// NewCollectionStore returns a new CollectionStore.
func NewCollectionStore(db *sql.DB) *CollectionStore {
	return &CollectionStore{db: db}
}

const collectionColumns = `id, name, user_id, description, is_public, created_at, updated_at`

// scanCollection scans a row into a Collection struct.
func scanCollection(scanner interface{ Scan(...any) error }) (*models.Collection, error) {
	var c models.Collection
	err := scanner.Scan(
		&c.ID, &c.Name, &c.UserID, &c.Description, &c.IsPublic,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a collection. A second collection with the same name for
// the same user returns a wrapped ErrDuplicate.
func (s *CollectionStore) Create(c *models.Collection) (*models.Collection, error) {
	row := s.db.QueryRow(`
		INSERT INTO collections (name, user_id, description, is_public)
		VALUES ($1, $2, $3, $4)
		RETURNING `+collectionColumns,
		c.Name, c.UserID, c.Description, c.IsPublic,
	)
	created, err := scanCollection(row)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("create collection %q: %w", c.Name, ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return created, nil
}

// ListByUser returns a user's collections with tool counts.
func (s *CollectionStore) ListByUser(userID uuid.UUID) ([]models.Collection, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.user_id, c.description, c.is_public,
		       c.created_at, c.updated_at,
		       COUNT(ct.id) AS tool_count
		FROM collections c
		LEFT JOIN collection_tools ct ON ct.collection_id = c.id
		WHERE c.user_id = $1
		GROUP BY c.id
		ORDER BY c.name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	var items []models.Collection
	for rows.Next() {
		var c models.Collection
		err := rows.Scan(
			&c.ID, &c.Name, &c.UserID, &c.Description, &c.IsPublic,
			&c.CreatedAt, &c.UpdatedAt, &c.ToolCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindByID retrieves a collection by ID. Returns nil if not found.
func (s *CollectionStore) FindByID(id uuid.UUID) (*models.Collection, error) {
	row := s.db.QueryRow(`SELECT `+collectionColumns+` FROM collections WHERE id = $1`, id)
	c, err := scanCollection(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find collection: %w", err)
	}
	return c, nil
}

// AddTool places a tool in a collection. Adding a tool that is already in
// the collection is a no-op; returns true if a row was inserted.
func (s *CollectionStore) AddTool(collectionID, toolID uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`
		INSERT INTO collection_tools (collection_id, tool_id)
		VALUES ($1, $2)
		ON CONFLICT (collection_id, tool_id) DO NOTHING`,
		collectionID, toolID,
	)
	if err != nil {
		return false, fmt.Errorf("add tool to collection: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add tool rows affected: %w", err)
	}
	return n > 0, nil
}

// RemoveTool takes a tool out of a collection. Returns false if the tool
// was not in it.
func (s *CollectionStore) RemoveTool(collectionID, toolID uuid.UUID) (bool, error) {
	res, err := s.db.Exec(
		`DELETE FROM collection_tools WHERE collection_id = $1 AND tool_id = $2`,
		collectionID, toolID,
	)
	if err != nil {
		return false, fmt.Errorf("remove tool from collection: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove tool rows affected: %w", err)
	}
	return n > 0, nil
}

// Delete removes a collection. Its membership rows cascade away. Returns
// false if no row matched.
func (s *CollectionStore) Delete(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM collections WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete collection: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete collection rows affected: %w", err)
	}
	return n > 0, nil
}
