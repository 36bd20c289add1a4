package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/rootv890/discovery-5/internal/models"
	"github.com/rootv890/discovery-5/internal/pagination"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, description, image_url, platform_constraint, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Description, &c.ImageURL,
		&c.PlatformConstraint, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns a page of categories plus the total count.
func (s *CategoryStore) List(params pagination.Params) ([]models.Category, int, error) {
	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM categories`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM categories ORDER BY %s %s LIMIT $1 OFFSET $2`,
		categoryColumns, params.SortColumn(), params.OrderSQL(),
	)
	rows, err := s.db.Query(query, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, total, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	return s.findByID(s.db, id, false)
}

// FindByIDForUpdate retrieves a category inside tx with a row-level lock
// (SELECT ... FOR UPDATE). The catalog manager uses it to serialize
// concurrent attachment checks for the same category. Returns nil if not
// found.
func (s *CategoryStore) FindByIDForUpdate(tx *sql.Tx, id uuid.UUID) (*models.Category, error) {
	return s.findByID(tx, id, true)
}

func (s *CategoryStore) findByID(q querier, id uuid.UUID, forUpdate bool) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	c, err := scanCategory(q.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindByIDsIn retrieves all categories whose ID is in ids, using a single
// set-membership query rather than one lookup per ID.
func (s *CategoryStore) FindByIDsIn(ids []uuid.UUID) ([]models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.Query(`SELECT `+categoryColumns+` FROM categories WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("find categories by ids: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Exists reports whether a category with the given ID exists.
func (s *CategoryStore) Exists(id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("category exists: %w", err)
	}
	return exists, nil
}

// ExistsByName reports whether a category with the given name exists.
func (s *CategoryStore) ExistsByName(name string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM categories WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("category exists by name: %w", err)
	}
	return exists, nil
}

// CreateTx inserts a new category inside tx and returns it. Name
// collisions return a wrapped ErrDuplicate. Category creation always
// happens inside the manager's transaction so the row and its initial
// platform attachments commit together.
func (s *CategoryStore) CreateTx(tx *sql.Tx, c *models.Category) (*models.Category, error) {
	row := tx.QueryRow(`
		INSERT INTO categories (name, description, image_url, platform_constraint)
		VALUES ($1, $2, $3, $4)
		RETURNING `+categoryColumns,
		c.Name, c.Description, c.ImageURL, c.PlatformConstraint,
	)
	result, err := scanCategory(row)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("create category %q: %w", c.Name, ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Delete removes a category by ID and returns its id and name, or nil if
// no row matched. Association rows cascade away at the database level.
func (s *CategoryStore) Delete(id uuid.UUID) (*models.Category, error) {
	var c models.Category
	err := s.db.QueryRow(
		`DELETE FROM categories WHERE id = $1 RETURNING id, name`, id,
	).Scan(&c.ID, &c.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete category: %w", err)
	}
	return &c, nil
}
