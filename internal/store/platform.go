package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/rootv890/discovery-5/internal/models"
	"github.com/rootv890/discovery-5/internal/pagination"
)

// PlatformStore manages platforms in the database.
type PlatformStore struct {
	db *sql.DB
}

// NewPlatformStore returns a new PlatformStore.
func NewPlatformStore(db *sql.DB) *PlatformStore {
	return &PlatformStore{db: db}
}

const platformColumns = `id, name, description, image_url, created_at, updated_at`

// scanPlatform scans a row into a Platform struct.
func scanPlatform(scanner interface{ Scan(...any) error }) (*models.Platform, error) {
	var p models.Platform
	err := scanner.Scan(
		&p.ID, &p.Name, &p.Description, &p.ImageURL,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns a page of platforms plus the total count.
func (s *PlatformStore) List(params pagination.Params) ([]models.Platform, int, error) {
	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM platforms`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count platforms: %w", err)
	}

	// Sort column comes from the whitelist in pagination.FromQuery, never
	// from raw user input.
	query := fmt.Sprintf(
		`SELECT %s FROM platforms ORDER BY %s %s LIMIT $1 OFFSET $2`,
		platformColumns, params.SortColumn(), params.OrderSQL(),
	)
	rows, err := s.db.Query(query, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list platforms: %w", err)
	}
	defer rows.Close()

	var items []models.Platform
	for rows.Next() {
		p, err := scanPlatform(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan platform: %w", err)
		}
		items = append(items, *p)
	}
	return items, total, rows.Err()
}

// FindByID retrieves a platform by ID. Returns nil if not found.
func (s *PlatformStore) FindByID(id uuid.UUID) (*models.Platform, error) {
	row := s.db.QueryRow(`SELECT `+platformColumns+` FROM platforms WHERE id = $1`, id)
	p, err := scanPlatform(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find platform by id: %w", err)
	}
	return p, nil
}

// FindByIDsIn retrieves all platforms whose ID is in ids, using a single
// set-membership query. Order of the result is unspecified.
func (s *PlatformStore) FindByIDsIn(ids []uuid.UUID) ([]models.Platform, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.Query(`SELECT `+platformColumns+` FROM platforms WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("find platforms by ids: %w", err)
	}
	defer rows.Close()

	var items []models.Platform
	for rows.Next() {
		p, err := scanPlatform(rows)
		if err != nil {
			return nil, fmt.Errorf("scan platform: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// Exists reports whether a platform with the given ID exists.
func (s *PlatformStore) Exists(id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM platforms WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("platform exists: %w", err)
	}
	return exists, nil
}

// ExistsByName reports whether a platform with the given name exists.
func (s *PlatformStore) ExistsByName(name string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM platforms WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("platform exists by name: %w", err)
	}
	return exists, nil
}

// Create inserts a new platform and returns it. Name collisions return
// a wrapped ErrDuplicate.
func (s *PlatformStore) Create(p *models.Platform) (*models.Platform, error) {
	row := s.db.QueryRow(`
		INSERT INTO platforms (name, description, image_url)
		VALUES ($1, $2, $3)
		RETURNING `+platformColumns,
		p.Name, p.Description, p.ImageURL,
	)
	result, err := scanPlatform(row)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("create platform %q: %w", p.Name, ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("create platform: %w", err)
	}
	return result, nil
}

// Update modifies an existing platform and returns the updated row.
// Returns nil if the platform does not exist.
func (s *PlatformStore) Update(p *models.Platform) (*models.Platform, error) {
	row := s.db.QueryRow(`
		UPDATE platforms SET
			name = $1, description = $2, image_url = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING `+platformColumns,
		p.Name, p.Description, p.ImageURL, p.ID,
	)
	result, err := scanPlatform(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("update platform %q: %w", p.Name, ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("update platform: %w", err)
	}
	return result, nil
}

// Delete removes a platform by ID. Association rows cascade away at the
// database level. Returns false if no row matched.
func (s *PlatformStore) Delete(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM platforms WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete platform: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete platform rows affected: %w", err)
	}
	return n > 0, nil
}
