package store

import (
	"database/sql"
	"fmt"

	"github.com/rootv890/discovery-5/internal/models"
)

// WaitlistStore manages pre-launch signups.
type WaitlistStore struct {
	db *sql.DB
}

// NewWaitlistStore returns a new WaitlistStore.
func NewWaitlistStore(db *sql.DB) *WaitlistStore {
	return &WaitlistStore{db: db}
}

const waitlistColumns = `id, email, name, role, created_at, updated_at`

// Create inserts a waitlist signup. A repeat signup with the same email
// returns a wrapped ErrDuplicate.
func (s *WaitlistStore) Create(e *models.WaitlistEntry) (*models.WaitlistEntry, error) {
	row := s.db.QueryRow(`
		INSERT INTO waitlist (email, name, role)
		VALUES ($1, $2, $3)
		RETURNING `+waitlistColumns,
		e.Email, e.Name, e.Role,
	)

	var created models.WaitlistEntry
	err := row.Scan(&created.ID, &created.Email, &created.Name, &created.Role, &created.CreatedAt, &created.UpdatedAt)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("waitlist signup %q: %w", e.Email, ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("create waitlist entry: %w", err)
	}
	return &created, nil
}

// Count returns the number of signups.
func (s *WaitlistStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM waitlist`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count waitlist: %w", err)
	}
	return n, nil
}
