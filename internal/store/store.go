// Package store contains the data access layer. Each table gets its own
// store struct holding a *sql.DB; all SQL lives here.
package store

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicate is returned (wrapped) when an insert hits a unique index:
// entity names, the (category_id, platform_id) pair, the
// (tool_id, category_platform_id) pair, or a waitlist email. Callers
// detect it with errors.Is and decide whether it means "name taken",
// "already attached", or a lost race.
var ErrDuplicate = errors.New("duplicate row")

// uniqueViolation is the PostgreSQL SQLSTATE for unique index conflicts.
const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a Postgres unique-constraint
// error. The unique indexes double as the final enforcement boundary for
// the application-level duplicate checks.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// querier is satisfied by both *sql.DB and *sql.Tx, letting store helpers
// run inside or outside a transaction.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
}
