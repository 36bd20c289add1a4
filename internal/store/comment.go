package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/rootv890/discovery-5/internal/models"
)

// CommentStore manages tool comments.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore returns a new CommentStore.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

// Create inserts a comment and returns it.
func (s *CommentStore) Create(userID, toolID uuid.UUID, content string) (*models.Comment, error) {
	row := s.db.QueryRow(`
		INSERT INTO comments (user_id, tool_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, tool_id, content, created_at, updated_at`,
		userID, toolID, content,
	)
	var c models.Comment
	err := row.Scan(&c.ID, &c.UserID, &c.ToolID, &c.Content, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return &c, nil
}

// ListByTool returns all comments on a tool, newest first, with the
// author's username joined in.
func (s *CommentStore) ListByTool(toolID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.user_id, c.tool_id, c.content, c.created_at, c.updated_at, u.username
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.tool_id = $1
		ORDER BY c.created_at DESC
	`, toolID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var items []models.Comment
	for rows.Next() {
		var c models.Comment
		err := rows.Scan(&c.ID, &c.UserID, &c.ToolID, &c.Content, &c.CreatedAt, &c.UpdatedAt, &c.AuthorUsername)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindByID retrieves a comment by ID. Returns nil if not found.
func (s *CommentStore) FindByID(id uuid.UUID) (*models.Comment, error) {
	row := s.db.QueryRow(
		`SELECT id, user_id, tool_id, content, created_at, updated_at FROM comments WHERE id = $1`, id,
	)
	var c models.Comment
	err := row.Scan(&c.ID, &c.UserID, &c.ToolID, &c.Content, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return &c, nil
}

// Delete removes a comment by ID. Returns false if no row matched.
func (s *CommentStore) Delete(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete comment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete comment rows affected: %w", err)
	}
	return n > 0, nil
}
