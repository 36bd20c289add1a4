package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/rootv890/discovery-5/internal/models"
)

// VoteStore manages per-user tool votes.
type VoteStore struct {
	db *sql.DB
}

// NewVoteStore returns a new VoteStore.
func NewVoteStore(db *sql.DB) *VoteStore {
	return &VoteStore{db: db}
}

const voteColumns = `id, user_id, tool_id, vote_type, created_at, updated_at`

// Cast records or replaces a user's vote on a tool. One row per
// (user, tool) is kept; re-voting updates in place.
func (s *VoteStore) Cast(userID, toolID uuid.UUID, voteType models.VoteType) (*models.Vote, error) {
	row := s.db.QueryRow(`
		INSERT INTO votes (user_id, tool_id, vote_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, tool_id)
		DO UPDATE SET vote_type = EXCLUDED.vote_type, updated_at = NOW()
		RETURNING `+voteColumns,
		userID, toolID, voteType,
	)

	var v models.Vote
	err := row.Scan(&v.ID, &v.UserID, &v.ToolID, &v.VoteType, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("cast vote: %w", err)
	}
	return &v, nil
}

// Find retrieves a user's vote on a tool. Returns nil if the user never
// voted on it.
func (s *VoteStore) Find(userID, toolID uuid.UUID) (*models.Vote, error) {
	row := s.db.QueryRow(
		`SELECT `+voteColumns+` FROM votes WHERE user_id = $1 AND tool_id = $2`,
		userID, toolID,
	)
	var v models.Vote
	err := row.Scan(&v.ID, &v.UserID, &v.ToolID, &v.VoteType, &v.CreatedAt, &v.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find vote: %w", err)
	}
	return &v, nil
}

// CountsForTool returns the up/down tallies for a tool.
func (s *VoteStore) CountsForTool(toolID uuid.UUID) (up, down int, err error) {
	err = s.db.QueryRow(`
		SELECT COUNT(*) FILTER (WHERE vote_type = 'UPVOTE'),
		       COUNT(*) FILTER (WHERE vote_type = 'DOWNVOTE')
		FROM votes WHERE tool_id = $1
	`, toolID).Scan(&up, &down)
	if err != nil {
		return 0, 0, fmt.Errorf("count votes: %w", err)
	}
	return up, down, nil
}
