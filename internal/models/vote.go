package models

import (
	"time"

	"github.com/google/uuid"
)

// VoteType is a user's vote state on a tool. NONE means the vote was
// retracted; the row is kept so re-voting stays a single upsert.
type VoteType string

const (
	VoteUp   VoteType = "UPVOTE"
	VoteDown VoteType = "DOWNVOTE"
	VoteNone VoteType = "NONE"
)

// Valid reports whether the vote type is one of the known values.
func (v VoteType) Valid() bool {
	return v == VoteUp || v == VoteDown || v == VoteNone
}

// Vote records one user's vote on one tool. Unique on (user_id, tool_id).
type Vote struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ToolID    uuid.UUID `json:"tool_id"`
	VoteType  VoteType  `json:"vote_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
