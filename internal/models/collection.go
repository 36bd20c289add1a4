package models

import (
	"time"

	"github.com/google/uuid"
)

// Collection is a user-curated set of tools. Names are unique per user.
type Collection struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	UserID      uuid.UUID `json:"user_id"`
	Description string    `json:"description"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// ToolCount is populated by list queries.
	ToolCount int `json:"tool_count"`
}
