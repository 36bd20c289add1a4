package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a flat (non-threaded) user comment on a tool.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ToolID    uuid.UUID `json:"tool_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// AuthorUsername is joined in by the store for display.
	AuthorUsername string `json:"author_username,omitempty"`
}
