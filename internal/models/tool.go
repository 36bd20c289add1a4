package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ApprovalStatus tracks a submitted tool through the moderation pipeline.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
	ApprovalDraft    ApprovalStatus = "DRAFT"
)

// Valid reports whether the status is one of the known values.
func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected, ApprovalDraft:
		return true
	}
	return false
}

// ThumbnailURLs holds responsive thumbnail variants for a tool.
// Stored as a jsonb column; any variant may be absent.
type ThumbnailURLs struct {
	Small  string `json:"small,omitempty"`  // 320-480px wide, mobile
	Medium string `json:"medium,omitempty"` // 768-1024px wide, tablet
	Large  string `json:"large,omitempty"`  // 1200px+, desktop
}

// Value implements driver.Valuer so the struct can be written to jsonb.
func (t ThumbnailURLs) Value() (driver.Value, error) {
	return json.Marshal(t)
}

// Scan implements sql.Scanner for reading the jsonb column.
// A NULL column leaves the struct zeroed.
func (t *ThumbnailURLs) Scan(src any) error {
	if src == nil {
		*t = ThumbnailURLs{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	}
	return fmt.Errorf("thumbnail urls: unsupported scan type %T", src)
}

// Tool represents a design/development tool listed in the directory.
// Tools are placed into (category, platform) slots via the
// tool_category_platform association table, never into a category or
// platform on its own.
type Tool struct {
	ID             uuid.UUID      `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	ImageURL       string         `json:"image_url"`
	Thumbnails     ThumbnailURLs  `json:"thumbnail_urls"`
	ApprovalStatus ApprovalStatus `json:"approval_status"`
	IsNew          bool           `json:"is_new"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	// Virtual fields populated by store methods.
	Upvotes   int       `json:"upvotes"`
	Downvotes int       `json:"downvotes"`
	Tags      []ToolTag `json:"tags,omitempty"`
}
