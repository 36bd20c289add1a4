package models

import (
	"time"

	"github.com/google/uuid"
)

// CategoryPlatform is the association row stating "category X is offered
// under platform Y". Unique on (category_id, platform_id). Rows are created
// and destroyed only through the catalog manager, never written directly.
type CategoryPlatform struct {
	ID         uuid.UUID `json:"id"`
	CategoryID uuid.UUID `json:"category_id"`
	PlatformID uuid.UUID `json:"platform_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ToolCategoryPlatform places a tool into a specific (category, platform)
// slot by referencing a CategoryPlatform row. Unique on
// (tool_id, category_platform_id). Deleting the tool, the category, or the
// platform cascades through this table.
type ToolCategoryPlatform struct {
	ID                 uuid.UUID `json:"id"`
	ToolID             uuid.UUID `json:"tool_id"`
	CategoryPlatformID uuid.UUID `json:"category_platform_id"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ToolTag is the denormalized view of one tool placement: which category
// and platform the slot belongs to, resolved to names for display.
type ToolTag struct {
	CategoryPlatformID uuid.UUID `json:"category_platform_id"`
	CategoryID         uuid.UUID `json:"category_id"`
	CategoryName       string    `json:"category_name"`
	PlatformID         uuid.UUID `json:"platform_id"`
	PlatformName       string    `json:"platform_name"`
}
