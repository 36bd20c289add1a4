package models

import (
	"time"

	"github.com/google/uuid"
)

// PlatformConstraint controls how many platforms a category may be
// attached to.
type PlatformConstraint string

const (
	// ConstraintNone allows the category on one or more platforms.
	// The name is historical: "no constraint", not "no platforms".
	ConstraintNone PlatformConstraint = "NONE"

	// ConstraintSingle restricts the category to exactly one platform.
	ConstraintSingle PlatformConstraint = "SINGLE"
)

// Valid reports whether the constraint is one of the known values.
// The column is an enum, but the value can also arrive from request
// payloads, so it must be checked before use.
func (pc PlatformConstraint) Valid() bool {
	return pc == ConstraintNone || pc == ConstraintSingle
}

// Category represents a tool category, e.g. "UI Design" or "AI Tools".
// A category is offered under one or more platforms through the
// category_platform association table, governed by PlatformConstraint.
type Category struct {
	ID                 uuid.UUID          `json:"id"`
	Name               string             `json:"name"`
	Description        string             `json:"description"`
	ImageURL           string             `json:"image_url"`
	PlatformConstraint PlatformConstraint `json:"platform_constraint"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`

	// Platforms is populated by the query layer. Empty otherwise.
	Platforms []Platform `json:"platforms,omitempty"`
}
