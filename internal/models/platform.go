// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Platform represents a delivery platform tools can target, e.g. Web,
// Desktop, Mobile (iOS), Command Line (CLI). Names are unique system-wide.
type Platform struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Categories is populated by the query layer when listing platforms
	// with their attached categories. Empty otherwise.
	Categories []Category `json:"categories,omitempty"`
}
