package models

import (
	"time"

	"github.com/google/uuid"
)

// WaitlistRole captures what kind of work a waitlist signup does.
type WaitlistRole string

const (
	WaitlistDesigner  WaitlistRole = "designer"
	WaitlistDeveloper WaitlistRole = "developer"
	WaitlistBoth      WaitlistRole = "both"
	WaitlistOther     WaitlistRole = "other"
)

// Valid reports whether the role is one of the known values.
func (r WaitlistRole) Valid() bool {
	switch r {
	case WaitlistDesigner, WaitlistDeveloper, WaitlistBoth, WaitlistOther:
		return true
	}
	return false
}

// WaitlistEntry is a pre-launch signup from the marketing site.
type WaitlistEntry struct {
	ID        uuid.UUID    `json:"id"`
	Email     string       `json:"email"`
	Name      string       `json:"name"`
	Role      WaitlistRole `json:"role"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
