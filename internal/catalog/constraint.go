package catalog

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/rootv890/discovery-5/internal/models"
)

// AttachmentDecision is the outcome of a permitted attachment check.
type AttachmentDecision struct {
	// ToInsert is the de-duplicated list of platform IDs to actually
	// attach. May be empty when every requested platform was already
	// attached (an idempotent no-op, not an error).
	ToInsert []uuid.UUID

	// Skipped lists requested platforms filtered out because the
	// category is already attached to them.
	Skipped []uuid.UUID
}

// DecideAttachment applies the platform-constraint rules to a candidate
// attachment. category carries the constraint, existing is the set of
// platform IDs the category is currently attached to, and requested is
// the normalized (trimmed, de-duplicated) set the caller wants to add.
//
// SINGLE: existing attachments plus new insertions must total exactly
// one. NONE: any positive number of platforms, with already-attached
// ones silently skipped.
//
// Pure decision logic: no I/O, no side effects. The manager calls it
// after loading the category under a row lock so the decision and the
// insert that follows act on the same snapshot.
func DecideAttachment(category *models.Category, existing, requested []uuid.UUID) (*AttachmentDecision, error) {
	attached := make(map[uuid.UUID]bool, len(existing))
	for _, id := range existing {
		attached[id] = true
	}

	decision := &AttachmentDecision{}
	for _, id := range requested {
		if attached[id] {
			decision.Skipped = append(decision.Skipped, id)
			continue
		}
		decision.ToInsert = append(decision.ToInsert, id)
	}

	switch category.PlatformConstraint {
	case models.ConstraintSingle:
		if len(existing)+len(decision.ToInsert) > 1 {
			return nil, &ConstraintViolationError{
				Reason:     SingleExceeded,
				CategoryID: category.ID.String(),
				Msg: fmt.Sprintf(
					"category %q is restricted to a single platform (%d attached, %d requested)",
					category.Name, len(existing), len(decision.ToInsert),
				),
			}
		}
	case models.ConstraintNone:
		// One or more platforms; nothing to check beyond duplicate
		// suppression above.
	default:
		return nil, &ConstraintViolationError{
			Reason:     InvalidConstraintValue,
			CategoryID: category.ID.String(),
			Msg:        fmt.Sprintf("category %q has unknown platform constraint %q", category.Name, category.PlatformConstraint),
		}
	}

	return decision, nil
}
