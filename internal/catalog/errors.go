// Package catalog implements the category/platform/tool relationship
// engine: the constraint rules deciding which platforms a category may be
// attached to, the attach/detach/create workflows, and the read-side
// composition of denormalized views.
package catalog

import "fmt"

// EntityKind names the entity a NotFoundError or DuplicateNameError
// refers to.
type EntityKind string

const (
	KindPlatform    EntityKind = "platform"
	KindCategory    EntityKind = "category"
	KindTool        EntityKind = "tool"
	KindAssociation EntityKind = "association"
	KindComment     EntityKind = "comment"
	KindCollection  EntityKind = "collection"
)

// ValidationError reports a malformed request shape, e.g. a SINGLE
// category created with zero or several platform IDs.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// InvalidIdentifierError reports an ID that fails UUID validation.
type InvalidIdentifierError struct {
	Field string
	Value string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid %s: %q is not a valid identifier", e.Field, e.Value)
}

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Kind EntityKind
	ID   string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Kind)
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// DuplicateNameError reports a uniqueness violation on entity creation.
type DuplicateNameError struct {
	Kind EntityKind
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s named %q already exists", e.Kind, e.Name)
}

// ConstraintReason identifies why an attachment was rejected by the
// platform-constraint rules.
type ConstraintReason string

const (
	// SingleExceeded: the attach would give a SINGLE category more than
	// one platform.
	SingleExceeded ConstraintReason = "SINGLE_EXCEEDED"

	// InvalidConstraintValue: the category's platform_constraint is
	// neither SINGLE nor NONE. Should be unreachable given the enum
	// column, but the value also arrives from request payloads.
	InvalidConstraintValue ConstraintReason = "INVALID_CONSTRAINT_VALUE"
)

// ConstraintViolationError reports an attachment rejected by the
// constraint engine.
type ConstraintViolationError struct {
	Reason     ConstraintReason
	CategoryID string
	Msg        string
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("constraint violation (%s): %s", e.Reason, e.Msg)
}
