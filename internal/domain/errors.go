package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for simple conditions without extra context. ErrNotFound
// covers both missing and cross-org rows so existence never leaks between
// tenants.
var (
	ErrNotFound               = errors.New("not found")
	ErrSystemStatus           = errors.New("cannot delete system status")
	ErrSelfLoop               = errors.New("transition cannot target its own status")
	ErrConcurrentModification = errors.New("entity status changed concurrently")
)

// DuplicateCodeError is returned when a status code already exists for the
// org and status type.
type DuplicateCodeError struct {
	Code string
}

func (e *DuplicateCodeError) Error() string {
	return fmt.Sprintf("status code %q is already in use", e.Code)
}

// InvalidCodeError is returned when a status code is not lowercase letters
// and underscores.
type InvalidCodeError struct {
	Code string
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("status code %q must be lowercase letters and underscores", e.Code)
}

// SystemFieldLockedError is returned when an update touches a locked field
// of a system status.
type SystemFieldLockedError struct {
	Field string
}

func (e *SystemFieldLockedError) Error() string {
	return fmt.Sprintf("cannot change %s of a system status", e.Field)
}

// SystemEdgeRemovedError is returned when a tenant edit of an outgoing edge
// set omits a system-required edge.
type SystemEdgeRemovedError struct {
	ToStatusID string
}

func (e *SystemEdgeRemovedError) Error() string {
	return fmt.Sprintf("cannot remove system-required transition to status %s", e.ToStatusID)
}

// ForeignStatusError is returned when an edge target does not belong to the
// same org and status type as the source status.
type ForeignStatusError struct {
	StatusID string
}

func (e *ForeignStatusError) Error() string {
	return fmt.Sprintf("status %s does not belong to this workflow", e.StatusID)
}

// InUseError is returned when deleting a status that entities still reference.
type InUseError struct {
	Count int
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("status is in use by %d entities", e.Count)
}

// InvalidTransitionError is returned when the requested move has no edge in
// the transition graph. From and To are status codes.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s -> %s", e.From, e.To)
}

// RuleViolationError is returned when a business rule blocks an otherwise
// valid transition. Reason is user-facing.
type RuleViolationError struct {
	Rule   string
	Reason string
}

func (e *RuleViolationError) Error() string {
	return e.Reason
}
