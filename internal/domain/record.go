package domain

import "time"

// TransitionRecord is one append-only history ledger entry. A nil FromStatusID
// marks the entity's initial status assignment; a nil ChangedBy marks a
// system-triggered transition (rendered as "SYSTEM" at the presentation edge).
// Records are never updated or deleted; corrections are new transitions.
type TransitionRecord struct {
	ID           string
	OrgID        string
	EntityID     string
	EntityType   StatusType
	FromStatusID *string
	ToStatusID   string
	ChangedBy    *string
	Notes        string
	CreatedAt    time.Time
}

// NewTransitionRecord builds a ledger entry for a committed transition.
func NewTransitionRecord(id string, entity Entity, fromStatusID *string, toStatusID string, changedBy *string, notes string) TransitionRecord {
	return TransitionRecord{
		ID:           id,
		OrgID:        entity.OrgID,
		EntityID:     entity.ID,
		EntityType:   entity.EntityType,
		FromStatusID: fromStatusID,
		ToStatusID:   toStatusID,
		ChangedBy:    changedBy,
		Notes:        notes,
		CreatedAt:    time.Now().UTC(),
	}
}
