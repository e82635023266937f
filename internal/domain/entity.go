package domain

import "time"

// Entity is a workflow-bearing row: a purchase order, ASN, or work order.
// The engine only cares about its current status and the fields business
// rules read; everything else about the entity lives with its owning module.
type Entity struct {
	ID              string
	OrgID           string
	EntityType      StatusType
	Reference       string
	CurrentStatusID string
	LineCount       int
	Total           float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewEntity creates an entity in the given initial status.
func NewEntity(id, orgID string, entityType StatusType, reference, initialStatusID string) Entity {
	now := time.Now().UTC()
	return Entity{
		ID:              id,
		OrgID:           orgID,
		EntityType:      entityType,
		Reference:       reference,
		CurrentStatusID: initialStatusID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
