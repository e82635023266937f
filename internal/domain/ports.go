package domain

import "context"

// StatusRepository defines the persistence contract for the status catalog.
// All reads and writes are scoped by org; a row in another org is reported
// as ErrNotFound.
type StatusRepository interface {
	Insert(ctx context.Context, status StatusDefinition) error
	GetByID(ctx context.Context, orgID, id string) (StatusDefinition, error)
	GetByCode(ctx context.Context, orgID string, statusType StatusType, code string) (StatusDefinition, error)
	ListByType(ctx context.Context, orgID string, statusType StatusType) ([]StatusDefinition, error)
	MaxDisplayOrder(ctx context.Context, orgID string, statusType StatusType) (int, error)
	Update(ctx context.Context, status StatusDefinition) error
	// Delete removes a status and cascades deletion of its incident edges.
	Delete(ctx context.Context, orgID, id string) error
	// Reorder assigns display_order 1..N following orderedIDs, in one
	// transaction. Unknown or foreign ids fail the whole call.
	Reorder(ctx context.Context, orgID string, statusType StatusType, orderedIDs []string) error
}

// EdgeRepository defines the persistence contract for the transition graph.
type EdgeRepository interface {
	ListOutgoing(ctx context.Context, orgID, statusID string) ([]TransitionEdge, error)
	// ReplaceOutgoing swaps the outgoing edge set of a status for targetIDs
	// in one transaction: the read of current edges, the system-required
	// superset check, the org/type check on every target, and the diffed
	// write all happen under the same lock. Tenant-added edges default to
	// not system-required; system-required edges present in both sets are
	// left untouched.
	ReplaceOutgoing(ctx context.Context, orgID, statusID string, targetIDs []string) ([]TransitionEdge, error)
	// InsertEdges adds edges directly, bypassing the superset check. Used
	// only by provisioning to seed system-required edges.
	InsertEdges(ctx context.Context, edges []TransitionEdge) error
}

// EntityRepository defines the persistence contract for workflow entities
// and their history ledger. The store must support an atomic conditional
// status update keyed by id plus expected current status.
type EntityRepository interface {
	// Create inserts the entity and its initial-assignment history record
	// (FromStatusID nil) in one transaction.
	Create(ctx context.Context, entity Entity, record TransitionRecord) error
	GetByID(ctx context.Context, orgID, id string) (Entity, error)
	// TransitionStatus performs the compare-and-swap on current_status_id
	// and appends the history record in the same transaction. A stale
	// expected status yields ErrConcurrentModification; a missing or
	// cross-org entity yields ErrNotFound. Nothing is written on failure.
	TransitionStatus(ctx context.Context, entity Entity, expectedStatusID string, record TransitionRecord) (Entity, error)
	CountByStatus(ctx context.Context, orgID, statusID string) (int, error)
	// ListHistory returns the entity's ledger newest first.
	ListHistory(ctx context.Context, orgID, entityID string) ([]TransitionRecord, error)
}

// GraphValidator checks that a requested move exists in the edge set of the
// entity's current status.
type GraphValidator interface {
	Validate(ctx context.Context, current StatusDefinition, edges []TransitionEdge, target StatusDefinition) error
}

// EventPublisher defines the contract for emitting committed-transition
// events. Publishing happens after the transaction commits; a failure here
// never rolls back the transition.
type EventPublisher interface {
	Publish(ctx context.Context, record TransitionRecord, entity Entity) error
}
