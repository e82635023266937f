package app

import (
	"context"
	"fmt"

	"github.com/neomorfeo/statuskit/internal/domain"
)

// Executor moves entities through their org's transition graph. Every
// committed move is one atomic unit: a conditional status update guarded by
// the entity's expected current status, plus an appended history record.
type Executor struct {
	entities  domain.EntityRepository
	statuses  domain.StatusRepository
	edges     domain.EdgeRepository
	validator domain.GraphValidator
	rules     *Registry
	publisher domain.EventPublisher
}

// NewExecutor creates a transition executor with the given collaborators.
func NewExecutor(
	entities domain.EntityRepository,
	statuses domain.StatusRepository,
	edges domain.EdgeRepository,
	validator domain.GraphValidator,
	rules *Registry,
	publisher domain.EventPublisher,
) *Executor {
	return &Executor{
		entities:  entities,
		statuses:  statuses,
		edges:     edges,
		validator: validator,
		rules:     rules,
		publisher: publisher,
	}
}

// Create inserts an entity in the initial status of its workflow (the
// lowest-ordered active status) and records the assignment as a history
// entry with no from status.
func (e *Executor) Create(ctx context.Context, orgID string, entityType domain.StatusType, reference string, lineCount int, total float64, actor *string) (domain.Entity, domain.TransitionRecord, error) {
	statuses, err := e.statuses.ListByType(ctx, orgID, entityType)
	if err != nil {
		return domain.Entity{}, domain.TransitionRecord{}, err
	}

	var initial *domain.StatusDefinition
	for i := range statuses {
		if statuses[i].IsActive {
			initial = &statuses[i]
			break
		}
	}
	if initial == nil {
		return domain.Entity{}, domain.TransitionRecord{}, fmt.Errorf("no active statuses for %s: %w", entityType, domain.ErrNotFound)
	}

	id, err := generateID()
	if err != nil {
		return domain.Entity{}, domain.TransitionRecord{}, fmt.Errorf("generating entity id: %w", err)
	}
	recordID, err := generateID()
	if err != nil {
		return domain.Entity{}, domain.TransitionRecord{}, fmt.Errorf("generating record id: %w", err)
	}

	entity := domain.NewEntity(id, orgID, entityType, reference, initial.ID)
	entity.LineCount = lineCount
	entity.Total = total

	record := domain.NewTransitionRecord(recordID, entity, nil, initial.ID, actor, "")

	if err := e.entities.Create(ctx, entity, record); err != nil {
		return domain.Entity{}, domain.TransitionRecord{}, fmt.Errorf("creating entity: %w", err)
	}

	if err := e.publisher.Publish(ctx, record, entity); err != nil {
		return domain.Entity{}, domain.TransitionRecord{}, fmt.Errorf("publishing creation event: %w", err)
	}

	return entity, record, nil
}

// Get returns an entity by id.
func (e *Executor) Get(ctx context.Context, orgID, entityID string) (domain.Entity, error) {
	return e.entities.GetByID(ctx, orgID, entityID)
}

// Transition moves an entity to targetStatusID. The move must be an edge of
// the current status and pass every applicable business rule; the status
// swap and the ledger append then commit together. A concurrent transition
// that wins the race surfaces as ErrConcurrentModification and leaves no
// trace in the ledger. actor nil marks a system-triggered transition.
func (e *Executor) Transition(ctx context.Context, orgID, entityID, targetStatusID string, actor *string, notes string) (domain.Entity, domain.TransitionRecord, error) {
	entity, err := e.entities.GetByID(ctx, orgID, entityID)
	if err != nil {
		return domain.Entity{}, domain.TransitionRecord{}, err
	}

	current, err := e.statuses.GetByID(ctx, orgID, entity.CurrentStatusID)
	if err != nil {
		return domain.Entity{}, domain.TransitionRecord{}, err
	}

	// Missing and cross-org targets both fail closed as not found.
	target, err := e.statuses.GetByID(ctx, orgID, targetStatusID)
	if err != nil {
		return domain.Entity{}, domain.TransitionRecord{}, err
	}

	edges, err := e.edges.ListOutgoing(ctx, orgID, current.ID)
	if err != nil {
		return domain.Entity{}, domain.TransitionRecord{}, err
	}

	if err := e.validator.Validate(ctx, current, edges, target); err != nil {
		return domain.Entity{}, domain.TransitionRecord{}, err
	}

	if err := e.rules.Evaluate(entity.EntityType, current.Code, target.Code, entity); err != nil {
		return domain.Entity{}, domain.TransitionRecord{}, err
	}

	recordID, err := generateID()
	if err != nil {
		return domain.Entity{}, domain.TransitionRecord{}, fmt.Errorf("generating record id: %w", err)
	}

	fromID := current.ID
	record := domain.NewTransitionRecord(recordID, entity, &fromID, target.ID, actor, notes)

	updated, err := e.entities.TransitionStatus(ctx, entity, current.ID, record)
	if err != nil {
		return domain.Entity{}, domain.TransitionRecord{}, err
	}

	if err := e.publisher.Publish(ctx, record, updated); err != nil {
		return domain.Entity{}, domain.TransitionRecord{}, fmt.Errorf("publishing transition event: %w", err)
	}

	return updated, record, nil
}

// AvailableTransitions returns the statuses reachable in one step from the
// entity's current status. A status with no outgoing edges is terminal for
// this org's configuration.
func (e *Executor) AvailableTransitions(ctx context.Context, orgID, entityID string) ([]domain.StatusDefinition, error) {
	entity, err := e.entities.GetByID(ctx, orgID, entityID)
	if err != nil {
		return nil, err
	}

	edges, err := e.edges.ListOutgoing(ctx, orgID, entity.CurrentStatusID)
	if err != nil {
		return nil, err
	}

	targets := make([]domain.StatusDefinition, 0, len(edges))
	for _, edge := range edges {
		status, err := e.statuses.GetByID(ctx, orgID, edge.ToStatusID)
		if err != nil {
			return nil, err
		}
		targets = append(targets, status)
	}
	return targets, nil
}

// History returns the entity's transition ledger, newest first.
func (e *Executor) History(ctx context.Context, orgID, entityID string) ([]domain.TransitionRecord, error) {
	if _, err := e.entities.GetByID(ctx, orgID, entityID); err != nil {
		return nil, err
	}
	return e.entities.ListHistory(ctx, orgID, entityID)
}
