package app

import (
	"context"

	"github.com/neomorfeo/statuskit/internal/domain"
)

// GraphService administers the transition graph: which moves an org allows
// out of each status. Edits replace a status's outgoing set wholesale and
// can never drop a system-required edge.
type GraphService struct {
	edges domain.EdgeRepository
}

// NewGraphService creates a graph service with the given repository.
func NewGraphService(edges domain.EdgeRepository) *GraphService {
	return &GraphService{edges: edges}
}

// Outgoing returns the permitted moves out of a status.
func (s *GraphService) Outgoing(ctx context.Context, orgID, statusID string) ([]domain.TransitionEdge, error) {
	return s.edges.ListOutgoing(ctx, orgID, statusID)
}

// SetOutgoing replaces the outgoing edge set of a status with targetIDs.
// Self-loops are rejected here; the repository enforces, under one
// transaction, that every target belongs to the same org and status type
// and that no system-required edge is dropped. Calling it twice with the
// same set is a no-op the second time.
func (s *GraphService) SetOutgoing(ctx context.Context, orgID, statusID string, targetIDs []string) ([]domain.TransitionEdge, error) {
	seen := make(map[string]struct{}, len(targetIDs))
	deduped := make([]string, 0, len(targetIDs))
	for _, id := range targetIDs {
		if id == statusID {
			return nil, domain.ErrSelfLoop
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		deduped = append(deduped, id)
	}

	return s.edges.ReplaceOutgoing(ctx, orgID, statusID, deduped)
}
