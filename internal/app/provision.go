package app

import (
	"context"
	"fmt"
	"time"

	"github.com/neomorfeo/statuskit/internal/domain"
)

// Provisioner seeds the system status set and system-required edges for a
// new org. Seeding is idempotent: an org that already has statuses for a
// type keeps what it has.
type Provisioner struct {
	statuses domain.StatusRepository
	edges    domain.EdgeRepository
}

// NewProvisioner creates a provisioner with the given repositories.
func NewProvisioner(statuses domain.StatusRepository, edges domain.EdgeRepository) *Provisioner {
	return &Provisioner{statuses: statuses, edges: edges}
}

// ProvisionDefaults seeds the default workflow for one status type and
// returns the org's catalog for that type.
func (p *Provisioner) ProvisionDefaults(ctx context.Context, orgID string, statusType domain.StatusType) ([]domain.StatusDefinition, error) {
	defaults, ok := domain.DefaultStatuses[statusType]
	if !ok {
		return nil, fmt.Errorf("no default statuses for type %q: %w", statusType, domain.ErrNotFound)
	}

	existing, err := p.statuses.ListByType(ctx, orgID, statusType)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	now := time.Now().UTC()
	idByCode := make(map[string]string, len(defaults))
	seeded := make([]domain.StatusDefinition, 0, len(defaults))

	for _, def := range defaults {
		id, err := generateID()
		if err != nil {
			return nil, fmt.Errorf("generating status id: %w", err)
		}
		status := domain.StatusDefinition{
			ID:           id,
			OrgID:        orgID,
			StatusType:   statusType,
			Code:         def.Code,
			Name:         def.Name,
			Color:        def.Color,
			DisplayOrder: def.DisplayOrder,
			IsSystem:     true,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := p.statuses.Insert(ctx, status); err != nil {
			return nil, fmt.Errorf("seeding status %q: %w", def.Code, err)
		}
		idByCode[def.Code] = id
		seeded = append(seeded, status)
	}

	edges := make([]domain.TransitionEdge, 0, len(domain.DefaultEdges[statusType]))
	for _, def := range domain.DefaultEdges[statusType] {
		id, err := generateID()
		if err != nil {
			return nil, fmt.Errorf("generating edge id: %w", err)
		}
		edges = append(edges, domain.TransitionEdge{
			ID:               id,
			OrgID:            orgID,
			StatusType:       statusType,
			FromStatusID:     idByCode[def.FromCode],
			ToStatusID:       idByCode[def.ToCode],
			IsSystemRequired: true,
		})
	}

	if err := p.edges.InsertEdges(ctx, edges); err != nil {
		return nil, fmt.Errorf("seeding edges: %w", err)
	}

	return seeded, nil
}
