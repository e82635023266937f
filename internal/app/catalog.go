package app

import (
	"context"
	"fmt"
	"time"

	"github.com/neomorfeo/statuskit/internal/domain"
)

// CatalogService administers an org's status catalog: the named statuses of
// each workflow, their ordering, and the guards that keep system rows intact.
type CatalogService struct {
	statuses domain.StatusRepository
	entities domain.EntityRepository
}

// NewCatalogService creates a catalog service with the given repositories.
func NewCatalogService(statuses domain.StatusRepository, entities domain.EntityRepository) *CatalogService {
	return &CatalogService{statuses: statuses, entities: entities}
}

// List returns the org's statuses for one type, ordered by display order.
func (s *CatalogService) List(ctx context.Context, orgID string, statusType domain.StatusType) ([]domain.StatusDefinition, error) {
	return s.statuses.ListByType(ctx, orgID, statusType)
}

// ListWithUsage returns the same list with per-status entity counts.
func (s *CatalogService) ListWithUsage(ctx context.Context, orgID string, statusType domain.StatusType) ([]domain.StatusWithUsage, error) {
	statuses, err := s.statuses.ListByType(ctx, orgID, statusType)
	if err != nil {
		return nil, err
	}

	out := make([]domain.StatusWithUsage, 0, len(statuses))
	for _, st := range statuses {
		count, err := s.entities.CountByStatus(ctx, orgID, st.ID)
		if err != nil {
			return nil, fmt.Errorf("counting entities in status %s: %w", st.ID, err)
		}
		out = append(out, domain.StatusWithUsage{StatusDefinition: st, EntityCount: count})
	}
	return out, nil
}

// Get returns one status by id.
func (s *CatalogService) Get(ctx context.Context, orgID, id string) (domain.StatusDefinition, error) {
	return s.statuses.GetByID(ctx, orgID, id)
}

// Create adds a custom status. The code must be lowercase letters and
// underscores and unique within (org, type); display order defaults to
// max+1 when zero.
func (s *CatalogService) Create(ctx context.Context, orgID string, statusType domain.StatusType, code, name, color, description string, displayOrder int) (domain.StatusDefinition, error) {
	if !domain.ValidCode(code) {
		return domain.StatusDefinition{}, &domain.InvalidCodeError{Code: code}
	}

	if _, err := s.statuses.GetByCode(ctx, orgID, statusType, code); err == nil {
		return domain.StatusDefinition{}, &domain.DuplicateCodeError{Code: code}
	}

	id, err := generateID()
	if err != nil {
		return domain.StatusDefinition{}, fmt.Errorf("generating status id: %w", err)
	}

	status := domain.NewCustomStatus(id, orgID, statusType, code, name, color)
	status.Description = description

	if displayOrder > 0 {
		status.DisplayOrder = displayOrder
	} else {
		max, err := s.statuses.MaxDisplayOrder(ctx, orgID, statusType)
		if err != nil {
			return domain.StatusDefinition{}, fmt.Errorf("finding max display order: %w", err)
		}
		status.DisplayOrder = max + 1
	}

	if err := s.statuses.Insert(ctx, status); err != nil {
		return domain.StatusDefinition{}, err
	}
	return status, nil
}

// Update applies a patch to a status. Code and name of system statuses are
// locked; color, display order, description and active flag stay mutable
// on every row.
func (s *CatalogService) Update(ctx context.Context, orgID, id string, patch domain.StatusPatch) (domain.StatusDefinition, error) {
	status, err := s.statuses.GetByID(ctx, orgID, id)
	if err != nil {
		return domain.StatusDefinition{}, err
	}

	if status.IsSystem {
		if patch.Code != nil && *patch.Code != status.Code {
			return domain.StatusDefinition{}, &domain.SystemFieldLockedError{Field: "code"}
		}
		if patch.Name != nil && *patch.Name != status.Name {
			return domain.StatusDefinition{}, &domain.SystemFieldLockedError{Field: "name"}
		}
	}

	if patch.Code != nil && *patch.Code != status.Code {
		if !domain.ValidCode(*patch.Code) {
			return domain.StatusDefinition{}, &domain.InvalidCodeError{Code: *patch.Code}
		}
		if _, err := s.statuses.GetByCode(ctx, orgID, status.StatusType, *patch.Code); err == nil {
			return domain.StatusDefinition{}, &domain.DuplicateCodeError{Code: *patch.Code}
		}
		status.Code = *patch.Code
	}
	if patch.Name != nil {
		status.Name = *patch.Name
	}
	if patch.Color != nil {
		status.Color = *patch.Color
	}
	if patch.Description != nil {
		status.Description = *patch.Description
	}
	if patch.DisplayOrder != nil {
		status.DisplayOrder = *patch.DisplayOrder
	}
	if patch.IsActive != nil {
		status.IsActive = *patch.IsActive
	}
	status.UpdatedAt = time.Now().UTC()

	if err := s.statuses.Update(ctx, status); err != nil {
		return domain.StatusDefinition{}, err
	}
	return status, nil
}

// Delete removes a custom status that no entity references. System statuses
// are never deletable; in-use statuses fail with the reference count.
// Incident edges are removed with the status.
func (s *CatalogService) Delete(ctx context.Context, orgID, id string) error {
	status, err := s.statuses.GetByID(ctx, orgID, id)
	if err != nil {
		return err
	}

	if status.IsSystem {
		return domain.ErrSystemStatus
	}

	count, err := s.entities.CountByStatus(ctx, orgID, id)
	if err != nil {
		return fmt.Errorf("counting entities in status %s: %w", id, err)
	}
	if count > 0 {
		return &domain.InUseError{Count: count}
	}

	return s.statuses.Delete(ctx, orgID, id)
}

// Reorder assigns display order 1..N following the supplied id list and
// returns the reordered catalog.
func (s *CatalogService) Reorder(ctx context.Context, orgID string, statusType domain.StatusType, orderedIDs []string) ([]domain.StatusDefinition, error) {
	if err := s.statuses.Reorder(ctx, orgID, statusType, orderedIDs); err != nil {
		return nil, err
	}
	return s.statuses.ListByType(ctx, orgID, statusType)
}

// UsageCount returns how many entities are currently in the given status.
func (s *CatalogService) UsageCount(ctx context.Context, orgID, id string) (int, error) {
	if _, err := s.statuses.GetByID(ctx, orgID, id); err != nil {
		return 0, err
	}
	return s.entities.CountByStatus(ctx, orgID, id)
}
