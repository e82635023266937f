package app_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/neomorfeo/statuskit/internal/app"
	"github.com/neomorfeo/statuskit/internal/domain"
)

// --- In-memory status repository ---

type memStatusRepo struct {
	statuses map[string]domain.StatusDefinition
}

func newMemStatusRepo() *memStatusRepo {
	return &memStatusRepo{statuses: make(map[string]domain.StatusDefinition)}
}

func (m *memStatusRepo) Insert(_ context.Context, st domain.StatusDefinition) error {
	for _, existing := range m.statuses {
		if existing.OrgID == st.OrgID && existing.StatusType == st.StatusType && existing.Code == st.Code {
			return &domain.DuplicateCodeError{Code: st.Code}
		}
	}
	m.statuses[st.ID] = st
	return nil
}

func (m *memStatusRepo) GetByID(_ context.Context, orgID, id string) (domain.StatusDefinition, error) {
	st, ok := m.statuses[id]
	if !ok || st.OrgID != orgID {
		return domain.StatusDefinition{}, domain.ErrNotFound
	}
	return st, nil
}

func (m *memStatusRepo) GetByCode(_ context.Context, orgID string, statusType domain.StatusType, code string) (domain.StatusDefinition, error) {
	for _, st := range m.statuses {
		if st.OrgID == orgID && st.StatusType == statusType && st.Code == code {
			return st, nil
		}
	}
	return domain.StatusDefinition{}, domain.ErrNotFound
}

func (m *memStatusRepo) ListByType(_ context.Context, orgID string, statusType domain.StatusType) ([]domain.StatusDefinition, error) {
	var out []domain.StatusDefinition
	for _, st := range m.statuses {
		if st.OrgID == orgID && st.StatusType == statusType {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (m *memStatusRepo) MaxDisplayOrder(_ context.Context, orgID string, statusType domain.StatusType) (int, error) {
	max := 0
	for _, st := range m.statuses {
		if st.OrgID == orgID && st.StatusType == statusType && st.DisplayOrder > max {
			max = st.DisplayOrder
		}
	}
	return max, nil
}

func (m *memStatusRepo) Update(_ context.Context, st domain.StatusDefinition) error {
	existing, ok := m.statuses[st.ID]
	if !ok || existing.OrgID != st.OrgID {
		return domain.ErrNotFound
	}
	m.statuses[st.ID] = st
	return nil
}

func (m *memStatusRepo) Delete(_ context.Context, orgID, id string) error {
	st, ok := m.statuses[id]
	if !ok || st.OrgID != orgID {
		return domain.ErrNotFound
	}
	delete(m.statuses, id)
	return nil
}

func (m *memStatusRepo) Reorder(_ context.Context, orgID string, statusType domain.StatusType, orderedIDs []string) error {
	for i, id := range orderedIDs {
		st, ok := m.statuses[id]
		if !ok || st.OrgID != orgID || st.StatusType != statusType {
			return domain.ErrNotFound
		}
		st.DisplayOrder = i + 1
		m.statuses[id] = st
	}
	return nil
}

// --- In-memory edge repository ---

type memEdgeRepo struct {
	statuses *memStatusRepo
	edges    []domain.TransitionEdge
	nextID   int
}

func newMemEdgeRepo(statuses *memStatusRepo) *memEdgeRepo {
	return &memEdgeRepo{statuses: statuses}
}

func (m *memEdgeRepo) ListOutgoing(_ context.Context, orgID, statusID string) ([]domain.TransitionEdge, error) {
	var out []domain.TransitionEdge
	for _, e := range m.edges {
		if e.OrgID == orgID && e.FromStatusID == statusID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memEdgeRepo) ReplaceOutgoing(ctx context.Context, orgID, statusID string, targetIDs []string) ([]domain.TransitionEdge, error) {
	source, ok := m.statuses.statuses[statusID]
	if !ok || source.OrgID != orgID {
		return nil, domain.ErrNotFound
	}

	wanted := make(map[string]bool, len(targetIDs))
	for _, id := range targetIDs {
		if id == statusID {
			return nil, domain.ErrSelfLoop
		}
		target, ok := m.statuses.statuses[id]
		if !ok || target.OrgID != orgID || target.StatusType != source.StatusType {
			return nil, &domain.ForeignStatusError{StatusID: id}
		}
		wanted[id] = true
	}

	var kept []domain.TransitionEdge
	for _, e := range m.edges {
		if e.OrgID != orgID || e.FromStatusID != statusID {
			kept = append(kept, e)
			continue
		}
		if e.IsSystemRequired && !wanted[e.ToStatusID] {
			return nil, &domain.SystemEdgeRemovedError{ToStatusID: e.ToStatusID}
		}
		if wanted[e.ToStatusID] {
			kept = append(kept, e)
			delete(wanted, e.ToStatusID)
		}
	}
	for id := range wanted {
		m.nextID++
		kept = append(kept, domain.TransitionEdge{
			ID:           fmt.Sprintf("edge-%d", m.nextID),
			OrgID:        orgID,
			StatusType:   source.StatusType,
			FromStatusID: statusID,
			ToStatusID:   id,
		})
	}
	m.edges = kept

	return m.ListOutgoing(ctx, orgID, statusID)
}

func (m *memEdgeRepo) InsertEdges(_ context.Context, edges []domain.TransitionEdge) error {
	m.edges = append(m.edges, edges...)
	return nil
}

// --- In-memory entity repository ---

type memEntityRepo struct {
	mu       sync.Mutex
	entities map[string]domain.Entity
	records  []domain.TransitionRecord
}

func newMemEntityRepo() *memEntityRepo {
	return &memEntityRepo{entities: make(map[string]domain.Entity)}
}

func (m *memEntityRepo) Create(_ context.Context, e domain.Entity, rec domain.TransitionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entities[e.ID] = e
	m.records = append(m.records, rec)
	return nil
}

func (m *memEntityRepo) GetByID(_ context.Context, orgID, id string) (domain.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entities[id]
	if !ok || e.OrgID != orgID {
		return domain.Entity{}, domain.ErrNotFound
	}
	return e, nil
}

func (m *memEntityRepo) TransitionStatus(_ context.Context, e domain.Entity, expectedStatusID string, rec domain.TransitionRecord) (domain.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.entities[e.ID]
	if !ok || stored.OrgID != e.OrgID {
		return domain.Entity{}, domain.ErrNotFound
	}
	if stored.CurrentStatusID != expectedStatusID {
		return domain.Entity{}, domain.ErrConcurrentModification
	}
	stored.CurrentStatusID = rec.ToStatusID
	stored.UpdatedAt = rec.CreatedAt
	m.entities[e.ID] = stored
	m.records = append(m.records, rec)
	return stored, nil
}

func (m *memEntityRepo) CountByStatus(_ context.Context, orgID, statusID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, e := range m.entities {
		if e.OrgID == orgID && e.CurrentStatusID == statusID {
			count++
		}
	}
	return count, nil
}

func (m *memEntityRepo) ListHistory(_ context.Context, orgID, entityID string) ([]domain.TransitionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.TransitionRecord
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].OrgID == orgID && m.records[i].EntityID == entityID {
			out = append(out, m.records[i])
		}
	}
	return out, nil
}

// --- Edge-set validator and publisher ---

type edgeSetValidator struct{}

func (edgeSetValidator) Validate(_ context.Context, current domain.StatusDefinition, edges []domain.TransitionEdge, target domain.StatusDefinition) error {
	for _, e := range edges {
		if e.ToStatusID == target.ID {
			return nil
		}
	}
	return &domain.InvalidTransitionError{From: current.Code, To: target.Code}
}

type mockPublisher struct {
	events []publishedEvent
}

type publishedEvent struct {
	record domain.TransitionRecord
	entity domain.Entity
}

func (m *mockPublisher) Publish(_ context.Context, rec domain.TransitionRecord, e domain.Entity) error {
	m.events = append(m.events, publishedEvent{record: rec, entity: e})
	return nil
}

// --- Fixture builders ---

// seedDefaults provisions the default workflow and returns status ids by code.
func seedDefaults(t *testing.T, statuses *memStatusRepo, edges *memEdgeRepo, orgID string, statusType domain.StatusType) map[string]string {
	t.Helper()
	prov := app.NewProvisioner(statuses, edges)
	seeded, err := prov.ProvisionDefaults(context.Background(), orgID, statusType)
	if err != nil {
		t.Fatalf("provisioning defaults: %v", err)
	}
	byCode := make(map[string]string, len(seeded))
	for _, st := range seeded {
		byCode[st.Code] = st.ID
	}
	return byCode
}
