package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/neomorfeo/statuskit/internal/adapter/sqlite"
	"github.com/neomorfeo/statuskit/internal/domain"
)

// newTestRepo creates a file-backed SQLite repository in a per-test temp
// directory. A file keeps every pooled connection on the same database,
// which in-memory DSNs do not guarantee.
func newTestRepo(t *testing.T) *sqlite.Repository {
	t.Helper()
	repo, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("creating test repo: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

// seedWorkflow inserts the default statuses and system edges for one org
// and returns status ids by code.
func seedWorkflow(t *testing.T, repo *sqlite.Repository, orgID string, statusType domain.StatusType) map[string]string {
	t.Helper()
	ctx := context.Background()

	byCode := make(map[string]string)
	for _, def := range domain.DefaultStatuses[statusType] {
		id := orgID + "-" + def.Code
		st := domain.NewCustomStatus(id, orgID, statusType, def.Code, def.Name, def.Color)
		st.DisplayOrder = def.DisplayOrder
		st.IsSystem = true
		if err := repo.Insert(ctx, st); err != nil {
			t.Fatalf("seeding status %q: %v", def.Code, err)
		}
		byCode[def.Code] = id
	}

	var edges []domain.TransitionEdge
	for i, def := range domain.DefaultEdges[statusType] {
		edges = append(edges, domain.TransitionEdge{
			ID:               orgID + "-edge-" + string(rune('a'+i)),
			OrgID:            orgID,
			StatusType:       statusType,
			FromStatusID:     byCode[def.FromCode],
			ToStatusID:       byCode[def.ToCode],
			IsSystemRequired: true,
		})
	}
	if err := repo.InsertEdges(ctx, edges); err != nil {
		t.Fatalf("seeding edges: %v", err)
	}

	return byCode
}

func mustCreateEntity(t *testing.T, repo *sqlite.Repository, id, orgID string, statusType domain.StatusType, statusID string) domain.Entity {
	t.Helper()
	e := domain.NewEntity(id, orgID, statusType, "REF-"+id, statusID)
	rec := domain.NewTransitionRecord("rec-init-"+id, e, nil, statusID, nil, "")
	if err := repo.Create(context.Background(), e, rec); err != nil {
		t.Fatalf("creating entity %q: %v", id, err)
	}
	return e
}
