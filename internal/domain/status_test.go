package domain_test

import (
	"testing"

	"github.com/neomorfeo/statuskit/internal/domain"
)

func TestValidCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"draft", true},
		{"pending_approval", true},
		{"a", true},
		{"", false},
		{"Draft", false},
		{"_draft", false},
		{"on-hold", false},
		{"draft2", false},
		{"draft ", false},
	}

	for _, tt := range tests {
		if got := domain.ValidCode(tt.code); got != tt.want {
			t.Errorf("ValidCode(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestNewCustomStatus_Defaults(t *testing.T) {
	st := domain.NewCustomStatus("s-1", "org-1", domain.TypePurchaseOrder, "on_hold", "On Hold", "")

	if st.Color != "gray" {
		t.Errorf("Color = %q, want %q", st.Color, "gray")
	}
	if st.IsSystem {
		t.Error("custom status should not be a system status")
	}
	if !st.IsActive {
		t.Error("new status should be active")
	}
	if st.DisplayOrder != 0 {
		t.Errorf("DisplayOrder = %d, want 0", st.DisplayOrder)
	}
	if st.CreatedAt.IsZero() || st.UpdatedAt.IsZero() {
		t.Error("timestamps should be set")
	}
}

func TestNewCustomStatus_KeepsColor(t *testing.T) {
	st := domain.NewCustomStatus("s-1", "org-1", domain.TypeASN, "on_hold", "On Hold", "orange")
	if st.Color != "orange" {
		t.Errorf("Color = %q, want %q", st.Color, "orange")
	}
}

func TestNewEntity(t *testing.T) {
	e := domain.NewEntity("e-1", "org-1", domain.TypePurchaseOrder, "PO-001", "s-draft")

	if e.CurrentStatusID != "s-draft" {
		t.Errorf("CurrentStatusID = %q, want %q", e.CurrentStatusID, "s-draft")
	}
	if e.EntityType != domain.TypePurchaseOrder {
		t.Errorf("EntityType = %q, want %q", e.EntityType, domain.TypePurchaseOrder)
	}
	if e.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestNewTransitionRecord_CopiesEntityScope(t *testing.T) {
	e := domain.NewEntity("e-1", "org-1", domain.TypeWorkOrder, "WO-001", "s-draft")
	from := "s-draft"
	actor := "user-7"

	rec := domain.NewTransitionRecord("r-1", e, &from, "s-released", &actor, "release note")

	if rec.OrgID != "org-1" {
		t.Errorf("OrgID = %q, want %q", rec.OrgID, "org-1")
	}
	if rec.EntityID != "e-1" {
		t.Errorf("EntityID = %q, want %q", rec.EntityID, "e-1")
	}
	if rec.EntityType != domain.TypeWorkOrder {
		t.Errorf("EntityType = %q, want %q", rec.EntityType, domain.TypeWorkOrder)
	}
	if rec.FromStatusID == nil || *rec.FromStatusID != "s-draft" {
		t.Errorf("FromStatusID = %v, want %q", rec.FromStatusID, "s-draft")
	}
	if rec.ChangedBy == nil || *rec.ChangedBy != "user-7" {
		t.Errorf("ChangedBy = %v, want %q", rec.ChangedBy, "user-7")
	}
}

func TestDefaultGraph_EdgesReferenceSeededCodes(t *testing.T) {
	for statusType, edges := range domain.DefaultEdges {
		codes := make(map[string]bool)
		for _, st := range domain.DefaultStatuses[statusType] {
			codes[st.Code] = true
		}
		for _, e := range edges {
			if !codes[e.FromCode] {
				t.Errorf("%s: edge source %q has no seeded status", statusType, e.FromCode)
			}
			if !codes[e.ToCode] {
				t.Errorf("%s: edge target %q has no seeded status", statusType, e.ToCode)
			}
			if e.FromCode == e.ToCode {
				t.Errorf("%s: seeded self-loop on %q", statusType, e.FromCode)
			}
		}
	}
}
