package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/neomorfeo/statuskit/internal/app"
	"github.com/neomorfeo/statuskit/internal/domain"
)

func TestSetOutgoing_AddsCustomEdge(t *testing.T) {
	statuses := newMemStatusRepo()
	edges := newMemEdgeRepo(statuses)
	byCode := seedDefaults(t, statuses, edges, "org-1", domain.TypePurchaseOrder)
	svc := app.NewGraphService(edges)

	// draft keeps its system edges and gains draft -> pending_approval.
	result, err := svc.SetOutgoing(context.Background(), "org-1", byCode["draft"],
		[]string{byCode["submitted"], byCode["cancelled"], byCode["pending_approval"]})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("got %d edges, want 3", len(result))
	}

	targets := make(map[string]bool)
	for _, e := range result {
		targets[e.ToStatusID] = true
	}
	if !targets[byCode["pending_approval"]] {
		t.Error("new edge to pending_approval missing")
	}
}

func TestSetOutgoing_SelfLoop(t *testing.T) {
	statuses := newMemStatusRepo()
	edges := newMemEdgeRepo(statuses)
	byCode := seedDefaults(t, statuses, edges, "org-1", domain.TypePurchaseOrder)
	svc := app.NewGraphService(edges)

	_, err := svc.SetOutgoing(context.Background(), "org-1", byCode["draft"],
		[]string{byCode["draft"]})
	if !errors.Is(err, domain.ErrSelfLoop) {
		t.Fatalf("err = %v, want ErrSelfLoop", err)
	}
}

func TestSetOutgoing_SystemEdgeRemoval(t *testing.T) {
	statuses := newMemStatusRepo()
	edges := newMemEdgeRepo(statuses)
	byCode := seedDefaults(t, statuses, edges, "org-1", domain.TypePurchaseOrder)
	svc := app.NewGraphService(edges)

	// Dropping draft -> submitted is not allowed.
	_, err := svc.SetOutgoing(context.Background(), "org-1", byCode["draft"],
		[]string{byCode["cancelled"]})
	var removed *domain.SystemEdgeRemovedError
	if !errors.As(err, &removed) {
		t.Fatalf("err = %v, want SystemEdgeRemovedError", err)
	}

	// The failed edit must leave the graph untouched.
	outgoing, err := svc.Outgoing(context.Background(), "org-1", byCode["draft"])
	if err != nil {
		t.Fatalf("listing outgoing: %v", err)
	}
	if len(outgoing) != 2 {
		t.Errorf("got %d edges after rejected edit, want 2", len(outgoing))
	}
}

func TestSetOutgoing_ForeignTarget(t *testing.T) {
	statuses := newMemStatusRepo()
	edges := newMemEdgeRepo(statuses)
	byCode := seedDefaults(t, statuses, edges, "org-1", domain.TypePurchaseOrder)
	otherOrg := seedDefaults(t, statuses, edges, "org-2", domain.TypePurchaseOrder)
	svc := app.NewGraphService(edges)

	_, err := svc.SetOutgoing(context.Background(), "org-1", byCode["draft"],
		[]string{byCode["submitted"], byCode["cancelled"], otherOrg["confirmed"]})
	var foreign *domain.ForeignStatusError
	if !errors.As(err, &foreign) {
		t.Fatalf("err = %v, want ForeignStatusError", err)
	}
}

func TestSetOutgoing_Idempotent(t *testing.T) {
	statuses := newMemStatusRepo()
	edges := newMemEdgeRepo(statuses)
	byCode := seedDefaults(t, statuses, edges, "org-1", domain.TypePurchaseOrder)
	svc := app.NewGraphService(edges)

	set := []string{byCode["submitted"], byCode["cancelled"]}
	first, err := svc.SetOutgoing(context.Background(), "org-1", byCode["draft"], set)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := svc.SetOutgoing(context.Background(), "org-1", byCode["draft"], set)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("edge count changed: %d then %d", len(first), len(second))
	}

	// System edges keep their flag through the rewrite.
	for _, e := range second {
		if !e.IsSystemRequired {
			t.Errorf("edge to %s lost its system-required flag", e.ToStatusID)
		}
	}
}

func TestSetOutgoing_DedupesTargets(t *testing.T) {
	statuses := newMemStatusRepo()
	edges := newMemEdgeRepo(statuses)
	byCode := seedDefaults(t, statuses, edges, "org-1", domain.TypePurchaseOrder)
	svc := app.NewGraphService(edges)

	result, err := svc.SetOutgoing(context.Background(), "org-1", byCode["draft"],
		[]string{byCode["submitted"], byCode["submitted"], byCode["cancelled"]})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 2 {
		t.Errorf("got %d edges, want 2", len(result))
	}
}
