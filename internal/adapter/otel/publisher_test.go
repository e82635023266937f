package otel_test

import (
	"context"
	"fmt"
	"testing"

	"go.opentelemetry.io/otel/codes"

	adapter "github.com/neomorfeo/statuskit/internal/adapter/otel"
	"github.com/neomorfeo/statuskit/internal/domain"
)

// --- Mock publisher ---

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

type failingPublisher struct{}

func (p *failingPublisher) Publish(_ context.Context, _ domain.TransitionRecord, _ domain.Entity) error {
	return fmt.Errorf("publish failed")
}

// --- Tests ---

func TestTracingPublisher_Publish_RecordsSpan(t *testing.T) {
	exporter := setupTestTracer(t)
	inner := &mockPublisher{}
	pub := adapter.NewTracingPublisher(inner)

	entity := domain.NewEntity("e-1", "org-1", domain.TypePurchaseOrder, "PO-001", "s-draft")
	from := "s-draft"
	record := domain.NewTransitionRecord("r-1", entity, &from, "s-submitted", nil, "")

	if err := pub.Publish(context.Background(), record, entity); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Name != "EventPublisher.Publish" {
		t.Errorf("span name = %q, want %q", spans[0].Name, "EventPublisher.Publish")
	}

	assertAttribute(t, spans[0], "record.id", "r-1")
	assertAttribute(t, spans[0], "entity.id", "e-1")
	assertAttribute(t, spans[0], "entity.type", "purchase_order")
	assertAttribute(t, spans[0], "transition.to_status_id", "s-submitted")

	if len(inner.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(inner.events))
	}
}

func TestTracingPublisher_Publish_RecordsError(t *testing.T) {
	exporter := setupTestTracer(t)
	pub := adapter.NewTracingPublisher(&failingPublisher{})

	entity := domain.NewEntity("e-1", "org-1", domain.TypePurchaseOrder, "PO-001", "s-draft")
	record := domain.NewTransitionRecord("r-1", entity, nil, "s-draft", nil, "")

	err := pub.Publish(context.Background(), record, entity)
	if err == nil {
		t.Fatal("expected error")
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}

	if spans[0].Status.Code != codes.Error {
		t.Errorf("span status = %v, want %v", spans[0].Status.Code, codes.Error)
	}
}
