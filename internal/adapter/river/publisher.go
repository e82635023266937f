package river

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riverqueue/river"

	"github.com/neomorfeo/statuskit/internal/domain"
)

// Compile-time check: Publisher implements domain.EventPublisher.
var _ domain.EventPublisher = (*Publisher)(nil)

// TransitionJobArgs carries a committed transition into the job queue.
// River serializes this as JSON; it snapshots the entity and the ledger
// record at commit time so the worker never needs to query the database.
type TransitionJobArgs struct {
	RecordID     string  `json:"record_id"`
	OrgID        string  `json:"org_id"`
	EntityID     string  `json:"entity_id"`
	EntityType   string  `json:"entity_type"`
	Reference    string  `json:"reference"`
	FromStatusID *string `json:"from_status_id"`
	ToStatusID   string  `json:"to_status_id"`
	ChangedBy    *string `json:"changed_by"`
	Notes        string  `json:"notes,omitempty"`
}

// Kind returns the unique job type identifier used by River's job routing.
func (TransitionJobArgs) Kind() string { return "transition.committed" }

// Client is the River client type parameterized for SQLite (*sql.Tx).
type Client = river.Client[*sql.Tx]

// Publisher implements domain.EventPublisher by enqueuing River jobs.
type Publisher struct {
	client *Client
}

// NewPublisher creates a publisher backed by the given River client.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// Publish enqueues a committed transition as an async job in River.
func (p *Publisher) Publish(ctx context.Context, record domain.TransitionRecord, entity domain.Entity) error {
	_, err := p.client.Insert(ctx, TransitionJobArgs{
		RecordID:     record.ID,
		OrgID:        record.OrgID,
		EntityID:     record.EntityID,
		EntityType:   string(record.EntityType),
		Reference:    entity.Reference,
		FromStatusID: record.FromStatusID,
		ToStatusID:   record.ToStatusID,
		ChangedBy:    record.ChangedBy,
		Notes:        record.Notes,
	}, nil)
	if err != nil {
		return fmt.Errorf("enqueuing transition job: %w", err)
	}
	return nil
}
