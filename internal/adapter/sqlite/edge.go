package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/neomorfeo/statuskit/internal/domain"
)

// Compile-time check: Repository implements domain.EdgeRepository.
var _ domain.EdgeRepository = (*Repository)(nil)

const edgeColumns = `id, org_id, status_type, from_status_id, to_status_id, is_system_required`

func (r *Repository) ListOutgoing(ctx context.Context, orgID, statusID string) ([]domain.TransitionEdge, error) {
	return listOutgoing(ctx, r.db, orgID, statusID)
}

// querier covers *sql.DB and *sql.Tx for reads shared with ReplaceOutgoing.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func listOutgoing(ctx context.Context, q querier, orgID, statusID string) ([]domain.TransitionEdge, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+edgeColumns+` FROM transition_edges
		 WHERE org_id = ? AND from_status_id = ?
		 ORDER BY rowid ASC`,
		orgID, statusID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing edges: %w", err)
	}
	defer rows.Close()

	var edges []domain.TransitionEdge
	for rows.Next() {
		var e domain.TransitionEdge
		var statusType string
		if err := rows.Scan(&e.ID, &e.OrgID, &statusType, &e.FromStatusID, &e.ToStatusID, &e.IsSystemRequired); err != nil {
			return nil, fmt.Errorf("scanning edge row: %w", err)
		}
		e.StatusType = domain.StatusType(statusType)
		edges = append(edges, e)
	}

	return edges, rows.Err()
}

// ReplaceOutgoing swaps the outgoing edge set of statusID for targetIDs.
// The read of the current set, the system-required superset check, the
// org/type check on every target, and the diffed write all run in one
// transaction so two concurrent edits cannot each conclude a required edge
// may be dropped.
func (r *Repository) ReplaceOutgoing(ctx context.Context, orgID, statusID string, targetIDs []string) ([]domain.TransitionEdge, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning edge transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var fromType string
	err = tx.QueryRowContext(ctx,
		`SELECT status_type FROM statuses WHERE id = ? AND org_id = ?`, statusID, orgID,
	).Scan(&fromType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading source status: %w", err)
	}

	current, err := listOutgoing(ctx, tx, orgID, statusID)
	if err != nil {
		return nil, err
	}

	targetSet := make(map[string]struct{}, len(targetIDs))
	for _, id := range targetIDs {
		if id == statusID {
			return nil, domain.ErrSelfLoop
		}
		targetSet[id] = struct{}{}
	}

	// The replacement set must be a superset of the system-required edges.
	currentSet := make(map[string]struct{}, len(current))
	for _, e := range current {
		currentSet[e.ToStatusID] = struct{}{}
		if !e.IsSystemRequired {
			continue
		}
		if _, ok := targetSet[e.ToStatusID]; !ok {
			return nil, &domain.SystemEdgeRemovedError{ToStatusID: e.ToStatusID}
		}
	}

	// Every new target must be a status of the same org and type.
	for _, id := range targetIDs {
		if _, ok := currentSet[id]; ok {
			continue
		}
		var targetType string
		err = tx.QueryRowContext(ctx,
			`SELECT status_type FROM statuses WHERE id = ? AND org_id = ?`, id, orgID,
		).Scan(&targetType)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ForeignStatusError{StatusID: id}
		}
		if err != nil {
			return nil, fmt.Errorf("loading target status: %w", err)
		}
		if targetType != fromType {
			return nil, &domain.ForeignStatusError{StatusID: id}
		}
	}

	// Drop removable edges not in the new set.
	for _, e := range current {
		if e.IsSystemRequired {
			continue
		}
		if _, ok := targetSet[e.ToStatusID]; ok {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM transition_edges WHERE id = ?`, e.ID,
		); err != nil {
			return nil, fmt.Errorf("deleting edge %s: %w", e.ID, err)
		}
	}

	// Insert additions; tenant-added edges are never system-required.
	for _, id := range targetIDs {
		if _, ok := currentSet[id]; ok {
			continue
		}
		edgeID, err := newID()
		if err != nil {
			return nil, fmt.Errorf("generating edge id: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO transition_edges (`+edgeColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
			edgeID, orgID, fromType, statusID, id, false,
		); err != nil {
			return nil, fmt.Errorf("inserting edge to %s: %w", id, err)
		}
	}

	result, err := listOutgoing(ctx, tx, orgID, statusID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing edge transaction: %w", err)
	}
	return result, nil
}

func (r *Repository) InsertEdges(ctx context.Context, edges []domain.TransitionEdge) error {
	for _, e := range edges {
		if e.FromStatusID == e.ToStatusID {
			return domain.ErrSelfLoop
		}
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO transition_edges (`+edgeColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
			e.ID, e.OrgID, string(e.StatusType), e.FromStatusID, e.ToStatusID, e.IsSystemRequired,
		); err != nil {
			return fmt.Errorf("inserting edge %s -> %s: %w", e.FromStatusID, e.ToStatusID, err)
		}
	}
	return nil
}
