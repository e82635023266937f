package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/neomorfeo/statuskit/internal/domain"
)

// Compile-time check: Repository implements domain.EntityRepository.
var _ domain.EntityRepository = (*Repository)(nil)

const entityColumns = `id, org_id, entity_type, reference, current_status_id,
	line_count, total, created_at, updated_at`

const recordColumns = `id, org_id, entity_id, entity_type, from_status_id,
	to_status_id, changed_by, notes, created_at`

func (r *Repository) Create(ctx context.Context, e domain.Entity, record domain.TransitionRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning create transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO entities (`+entityColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.OrgID, string(e.EntityType), e.Reference, e.CurrentStatusID,
		e.LineCount, e.Total,
		e.CreatedAt.Format(timeFormat),
		e.UpdatedAt.Format(timeFormat),
	); err != nil {
		return fmt.Errorf("inserting entity: %w", err)
	}

	if err := appendRecord(ctx, tx, record); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) GetByID(ctx context.Context, orgID, id string) (domain.Entity, error) {
	var e domain.Entity
	var entityType, createdAt, updatedAt string

	err := r.db.QueryRowContext(ctx,
		`SELECT `+entityColumns+` FROM entities WHERE id = ? AND org_id = ?`, id, orgID,
	).Scan(&e.ID, &e.OrgID, &entityType, &e.Reference, &e.CurrentStatusID,
		&e.LineCount, &e.Total, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Entity{}, domain.ErrNotFound
		}
		return domain.Entity{}, fmt.Errorf("scanning entity: %w", err)
	}

	e.EntityType = domain.StatusType(entityType)
	e.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	e.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)

	return e, nil
}

// TransitionStatus is the engine's single atomic read-modify-write: a
// compare-and-swap on current_status_id plus the ledger append, in one
// transaction. A caller holding a stale status loses the race and gets
// ErrConcurrentModification with nothing written.
func (r *Repository) TransitionStatus(ctx context.Context, e domain.Entity, expectedStatusID string, record domain.TransitionRecord) (domain.Entity, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Entity{}, fmt.Errorf("beginning transition transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		`UPDATE entities SET current_status_id = ?, updated_at = ?
		 WHERE id = ? AND org_id = ? AND current_status_id = ?`,
		record.ToStatusID, now.Format(timeFormat),
		e.ID, e.OrgID, expectedStatusID,
	)
	if err != nil {
		return domain.Entity{}, fmt.Errorf("updating entity status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return domain.Entity{}, fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		// Distinguish a missing row from a lost race.
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM entities WHERE id = ? AND org_id = ?`, e.ID, e.OrgID,
		).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Entity{}, domain.ErrNotFound
		}
		if err != nil {
			return domain.Entity{}, fmt.Errorf("checking entity existence: %w", err)
		}
		return domain.Entity{}, domain.ErrConcurrentModification
	}

	if err := appendRecord(ctx, tx, record); err != nil {
		return domain.Entity{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.Entity{}, fmt.Errorf("committing transition: %w", err)
	}

	e.CurrentStatusID = record.ToStatusID
	e.UpdatedAt = now
	return e, nil
}

func (r *Repository) CountByStatus(ctx context.Context, orgID, statusID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entities WHERE org_id = ? AND current_status_id = ?`,
		orgID, statusID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting entities: %w", err)
	}
	return count, nil
}

func (r *Repository) ListHistory(ctx context.Context, orgID, entityID string) ([]domain.TransitionRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM transition_records
		 WHERE org_id = ? AND entity_id = ?
		 ORDER BY created_at DESC, rowid DESC`,
		orgID, entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	defer rows.Close()

	var records []domain.TransitionRecord
	for rows.Next() {
		var rec domain.TransitionRecord
		var entityType, createdAt string
		var fromStatus, changedBy sql.NullString
		if err := rows.Scan(&rec.ID, &rec.OrgID, &rec.EntityID, &entityType,
			&fromStatus, &rec.ToStatusID, &changedBy, &rec.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		rec.EntityType = domain.StatusType(entityType)
		if fromStatus.Valid {
			rec.FromStatusID = &fromStatus.String
		}
		if changedBy.Valid {
			rec.ChangedBy = &changedBy.String
		}
		rec.CreatedAt, _ = time.Parse(recordTimeFormat, createdAt)
		records = append(records, rec)
	}

	return records, rows.Err()
}

// appendRecord inserts a ledger row. It runs only inside the transaction
// that mutates the entity; the ledger has no standalone write path.
func appendRecord(ctx context.Context, tx *sql.Tx, rec domain.TransitionRecord) error {
	var fromStatus, changedBy any
	if rec.FromStatusID != nil {
		fromStatus = *rec.FromStatusID
	}
	if rec.ChangedBy != nil {
		changedBy = *rec.ChangedBy
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO transition_records (`+recordColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.OrgID, rec.EntityID, string(rec.EntityType),
		fromStatus, rec.ToStatusID, changedBy, rec.Notes,
		rec.CreatedAt.Format(recordTimeFormat),
	); err != nil {
		return fmt.Errorf("appending history record: %w", err)
	}
	return nil
}
