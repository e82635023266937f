package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/neomorfeo/statuskit/internal/domain"
)

// Compile-time check: Repository implements domain.StatusRepository.
var _ domain.StatusRepository = (*Repository)(nil)

const statusColumns = `id, org_id, status_type, code, name, color, description,
	display_order, is_system, is_active, created_at, updated_at`

func (r *Repository) Insert(ctx context.Context, s domain.StatusDefinition) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO statuses (`+statusColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.OrgID, string(s.StatusType), s.Code, s.Name, s.Color, s.Description,
		s.DisplayOrder, s.IsSystem, s.IsActive,
		s.CreatedAt.Format(timeFormat),
		s.UpdatedAt.Format(timeFormat),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateCodeError{Code: s.Code}
		}
		return fmt.Errorf("inserting status: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, orgID, id string) (domain.StatusDefinition, error) {
	return scanStatus(r.db.QueryRowContext(ctx,
		`SELECT `+statusColumns+` FROM statuses WHERE id = ? AND org_id = ?`, id, orgID,
	))
}

func (r *Repository) GetByCode(ctx context.Context, orgID string, statusType domain.StatusType, code string) (domain.StatusDefinition, error) {
	return scanStatus(r.db.QueryRowContext(ctx,
		`SELECT `+statusColumns+` FROM statuses
		 WHERE org_id = ? AND status_type = ? AND code = ?`,
		orgID, string(statusType), code,
	))
}

func (r *Repository) ListByType(ctx context.Context, orgID string, statusType domain.StatusType) ([]domain.StatusDefinition, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+statusColumns+` FROM statuses
		 WHERE org_id = ? AND status_type = ?
		 ORDER BY display_order ASC, code ASC`,
		orgID, string(statusType),
	)
	if err != nil {
		return nil, fmt.Errorf("listing statuses: %w", err)
	}
	defer rows.Close()

	var statuses []domain.StatusDefinition
	for rows.Next() {
		s, err := scanStatusFromRows(rows)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, s)
	}

	return statuses, rows.Err()
}

func (r *Repository) MaxDisplayOrder(ctx context.Context, orgID string, statusType domain.StatusType) (int, error) {
	var max int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(display_order), 0) FROM statuses
		 WHERE org_id = ? AND status_type = ?`,
		orgID, string(statusType),
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("finding max display order: %w", err)
	}
	return max, nil
}

func (r *Repository) Update(ctx context.Context, s domain.StatusDefinition) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE statuses SET code = ?, name = ?, color = ?, description = ?,
		        display_order = ?, is_active = ?, updated_at = ?
		 WHERE id = ? AND org_id = ?`,
		s.Code, s.Name, s.Color, s.Description,
		s.DisplayOrder, s.IsActive,
		time.Now().UTC().Format(timeFormat),
		s.ID, s.OrgID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateCodeError{Code: s.Code}
		}
		return fmt.Errorf("updating status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Delete removes a status row and every edge that touches it, in one
// transaction. The catalog service has already rejected system and in-use
// statuses by the time this runs.
func (r *Repository) Delete(ctx context.Context, orgID, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning delete transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM transition_edges
		 WHERE org_id = ? AND (from_status_id = ? OR to_status_id = ?)`,
		orgID, id, id,
	); err != nil {
		return fmt.Errorf("deleting edges: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM statuses WHERE id = ? AND org_id = ?`, id, orgID,
	)
	if err != nil {
		return fmt.Errorf("deleting status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	return tx.Commit()
}

// Reorder assigns display_order 1..N by position in orderedIDs. The whole
// call fails if any id is unknown or belongs to another org or type.
func (r *Repository) Reorder(ctx context.Context, orgID string, statusType domain.StatusType, orderedIDs []string) error {
	if len(orderedIDs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning reorder transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	args := make([]any, 0, len(orderedIDs)+2)
	args = append(args, orgID, string(statusType))
	for _, id := range orderedIDs {
		args = append(args, id)
	}

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM statuses
		 WHERE org_id = ? AND status_type = ? AND id IN (`+placeholders(len(orderedIDs))+`)`,
		args...,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("verifying reorder ids: %w", err)
	}
	if count != len(orderedIDs) {
		return domain.ErrNotFound
	}

	now := time.Now().UTC().Format(timeFormat)
	for i, id := range orderedIDs {
		if _, err := tx.ExecContext(ctx,
			`UPDATE statuses SET display_order = ?, updated_at = ? WHERE id = ?`,
			i+1, now, id,
		); err != nil {
			return fmt.Errorf("reordering status %s: %w", id, err)
		}
	}

	return tx.Commit()
}

type statusScanner interface {
	Scan(dest ...any) error
}

func scanStatusInto(row statusScanner) (domain.StatusDefinition, error) {
	var s domain.StatusDefinition
	var statusType, createdAt, updatedAt string

	err := row.Scan(&s.ID, &s.OrgID, &statusType, &s.Code, &s.Name, &s.Color,
		&s.Description, &s.DisplayOrder, &s.IsSystem, &s.IsActive, &createdAt, &updatedAt)
	if err != nil {
		return domain.StatusDefinition{}, err
	}

	s.StatusType = domain.StatusType(statusType)
	s.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	s.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)

	return s, nil
}

func scanStatus(row *sql.Row) (domain.StatusDefinition, error) {
	s, err := scanStatusInto(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.StatusDefinition{}, domain.ErrNotFound
		}
		return domain.StatusDefinition{}, fmt.Errorf("scanning status: %w", err)
	}
	return s, nil
}

func scanStatusFromRows(rows *sql.Rows) (domain.StatusDefinition, error) {
	s, err := scanStatusInto(rows)
	if err != nil {
		return domain.StatusDefinition{}, fmt.Errorf("scanning status row: %w", err)
	}
	return s, nil
}
