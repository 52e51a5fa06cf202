package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// StatusLogEntry is one immutable row of the lead status ledger. Entries
// are only ever created inside ApplyStatusUpdate's transaction; there is no
// update or delete path.
type StatusLogEntry struct {
	ID             int64
	LeadID         int64
	AdvisorID      *int16
	StatusField    string
	OldValue       *int16
	NewValue       *int16
	SubStatusField string
	SubOldValue    *int16
	SubNewValue    *int16
	Operation      string
	Note           *string
	CreatedAt      time.Time
}

type appendStatusLogParams struct {
	LeadID         int64
	AdvisorID      *int16
	StatusField    string
	OldValue       *int16
	NewValue       *int16
	SubStatusField string
	SubOldValue    *int16
	SubNewValue    *int16
	Operation      string
	Note           *string
}

func appendStatusLog(ctx context.Context, tx pgx.Tx, params appendStatusLogParams) (StatusLogEntry, error) {
	var entry StatusLogEntry
	err := tx.QueryRow(ctx, `
		INSERT INTO lead_status_logs (
			lead_id, advisor_id, status_field, old_value, new_value,
			sub_status_field, sub_old_value, sub_new_value, operation, note
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, lead_id, advisor_id, status_field, old_value, new_value,
			sub_status_field, sub_old_value, sub_new_value, operation, note, created_at
	`,
		params.LeadID, params.AdvisorID, params.StatusField, params.OldValue, params.NewValue,
		params.SubStatusField, params.SubOldValue, params.SubNewValue, params.Operation, params.Note,
	).Scan(
		&entry.ID, &entry.LeadID, &entry.AdvisorID, &entry.StatusField, &entry.OldValue, &entry.NewValue,
		&entry.SubStatusField, &entry.SubOldValue, &entry.SubNewValue, &entry.Operation, &entry.Note, &entry.CreatedAt,
	)
	if err != nil {
		return StatusLogEntry{}, err
	}
	return entry, nil
}

type StatusLogQuery struct {
	LeadID int64
	Since  *time.Time
	// AfterID restarts a previous listing after the given entry id.
	AfterID *int64
	Limit   int
}

// ListStatusLogs returns a page of a lead's ledger ordered by created_at,
// then id, ascending. Passing the last entry's id as AfterID resumes the
// listing, which keeps history reads restartable without server state.
func (r *Repository) ListStatusLogs(ctx context.Context, query StatusLogQuery) ([]StatusLogEntry, error) {
	whereClauses := []string{"lead_id = $1"}
	args := []interface{}{query.LeadID}
	argIdx := 2

	if query.Since != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("created_at >= $%d", argIdx))
		args = append(args, *query.Since)
		argIdx++
	}
	if query.AfterID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("id > $%d", argIdx))
		args = append(args, *query.AfterID)
		argIdx++
	}

	args = append(args, query.Limit)
	sql := fmt.Sprintf(`
		SELECT id, lead_id, advisor_id, status_field, old_value, new_value,
			sub_status_field, sub_old_value, sub_new_value, operation, note, created_at
		FROM lead_status_logs
		WHERE %s
		ORDER BY created_at ASC, id ASC
		LIMIT $%d
	`, strings.Join(whereClauses, " AND "), argIdx)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]StatusLogEntry, 0)
	for rows.Next() {
		var entry StatusLogEntry
		if err := rows.Scan(
			&entry.ID, &entry.LeadID, &entry.AdvisorID, &entry.StatusField, &entry.OldValue, &entry.NewValue,
			&entry.SubStatusField, &entry.SubOldValue, &entry.SubNewValue, &entry.Operation, &entry.Note, &entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return entries, nil
}
