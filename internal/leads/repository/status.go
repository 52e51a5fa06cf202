package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"leadcrm_backend/internal/leads/domain"
	"leadcrm_backend/internal/taxonomy"

	"github.com/jackc/pgx/v5"
)

// ContactUpdate carries the counter/pointer side effects of a terminal call
// outcome. Reached outcomes zero the failed-contact counter and move the
// last-contact pointers; unreached ones increment the counter and move the
// last-failure pointers.
type ContactUpdate struct {
	Reached      bool
	CallRecordID *int64
	OccurredAt   time.Time
}

// StatusUpdate is one accepted status change applied atomically with its
// audit log entry.
type StatusUpdate struct {
	Dimension taxonomy.Dimension
	Target    domain.StatusPair
	ActorID   *int16
	Operation string
	Note      *string

	Contact *ContactUpdate
	// BumpScheduleTimes increments the lead's schedule counter; set when the
	// schedule dimension newly enters a scheduled main status.
	BumpScheduleTimes bool
}

// ApplyStatusUpdate performs the status write and the log append in one
// transaction, holding a row lock on the lead for the duration. The old
// values recorded in the log entry are read under that lock, so the ledger
// can never drift from the stored state.
//
// When the target equals the current state, the status fields stay
// untouched and no log entry is appended (changed=false); contact counters,
// if supplied, still update in the same transaction so repeated identical
// call outcomes keep counting.
func (r *Repository) ApplyStatusUpdate(ctx context.Context, leadID int64, update StatusUpdate) (Lead, StatusLogEntry, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Lead{}, StatusLogEntry{}, false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1 FOR UPDATE`, leadID)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, StatusLogEntry{}, false, ErrNotFound
	}
	if err != nil {
		return Lead{}, StatusLogEntry{}, false, err
	}

	old := lead.StatusPair(update.Dimension)
	changed := !old.Equal(update.Target)
	if !changed && update.Contact == nil {
		return lead, StatusLogEntry{}, false, nil
	}

	statusField := update.Dimension.StatusField()
	subField := update.Dimension.SubStatusField()

	setClauses := []string{"updated_at = now()"}
	args := []interface{}{}
	argIdx := 1

	if changed {
		setClauses = append(setClauses,
			fmt.Sprintf("%s = $%d", statusField, argIdx),
			fmt.Sprintf("%s = $%d", subField, argIdx+1),
		)
		args = append(args, update.Target.MainID, update.Target.SubID)
		argIdx += 2
	}

	if update.Contact != nil {
		if update.Contact.Reached {
			setClauses = append(setClauses,
				"analysis_failed_records = 0",
				fmt.Sprintf("last_contact_record_id = $%d", argIdx),
				fmt.Sprintf("last_contact_time = $%d", argIdx+1),
			)
		} else {
			setClauses = append(setClauses,
				"analysis_failed_records = analysis_failed_records + 1",
				fmt.Sprintf("last_analysis_failed_record_id = $%d", argIdx),
				fmt.Sprintf("last_analysis_failed_time = $%d", argIdx+1),
			)
		}
		args = append(args, update.Contact.CallRecordID, update.Contact.OccurredAt)
		argIdx += 2
	}

	if changed && update.BumpScheduleTimes {
		setClauses = append(setClauses, "schedule_times = schedule_times + 1")
	}

	args = append(args, leadID)
	query := fmt.Sprintf("UPDATE leads SET %s WHERE id = $%d RETURNING %s",
		strings.Join(setClauses, ", "), argIdx, leadColumns)

	updated, err := scanLead(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return Lead{}, StatusLogEntry{}, false, err
	}

	var entry StatusLogEntry
	if changed {
		entry, err = appendStatusLog(ctx, tx, appendStatusLogParams{
			LeadID:         leadID,
			AdvisorID:      update.ActorID,
			StatusField:    statusField,
			OldValue:       old.MainID,
			NewValue:       update.Target.MainID,
			SubStatusField: subField,
			SubOldValue:    old.SubID,
			SubNewValue:    update.Target.SubID,
			Operation:      update.Operation,
			Note:           update.Note,
		})
		if err != nil {
			return Lead{}, StatusLogEntry{}, false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Lead{}, StatusLogEntry{}, false, err
	}

	return updated, entry, changed, nil
}
