package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SubmissionRecord is one creation attempt as written to the journal.
type SubmissionRecord struct {
	ID            int64
	CallerID      string
	GeneratedName string
	RemoteID      *int
	StatusID      *int
	Outcome       string
	FailureCode   *string
	CreatedAt     time.Time
}

// Submission outcomes.
const (
	OutcomeCreated      = "created"
	OutcomeSubmitFailed = "submit_failed"
)

// SubmissionJournal persists an audit trail of ticket creation attempts. It is
// an audit log, not a cache: the remote system stays the source of truth for
// ticket data.
type SubmissionJournal interface {
	Record(ctx context.Context, rec *SubmissionRecord) error
	ListByCaller(ctx context.Context, callerID string, limit int) ([]SubmissionRecord, error)
}

type submissionJournal struct {
	pool *pgxpool.Pool
}

// NewSubmissionJournal constructs the journal. A nil pool yields a no-op
// journal so the gateway runs without postgres.
func NewSubmissionJournal(pool *pgxpool.Pool) SubmissionJournal {
	if pool == nil {
		return noopJournal{}
	}
	return &submissionJournal{pool: pool}
}

func (j *submissionJournal) Record(ctx context.Context, rec *SubmissionRecord) error {
	const query = `
        INSERT INTO submission_journal (caller_id, generated_name, remote_id, status_id, outcome, failure_code)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return j.pool.QueryRow(ctx, query,
		rec.CallerID,
		rec.GeneratedName,
		rec.RemoteID,
		rec.StatusID,
		rec.Outcome,
		rec.FailureCode,
	).Scan(&rec.ID, &rec.CreatedAt)
}

func (j *submissionJournal) ListByCaller(ctx context.Context, callerID string, limit int) ([]SubmissionRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	const query = `
        SELECT id, caller_id, generated_name, remote_id, status_id, outcome, failure_code, created_at
        FROM submission_journal
        WHERE caller_id=$1
        ORDER BY created_at DESC
        LIMIT $2`
	rows, err := j.pool.Query(ctx, query, callerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []SubmissionRecord
	for rows.Next() {
		var rec SubmissionRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.CallerID,
			&rec.GeneratedName,
			&rec.RemoteID,
			&rec.StatusID,
			&rec.Outcome,
			&rec.FailureCode,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type noopJournal struct{}

func (noopJournal) Record(ctx context.Context, rec *SubmissionRecord) error {
	return nil
}

func (noopJournal) ListByCaller(ctx context.Context, callerID string, limit int) ([]SubmissionRecord, error) {
	return nil, nil
}
