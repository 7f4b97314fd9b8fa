package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"PaperSummarizer/internal/domain"
	"PaperSummarizer/internal/ports"
)

// HistoryRepository archives run and per-item outcomes in an embedded
// sqlite database. It is an audit trail only: the summary artifacts on
// disk stay the single source of truth for "already processed".
type HistoryRepository struct {
	db *sql.DB
}

var _ ports.RunRecorder = (*HistoryRepository)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id          TEXT PRIMARY KEY,
    started_at  TIMESTAMP NOT NULL,
    ended_at    TIMESTAMP,
    found       INTEGER NOT NULL DEFAULT 0,
    skipped     INTEGER NOT NULL DEFAULT 0,
    completed   INTEGER NOT NULL DEFAULT 0,
    failed      INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS run_items (
    run_id      TEXT NOT NULL REFERENCES runs(id),
    paper_id    TEXT NOT NULL,
    title       TEXT NOT NULL,
    status      TEXT NOT NULL,
    stage       TEXT,
    error       TEXT,
    recorded_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_run_items_run ON run_items(run_id);
`

// Open creates (or opens) the history database at path and ensures the
// schema exists.
func Open(path string) (*HistoryRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply history schema: %w", err)
	}

	return &HistoryRepository{db: db}, nil
}

// Close releases the underlying database handle.
func (r *HistoryRepository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// BeginRun inserts a new run row and returns its identifier.
func (r *HistoryRepository) BeginRun(ctx context.Context, startedAt time.Time) (string, error) {
	if r.db == nil {
		return "", nil
	}

	id := uuid.NewString()

	query, args, err := sq.Insert("runs").
		Columns("id", "started_at").
		Values(id, startedAt.UTC()).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build insert run: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	return id, nil
}

// RecordItem appends one item outcome to the run.
func (r *HistoryRepository) RecordItem(ctx context.Context, runID string, result domain.ProcessingResult) error {
	if r.db == nil || runID == "" {
		return nil
	}

	var stage, cause string
	if result.Err != nil {
		stage = domain.FailureStage(result.Err)
		cause = result.Err.Error()
	}

	query, args, err := sq.Insert("run_items").
		Columns("run_id", "paper_id", "title", "status", "stage", "error", "recorded_at").
		Values(runID, result.Listing.ID, result.Listing.Title, string(result.Status), stage, cause, time.Now().UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert item: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}

	return nil
}

// FinishRun stores the final counts on the run row.
func (r *HistoryRepository) FinishRun(ctx context.Context, runID string, report domain.RunReport) error {
	if r.db == nil || runID == "" {
		return nil
	}

	query, args, err := sq.Update("runs").
		Set("ended_at", report.EndedAt.UTC()).
		Set("found", report.Found).
		Set("skipped", report.Skipped).
		Set("completed", report.Completed).
		Set("failed", report.Failed).
		Where(sq.Eq{"id": runID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update run: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update run: %w", err)
	}

	return nil
}

// RunCount returns how many runs have been recorded, newest included.
func (r *HistoryRepository) RunCount(ctx context.Context) (int, error) {
	if r.db == nil {
		return 0, nil
	}

	query, args, err := sq.Select("COUNT(*)").From("runs").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count runs: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}

	return count, nil
}
