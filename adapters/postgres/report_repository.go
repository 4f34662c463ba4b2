// Package postgres archives finished report runs. The archive is
// write-mostly plumbing for audit and dashboards; the analytics engine
// never reads persisted state back into a computation.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"regpulse/domain/core"
	"regpulse/domain/report"
	"regpulse/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS report_runs (
	run_id        TEXT PRIMARY KEY,
	generated_at  TIMESTAMPTZ NOT NULL,
	total_records INTEGER NOT NULL,
	state_count   INTEGER NOT NULL,
	report        JSONB NOT NULL
)`

// reportRepository implements the ReportArchive interface
type reportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new report archive over an open
// connection, ensuring the backing table exists.
func NewReportRepository(db *sqlx.DB) (ports.ReportArchive, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to ensure report_runs table: %w", err)
	}
	return &reportRepository{db: db}, nil
}

// Save inserts a report run into the archive
func (r *reportRepository) Save(ctx context.Context, rpt *report.Report) error {
	payload, err := json.Marshal(rpt)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	query := `INSERT INTO report_runs (run_id, generated_at, total_records, state_count, report)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (run_id) DO UPDATE SET
			generated_at = EXCLUDED.generated_at,
			total_records = EXCLUDED.total_records,
			state_count = EXCLUDED.state_count,
			report = EXCLUDED.report`

	_, err = r.db.ExecContext(ctx, query,
		rpt.RunID.String(), rpt.GeneratedAt, rpt.Summary.TotalRecords, len(rpt.Indicators), payload,
	)
	if err != nil {
		return fmt.Errorf("failed to save report run: %w", err)
	}
	return nil
}

// GetByRunID retrieves an archived report by its run ID
func (r *reportRepository) GetByRunID(ctx context.Context, runID core.RunID) (*report.Report, error) {
	var payload []byte
	query := `SELECT report FROM report_runs WHERE run_id = $1`
	if err := r.db.GetContext(ctx, &payload, query, runID.String()); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("report run %s not found", runID)
		}
		return nil, fmt.Errorf("failed to get report run: %w", err)
	}

	var rpt report.Report
	if err := json.Unmarshal(payload, &rpt); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &rpt, nil
}

// ListRecent returns summaries of the most recent runs, newest first
func (r *reportRepository) ListRecent(ctx context.Context, limit int) ([]ports.RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	var summaries []ports.RunSummary
	query := `SELECT run_id, generated_at, total_records, state_count
		FROM report_runs ORDER BY generated_at DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &summaries, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list report runs: %w", err)
	}
	return summaries, nil
}
