package ports

import (
	"context"
	"time"

	"regpulse/domain/core"
	"regpulse/domain/report"
)

// RunSummary is a lightweight listing entry for archived report runs.
type RunSummary struct {
	RunID        core.RunID `json:"run_id" db:"run_id"`
	GeneratedAt  time.Time  `json:"generated_at" db:"generated_at"`
	TotalRecords int        `json:"total_records" db:"total_records"`
	StateCount   int        `json:"state_count" db:"state_count"`
}

// ReportArchive persists finished report runs for later retrieval.
// Archiving is optional plumbing: the engine never reads archived state
// back into a computation.
type ReportArchive interface {
	Save(ctx context.Context, rpt *report.Report) error
	GetByRunID(ctx context.Context, runID core.RunID) (*report.Report, error)
	ListRecent(ctx context.Context, limit int) ([]RunSummary, error)
}
