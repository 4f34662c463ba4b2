package ports

import (
	"context"

	"regpulse/domain/report"
)

// ReportSink receives finished reports and flattened indicator records
// for export. Implementations return the path (or identifier) each
// artifact was written to.
type ReportSink interface {
	WriteReport(ctx context.Context, rpt *report.Report, outputDir string) (string, error)
	WriteIndicators(ctx context.Context, records []report.IndicatorRecord, outputDir string) (string, error)
}
