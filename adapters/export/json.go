// Package export writes finished reports to the filesystem: the full
// JSON report, flattened CSV aggregates for BI consumption, an Excel
// workbook and an HTML run summary.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"regpulse/domain/report"
	"regpulse/internal"
	apperrors "regpulse/internal/errors"
	"regpulse/ports"
)

// FileSink writes report artifacts under an output directory.
type FileSink struct {
	logger *internal.Logger
}

var _ ports.ReportSink = (*FileSink)(nil)

// NewFileSink creates a filesystem report sink.
func NewFileSink(logger *internal.Logger) *FileSink {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &FileSink{logger: logger}
}

// WriteReport serializes the full report as indented JSON into
// outputDir, stamped with the generation time.
func (s *FileSink) WriteReport(ctx context.Context, rpt *report.Report, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", apperrors.ExportError("failed to create output directory", err)
	}

	name := fmt.Sprintf("analytics_report_%s.json", rpt.GeneratedAt.Format("20060102_150405"))
	path := filepath.Join(outputDir, name)

	data, err := json.MarshalIndent(rpt, "", "  ")
	if err != nil {
		return "", apperrors.ExportError("failed to marshal report", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", apperrors.ExportError("failed to write report", err)
	}

	s.logger.Info("report saved to %s", path)
	return path, nil
}

// timestampSuffix formats a consistent file suffix for run artifacts.
func timestampSuffix(t time.Time) string {
	return t.Format("20060102_150405")
}
