package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"regpulse/domain/report"
	apperrors "regpulse/internal/errors"
)

// WriteSummary renders a human-readable run summary as HTML (via a
// Markdown intermediate) under outputDir.
func (s *FileSink) WriteSummary(ctx context.Context, rpt *report.Report, records []report.IndicatorRecord, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", apperrors.ExportError("failed to create output directory", err)
	}

	md := buildSummaryMarkdown(rpt, records)

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: "Registration Analytics Summary",
		Flags: html.CommonFlags | html.CompletePage,
	})
	rendered := markdown.ToHTML([]byte(md), p, renderer)

	path := filepath.Join(outputDir, fmt.Sprintf("summary_%s.html", timestampSuffix(rpt.GeneratedAt)))
	if err := os.WriteFile(path, rendered, 0o644); err != nil {
		return "", apperrors.ExportError("failed to write summary", err)
	}

	s.logger.Info("summary saved to %s", path)
	return path, nil
}

func buildSummaryMarkdown(rpt *report.Report, records []report.IndicatorRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Registration Analytics Summary\n\n")
	fmt.Fprintf(&b, "Run `%s`, generated %s.\n\n", rpt.RunID, rpt.GeneratedAt.Format("2006-01-02 15:04:05"))

	fmt.Fprintf(&b, "## Records\n\n")
	fmt.Fprintf(&b, "| Source | Records |\n|---|---|\n")
	fmt.Fprintf(&b, "| Enrollment | %d |\n", rpt.Summary.EnrollmentRecords)
	fmt.Fprintf(&b, "| Demographic | %d |\n", rpt.Summary.DemographicRecords)
	fmt.Fprintf(&b, "| Biometric | %d |\n", rpt.Summary.BiometricRecords)
	fmt.Fprintf(&b, "| **Total** | %d |\n\n", rpt.Summary.TotalRecords)

	if len(records) > 0 {
		fmt.Fprintf(&b, "## State indicators\n\n")
		fmt.Fprintf(&b, "| State | Total | Saturation | Volatility |\n|---|---|---|---|\n")
		for _, r := range records {
			fmt.Fprintf(&b, "| %s | %.0f | %.1f (%s) | %.1f (%s) |\n",
				r.State, r.TotalActivity,
				r.SaturationValue, r.SaturationStatus,
				r.VolatilityValue, r.VolatilityStatus)
		}
		b.WriteString("\n")
	}

	for _, source := range sortedKeys(rpt.Forecasts) {
		fc := rpt.Forecasts[source]
		fmt.Fprintf(&b, "## %s trend\n\n", strings.ToUpper(source[:1])+source[1:])
		fmt.Fprintf(&b, "Trend %s over %d observed days (slope %.2f, R² %.3f, last date %s).\n\n",
			fc.Trend, fc.HistoricalDays, fc.Slope, fc.RSquared, fc.LastDate)
	}

	return b.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
