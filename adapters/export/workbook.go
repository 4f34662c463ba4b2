package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"regpulse/domain/report"
	apperrors "regpulse/internal/errors"
)

// WriteWorkbook exports the per-state indicators and top correlations as
// a single Excel workbook for manual review.
func (s *FileSink) WriteWorkbook(ctx context.Context, rpt *report.Report, records []report.IndicatorRecord, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", apperrors.ExportError("failed to create output directory", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeIndicatorSheet(f, records); err != nil {
		return "", apperrors.ExportError("failed to write indicator sheet", err)
	}
	if err := writeCorrelationSheet(f, rpt); err != nil {
		return "", apperrors.ExportError("failed to write correlation sheet", err)
	}

	path := filepath.Join(outputDir, fmt.Sprintf("analytics_%s.xlsx", timestampSuffix(rpt.GeneratedAt)))
	if err := f.SaveAs(path); err != nil {
		return "", apperrors.ExportError("failed to save workbook", err)
	}

	s.logger.Info("workbook saved to %s", path)
	return path, nil
}

func writeIndicatorSheet(f *excelize.File, records []report.IndicatorRecord) error {
	sheet := "Indicators"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)

	headers := []string{
		"State", "Total Activity",
		"Saturation Index", "Saturation Status",
		"Volatility Index", "Volatility Status",
		"Population (M)",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for r, rec := range records {
		values := []interface{}{
			rec.State, rec.TotalActivity,
			rec.SaturationValue, rec.SaturationStatus,
			rec.VolatilityValue, rec.VolatilityStatus,
			rec.PopulationMillions,
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	// Drop the default sheet once ours exists.
	f.DeleteSheet("Sheet1")
	return nil
}

func writeCorrelationSheet(f *excelize.File, rpt *report.Report) error {
	sheet := "Correlations"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Source", "Pair", "Correlation"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	row := 2
	for _, source := range sortedKeys(rpt.Bivariate) {
		for _, pair := range rpt.Bivariate[source].TopCorrelations {
			values := []interface{}{source, pair.Pair, pair.Correlation}
			for c, v := range values {
				cell, _ := excelize.CoordinatesToCellName(c+1, row)
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return err
				}
			}
			row++
		}
	}
	return nil
}
