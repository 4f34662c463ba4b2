package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"regpulse/analytics/clean"
	"regpulse/domain/policy"
	"regpulse/domain/report"
	"regpulse/domain/table"
	apperrors "regpulse/internal/errors"
)

// WriteIndicators writes the flattened per-state indicator records as
// indicators.csv under outputDir.
func (s *FileSink) WriteIndicators(ctx context.Context, records []report.IndicatorRecord, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", apperrors.ExportError("failed to create output directory", err)
	}

	path := filepath.Join(outputDir, "indicators.csv")
	rows := [][]string{{
		"state", "total_activity",
		"saturation_index", "saturation_status",
		"volatility_index", "volatility_status",
		"population_millions",
	}}
	for _, r := range records {
		rows = append(rows, []string{
			r.State,
			formatFloat(r.TotalActivity),
			formatFloat(r.SaturationValue),
			r.SaturationStatus,
			formatFloat(r.VolatilityValue),
			r.VolatilityStatus,
			formatFloat(r.PopulationMillions),
		})
	}

	if err := writeCSV(path, rows); err != nil {
		return "", err
	}
	s.logger.Info("indicators saved to %s", path)
	return path, nil
}

// WriteStateAggregates exports per-state sums of every numeric column
// with population and the capped saturation ratio attached, suitable for
// BI dashboards.
func (s *FileSink) WriteStateAggregates(ctx context.Context, t *table.Table, cfg policy.Config, outputDir string) (string, error) {
	stateCol, ok := t.StateColumn()
	if !ok {
		return "", apperrors.InvalidInput("table has no state column")
	}
	numericCols := t.NumericColumns()
	if len(numericCols) == 0 {
		return "", apperrors.InvalidInput("table has no numeric columns")
	}

	sums := make(map[string]map[string]float64)
	for _, row := range t.Rows {
		state := clean.NormalizeText(row[stateCol])
		if state == "" {
			continue
		}
		if sums[state] == nil {
			sums[state] = make(map[string]float64)
		}
		for _, col := range numericCols {
			if v, ok := table.ParseNumeric(row[col]); ok {
				sums[state][col] += v
			}
		}
	}

	states := make([]string, 0, len(sums))
	for st := range sums {
		states = append(states, st)
	}
	sort.Strings(states)

	header := append([]string{"state"}, numericCols...)
	header = append(header, "population_millions", "total", "saturation_index")
	rows := [][]string{header}
	for _, st := range states {
		total := 0.0
		rec := []string{st}
		for _, col := range numericCols {
			v := sums[st][col]
			total += v
			rec = append(rec, formatFloat(v))
		}
		pop := cfg.PopulationMillions(st)
		saturation := math.Min(total/(pop*1_000_000)*100, 120)
		rec = append(rec, formatFloat(pop), formatFloat(total), formatFloat(saturation))
		rows = append(rows, rec)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", apperrors.ExportError("failed to create output directory", err)
	}
	path := filepath.Join(outputDir, fmt.Sprintf("state_%s.csv", t.Source))
	if err := writeCSV(path, rows); err != nil {
		return "", err
	}
	s.logger.Info("state aggregates saved to %s", path)
	return path, nil
}

// WriteDailyAggregates exports date-grouped sums of every numeric column
// plus a combined total, skipping rows with unparsable dates.
func (s *FileSink) WriteDailyAggregates(ctx context.Context, t *table.Table, outputDir string) (string, error) {
	dateCol, ok := t.DateColumn()
	if !ok {
		return "", apperrors.InvalidInput("table has no date column")
	}
	numericCols := t.NumericColumns()
	if len(numericCols) == 0 {
		return "", apperrors.InvalidInput("table has no numeric columns")
	}

	type daySums map[string]float64
	sums := make(map[string]daySums)
	for _, row := range t.Rows {
		d, ok := clean.ParseDate(row[dateCol])
		if !ok {
			continue
		}
		day := d.Format("2006-01-02")
		if sums[day] == nil {
			sums[day] = make(daySums)
		}
		for _, col := range numericCols {
			if v, ok := table.ParseNumeric(row[col]); ok {
				sums[day][col] += v
			}
		}
	}

	days := make([]string, 0, len(sums))
	for d := range sums {
		days = append(days, d)
	}
	sort.Strings(days)

	header := append([]string{"date"}, numericCols...)
	header = append(header, "total")
	rows := [][]string{header}
	for _, d := range days {
		total := 0.0
		rec := []string{d}
		for _, col := range numericCols {
			v := sums[d][col]
			total += v
			rec = append(rec, formatFloat(v))
		}
		rec = append(rec, formatFloat(total))
		rows = append(rows, rec)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", apperrors.ExportError("failed to create output directory", err)
	}
	path := filepath.Join(outputDir, fmt.Sprintf("daily_%s.csv", t.Source))
	if err := writeCSV(path, rows); err != nil {
		return "", err
	}
	s.logger.Info("daily aggregates saved to %s", path)
	return path, nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return apperrors.ExportError("failed to create file", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return apperrors.ExportError("failed to write row", err)
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
