package app

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"regpulse/analytics/clean"
	"regpulse/analytics/correlate"
	"regpulse/analytics/crosstab"
	"regpulse/analytics/describe"
	"regpulse/analytics/forecast"
	"regpulse/analytics/indicator"
	"regpulse/domain/core"
	"regpulse/domain/policy"
	"regpulse/domain/report"
	"regpulse/domain/table"
	"regpulse/internal"
	apperrors "regpulse/internal/errors"
	"regpulse/ports"
)

// ReportService orchestrates the five analysis families over the input
// tables and assembles the run report. The analytics calls are pure
// read-only transforms with no shared mutable state, so the per-state
// indicator pass fans out across workers without coordination.
type ReportService struct {
	source ports.TableSource
	cfg    policy.Config
	logger *internal.Logger
}

// NewReportService creates a report service over a table source with the
// given policy profile.
func NewReportService(source ports.TableSource, cfg policy.Config, logger *internal.Logger) *ReportService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ReportService{source: source, cfg: cfg, logger: logger}
}

// GenerateReport loads every source and runs the full analysis. A signal
// in one column, state or source never aborts the run; only a run where
// every input table is empty is an error.
func (s *ReportService) GenerateReport(ctx context.Context) (*report.Report, error) {
	tables, err := s.source.LoadAll(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "loading input tables failed")
	}
	return s.Analyze(ctx, tables)
}

// Analyze runs the full analysis over already-loaded tables.
func (s *ReportService) Analyze(ctx context.Context, tables map[string]*table.Table) (*report.Report, error) {
	rpt := &report.Report{
		RunID:       core.NewRunID(),
		GeneratedAt: time.Now(),
		Univariate:  make(map[string]report.SourceDistribution),
		Bivariate:   make(map[string]report.MatrixResult),
		Trivariate:  make(map[string]report.CrosstabResult),
		Indicators:  make(map[string]report.StateIndicators),
		Forecasts:   make(map[string]report.ForecastResult),
		Policy:      s.cfg,
	}

	rpt.Summary = summarize(tables)
	if rpt.Summary.TotalRecords == 0 {
		return nil, apperrors.InvalidInput("no data loaded from any source")
	}

	for _, name := range table.Sources {
		t := tables[name]
		if t.IsEmpty() {
			continue
		}

		s.logger.Info("analyzing source %s (%d records)", name, t.Len())

		if dist := describe.AgeGroupDistribution(t); len(dist.AgeGroups) > 0 {
			rpt.Univariate[name] = dist
		}

		if matrix, err := correlate.StateMatrix(t, s.cfg.TopCorrelations); err == nil {
			rpt.Bivariate[name] = matrix
		} else {
			s.logger.Warn("correlation matrix skipped for %s: %v", name, err)
		}

		if xtab, err := crosstab.StateMonthVolume(t, s.cfg.CrosstabRowCap); err == nil {
			rpt.Trivariate[name] = xtab
		} else {
			// Missing columns contribute an empty result, not a failure.
			rpt.Trivariate[name] = report.CrosstabResult{}
			s.logger.Warn("crosstab skipped for %s: %v", name, err)
		}

		if fc, err := s.forecastSource(t); err == nil {
			rpt.Forecasts[name] = fc
		} else {
			s.logger.Warn("forecast skipped for %s: %v", name, err)
		}
	}

	if err := s.computeIndicators(ctx, tables[table.SourceEnrollment], rpt); err != nil {
		return nil, err
	}

	return rpt, nil
}

// computeIndicators fans the per-state indicator bundles out across
// workers. States that signal (no data) are excluded from the report.
func (s *ReportService) computeIndicators(ctx context.Context, enrollment *table.Table, rpt *report.Report) error {
	if enrollment.IsEmpty() {
		return nil
	}
	if _, ok := enrollment.StateColumn(); !ok {
		s.logger.Warn("enrollment table has no state column, skipping per-state indicators")
		return nil
	}

	states := s.cfg.States()
	sort.Strings(states)

	results := make([]*report.StateIndicators, len(states))
	g, _ := errgroup.WithContext(ctx)
	for i, state := range states {
		g.Go(func() error {
			si, err := indicator.ForState(enrollment, state, s.cfg)
			if err != nil {
				if core.IsSignal(err) {
					return nil
				}
				return err
			}
			results[i] = &si
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return apperrors.Wrap(err, "indicator computation failed")
	}

	for _, si := range results {
		if si != nil {
			rpt.Indicators[si.State] = *si
		}
	}
	return nil
}

// forecastSource fits the trend over a source's daily measure totals.
func (s *ReportService) forecastSource(t *table.Table) (report.ForecastResult, error) {
	measure, ok := t.MeasureColumn()
	if !ok {
		return report.ForecastResult{}, core.NewNoNumericDataError(t.Source)
	}
	points, err := clean.DailyTotals(t, measure)
	if err != nil {
		return report.ForecastResult{}, err
	}
	return forecast.LinearTrend(points, s.cfg)
}

// IndicatorRecords flattens the report's per-state indicators for
// tabular export, sorted by state name.
func (s *ReportService) IndicatorRecords(rpt *report.Report) []report.IndicatorRecord {
	records := make([]report.IndicatorRecord, 0, len(rpt.Indicators))
	for _, si := range rpt.Indicators {
		records = append(records, si.Record())
	}
	sort.Slice(records, func(i, j int) bool { return records[i].State < records[j].State })
	return records
}

func summarize(tables map[string]*table.Table) report.Summary {
	sum := report.Summary{
		EnrollmentRecords:  tables[table.SourceEnrollment].Len(),
		DemographicRecords: tables[table.SourceDemographic].Len(),
		BiometricRecords:   tables[table.SourceBiometric].Len(),
	}
	sum.TotalRecords = sum.EnrollmentRecords + sum.DemographicRecords + sum.BiometricRecords
	return sum
}
