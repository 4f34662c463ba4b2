package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"regpulse/domain/policy"
	"regpulse/domain/report"
	"regpulse/domain/table"
	"regpulse/internal/testkit"
)

// stubSource serves pre-built tables without touching the filesystem.
type stubSource struct {
	tables map[string]*table.Table
}

func (s *stubSource) LoadAll(ctx context.Context) (map[string]*table.Table, error) {
	return s.tables, nil
}

func generatedTables(t *testing.T) map[string]*table.Table {
	t.Helper()
	cfg := testkit.DefaultGeneratorConfig()
	cfg.States = []string{"Kerala", "Punjab", "Tamil Nadu"}
	cfg.DistrictCount = 2
	return testkit.NewGenerator(cfg).GenerateAll()
}

func TestGenerateReport_FullRun(t *testing.T) {
	service := NewReportService(&stubSource{tables: generatedTables(t)}, policy.DefaultConfig(), nil)

	rpt, err := service.GenerateReport(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, rpt.RunID)

	require.Greater(t, rpt.Summary.TotalRecords, 0)
	require.Equal(t,
		rpt.Summary.EnrollmentRecords+rpt.Summary.DemographicRecords+rpt.Summary.BiometricRecords,
		rpt.Summary.TotalRecords)

	// Every source has age bands, a state column and dates, so all five
	// analysis families should be populated for each.
	for _, name := range table.Sources {
		require.Contains(t, rpt.Univariate, name, "univariate missing for %s", name)
		require.Contains(t, rpt.Bivariate, name, "bivariate missing for %s", name)
		require.Contains(t, rpt.Trivariate, name, "trivariate missing for %s", name)
		require.Contains(t, rpt.Forecasts, name, "forecast missing for %s", name)
	}

	// Indicators cover exactly the configured states present in the data.
	require.Len(t, rpt.Indicators, 3)
	kerala, ok := rpt.Indicators["Kerala"]
	require.True(t, ok)
	require.False(t, kerala.WholeTableFallback)
	require.Greater(t, kerala.TotalActivity, 0.0)

	// The generator drifts upward, so the enrollment trend should be increasing.
	require.Equal(t, report.TrendIncreasing, rpt.Forecasts[table.SourceEnrollment].Trend)
}

func TestAnalyze_EmptyInputIsAnError(t *testing.T) {
	empty := map[string]*table.Table{
		table.SourceEnrollment:  table.New(table.SourceEnrollment, nil),
		table.SourceDemographic: table.New(table.SourceDemographic, nil),
		table.SourceBiometric:   table.New(table.SourceBiometric, nil),
	}
	service := NewReportService(&stubSource{tables: empty}, policy.DefaultConfig(), nil)

	_, err := service.Analyze(context.Background(), empty)
	require.Error(t, err)
}

func TestAnalyze_SignalsDoNotAbortRun(t *testing.T) {
	// Enrollment has no state or date columns: matrix, crosstab and
	// per-state indicators are all skipped but the run still succeeds.
	enrollment := table.New(table.SourceEnrollment, []string{"age_0_5"})
	for _, v := range []string{"10", "20", "30"} {
		enrollment.Append(table.Row{"age_0_5": v})
	}
	tables := map[string]*table.Table{
		table.SourceEnrollment:  enrollment,
		table.SourceDemographic: table.New(table.SourceDemographic, nil),
		table.SourceBiometric:   table.New(table.SourceBiometric, nil),
	}
	service := NewReportService(&stubSource{tables: tables}, policy.DefaultConfig(), nil)

	rpt, err := service.Analyze(context.Background(), tables)
	require.NoError(t, err)

	require.Contains(t, rpt.Univariate, table.SourceEnrollment)
	require.NotContains(t, rpt.Bivariate, table.SourceEnrollment)
	require.Empty(t, rpt.Indicators)

	// A signaled crosstab still contributes an empty entry.
	require.Contains(t, rpt.Trivariate, table.SourceEnrollment)
	require.Empty(t, rpt.Trivariate[table.SourceEnrollment].MonthlyStatePattern)
}

func TestAnalyze_SkipsStatesWithoutRows(t *testing.T) {
	tables := map[string]*table.Table{
		table.SourceEnrollment:  testkit.SmallTable(table.SourceEnrollment),
		table.SourceDemographic: table.New(table.SourceDemographic, nil),
		table.SourceBiometric:   table.New(table.SourceBiometric, nil),
	}
	service := NewReportService(&stubSource{tables: tables}, policy.DefaultConfig(), nil)

	rpt, err := service.Analyze(context.Background(), tables)
	require.NoError(t, err)

	// The fixture only covers Kerala and Punjab; the other configured
	// states signal and are excluded rather than zero-filled.
	require.Len(t, rpt.Indicators, 2)
	require.Contains(t, rpt.Indicators, "Kerala")
	require.Contains(t, rpt.Indicators, "Punjab")
}

func TestIndicatorRecords_SortedByState(t *testing.T) {
	service := NewReportService(&stubSource{tables: generatedTables(t)}, policy.DefaultConfig(), nil)

	rpt, err := service.GenerateReport(context.Background())
	require.NoError(t, err)

	records := service.IndicatorRecords(rpt)
	require.Len(t, records, 3)
	for i := 1; i < len(records); i++ {
		require.Less(t, records[i-1].State, records[i].State)
	}
	for _, r := range records {
		require.NotEmpty(t, r.SaturationStatus)
		require.NotEmpty(t, r.VolatilityStatus)
		require.Greater(t, r.PopulationMillions, 0.0)
	}
}
