// Package describe computes univariate descriptive statistics over
// cleaned numeric columns.
package describe

import (
	"math"

	"github.com/montanaflynn/stats"

	"regpulse/analytics/clean"
	"regpulse/domain/report"
	"regpulse/domain/table"
)

// Summarize computes the distributional summary of one numeric column.
// Column-absent and empty-after-cleaning conditions surface as signals
// (core.ErrColumnNotFound, core.ErrNoNumericData); callers omit the
// column from aggregate reports rather than abort.
func Summarize(t *table.Table, column string) (report.ColumnSummary, error) {
	series, err := clean.NumericSeries(t, column)
	if err != nil {
		return report.ColumnSummary{}, err
	}

	mean, err := stats.Mean(series)
	if err != nil {
		return report.ColumnSummary{}, err
	}
	min, err := stats.Min(series)
	if err != nil {
		return report.ColumnSummary{}, err
	}
	max, err := stats.Max(series)
	if err != nil {
		return report.ColumnSummary{}, err
	}
	median, err := stats.Median(series)
	if err != nil {
		return report.ColumnSummary{}, err
	}
	q25, err := stats.Percentile(series, 25)
	if err != nil {
		// Percentile needs more than one observation; degrade to the value itself.
		q25 = median
	}
	q75, err := stats.Percentile(series, 75)
	if err != nil {
		q75 = median
	}

	std := 0.0
	if len(series) > 1 {
		std, err = stats.StandardDeviationSample(series)
		if err != nil {
			return report.ColumnSummary{}, err
		}
	}

	popStd, _ := stats.StandardDeviationPopulation(series)

	return report.ColumnSummary{
		Column:   column,
		Count:    len(series),
		Mean:     mean,
		Std:      std,
		Min:      min,
		Max:      max,
		Median:   median,
		Q25:      q25,
		Q75:      q75,
		Skewness: skewness(series, mean, popStd),
		Kurtosis: kurtosis(series, mean, popStd),
	}, nil
}

// AgeGroupDistribution summarizes every recognized age-band column of a
// source table. Columns that signal (absent, no numeric data) are
// omitted from the result.
func AgeGroupDistribution(t *table.Table) report.SourceDistribution {
	result := report.SourceDistribution{
		TotalRecords: t.Len(),
		AgeGroups:    make(map[string]report.ColumnSummary),
	}
	for _, col := range table.MeasureAliases {
		if !t.HasColumn(col) {
			continue
		}
		summary, err := Summarize(t, col)
		if err != nil {
			continue
		}
		result.AgeGroups[col] = summary
	}
	return result
}

// skewness computes the adjusted Fisher-Pearson coefficient over
// population moments, with the small-sample bias correction.
func skewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sumCubed := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sumCubed += d * d * d
	}

	g1 := sumCubed / n
	return g1 * math.Sqrt(n*(n-1)) / (n - 2)
}

// kurtosis computes bias-corrected excess kurtosis.
func kurtosis(data []float64, mean, stdDev float64) float64 {
	if len(data) < 4 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sumFourth := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sumFourth += d * d * d * d
	}

	g2 := sumFourth/n - 3
	return ((n+1)*g2 + 6) * (n - 1) / ((n - 2) * (n - 3))
}
