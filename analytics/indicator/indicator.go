// Package indicator derives the policy-banded program health indicators:
// saturation (activity relative to population) and volatility
// (coefficient of variation of daily activity).
package indicator

import (
	"math"

	"github.com/montanaflynn/stats"

	"regpulse/analytics/clean"
	"regpulse/domain/core"
	"regpulse/domain/policy"
	"regpulse/domain/report"
	"regpulse/domain/table"
)

// saturationCap bounds the index even when observed activity implausibly
// exceeds population (duplicate counting, re-enrollment).
const saturationCap = 120

// Saturation computes the saturation index for a state: cumulative
// activity as a percentage of estimated population, capped.
//
// Band direction is deliberate policy: LOW saturation is critical (the
// program has not reached the population), high saturation is healthy.
func Saturation(total float64, state string, cfg policy.Config) report.SaturationResult {
	popMillions := cfg.PopulationMillions(state)
	persons := popMillions * 1_000_000

	index := math.Min(total/persons*100, saturationCap)

	var status string
	switch {
	case index < cfg.Thresholds.SaturationCritical:
		status = report.StatusCritical
	case index < cfg.Thresholds.SaturationWarning:
		status = report.StatusWarning
	default:
		status = report.StatusHealthy
	}

	return report.SaturationResult{
		IndicatorValue: report.IndicatorValue{
			Value:  round1(index),
			Status: status,
		},
		PopulationMillions: popMillions,
	}
}

// Volatility computes the coefficient of variation of a daily totals
// series, using the population (not sample) standard deviation. Fewer
// than 2 observations or a zero mean short-circuit to safe defaults
// instead of dividing by zero.
func Volatility(daily []float64, cfg policy.Config) report.IndicatorValue {
	if len(daily) < 2 {
		return report.IndicatorValue{Value: 0, Status: report.StatusInsufficientData}
	}

	mean, err := stats.Mean(daily)
	if err != nil || mean == 0 {
		return report.IndicatorValue{Value: 0, Status: report.StatusNoActivity}
	}

	std, err := stats.StandardDeviationPopulation(daily)
	if err != nil {
		return report.IndicatorValue{Value: 0, Status: report.StatusInsufficientData}
	}

	cv := (std / mean) * 100

	var status string
	switch {
	case cv < cfg.Thresholds.VolatilityStable:
		status = report.StatusStable
	case cv < cfg.Thresholds.VolatilityModerate:
		status = report.StatusModerate
	case cv < cfg.Thresholds.VolatilityHigh:
		status = report.StatusHigh
	default:
		status = report.StatusCritical
	}

	return report.IndicatorValue{Value: round1(cv), Status: status}
}

// ForState computes the full indicator bundle for one state: rows are
// filtered on the normalized state name, every numeric column is summed
// for total activity, and the daily series of the measure column feeds
// volatility.
//
// When the table has no state column the whole table is aggregated
// instead and WholeTableFallback is set — a loud marker, since for a
// multi-state table that silently overcounts one state's indicator.
// A state with no matching rows signals core.ErrNoStateData and must be
// excluded from aggregate reports.
func ForState(t *table.Table, state string, cfg policy.Config) (report.StateIndicators, error) {
	stateCol, hasState := t.StateColumn()

	sub := &table.Table{Source: t.Source, Columns: t.Columns}
	if hasState {
		for _, row := range t.Rows {
			if clean.NormalizeText(row[stateCol]) == state {
				sub.Rows = append(sub.Rows, row)
			}
		}
	} else {
		sub.Rows = t.Rows
	}

	if len(sub.Rows) == 0 {
		return report.StateIndicators{}, core.NewNoStateDataError(state)
	}

	// Column typing comes from the parent table so a sparse state slice
	// cannot reclassify columns.
	numericCols := t.NumericColumns()
	total := 0.0
	for _, row := range sub.Rows {
		for _, col := range numericCols {
			if v, ok := table.ParseNumeric(row[col]); ok {
				total += v
			}
		}
	}

	volatility := report.IndicatorValue{Value: 0, Status: report.StatusNoDateData}
	if _, ok := t.DateColumn(); ok {
		if measure, ok := t.MeasureColumn(); ok {
			points, err := clean.DailyTotals(sub, measure)
			if err == nil {
				volatility = Volatility(clean.Totals(points), cfg)
			}
		}
	}

	return report.StateIndicators{
		State:              state,
		TotalActivity:      total,
		Saturation:         Saturation(total, state, cfg),
		Volatility:         volatility,
		WholeTableFallback: !hasState,
	}, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
