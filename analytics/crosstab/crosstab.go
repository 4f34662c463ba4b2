// Package crosstab cross-tabulates a numeric measure by state and month,
// identifying peak and trough periods.
package crosstab

import (
	"sort"

	"regpulse/analytics/clean"
	"regpulse/domain/core"
	"regpulse/domain/report"
	"regpulse/domain/table"
)

// StateMonthVolume groups the table's representative measure by
// (state, month) and reports the monthly pattern plus the global peak and
// trough months. Tables missing a date or state column signal and
// contribute an empty result; rows with unparsable dates are dropped.
// The grouped rows are capped at rowCap to bound output size.
func StateMonthVolume(t *table.Table, rowCap int) (report.CrosstabResult, error) {
	dateCol, ok := t.DateColumn()
	if !ok {
		return report.CrosstabResult{}, core.ErrNoDateColumn
	}
	stateCol, ok := t.StateColumn()
	if !ok {
		return report.CrosstabResult{}, core.ErrNoStateColumn
	}
	measure, ok := t.MeasureColumn()
	if !ok {
		return report.CrosstabResult{}, core.NewNoNumericDataError(t.Source)
	}

	type groupKey struct {
		state string
		month int
	}
	groupSums := make(map[groupKey]float64)
	monthSums := make(map[int]float64)
	valid := 0

	for _, row := range t.Rows {
		d, ok := clean.ParseDate(row[dateCol])
		if !ok {
			continue
		}
		valid++
		v, ok := table.ParseNumeric(row[measure])
		if !ok {
			continue
		}
		month := int(d.Month())
		state := clean.NormalizeText(row[stateCol])
		groupSums[groupKey{state: state, month: month}] += v
		monthSums[month] += v
	}

	if valid == 0 {
		return report.CrosstabResult{}, core.ErrInsufficientData
	}

	pattern := make([]report.StateMonthVolume, 0, len(groupSums))
	for k, total := range groupSums {
		pattern = append(pattern, report.StateMonthVolume{State: k.state, Month: k.month, Total: total})
	}
	sort.Slice(pattern, func(i, j int) bool {
		if pattern[i].State != pattern[j].State {
			return pattern[i].State < pattern[j].State
		}
		return pattern[i].Month < pattern[j].Month
	})
	if rowCap > 0 && len(pattern) > rowCap {
		pattern = pattern[:rowCap]
	}

	peak, low := extremeMonths(monthSums)

	return report.CrosstabResult{
		Measure:             measure,
		MonthlyStatePattern: pattern,
		PeakMonth:           peak,
		LowMonth:            low,
	}, nil
}

// extremeMonths finds the months with the maximum and minimum global
// sums. Ties break in favor of the earliest month in natural order.
func extremeMonths(monthSums map[int]float64) (peak, low int) {
	for month := 1; month <= 12; month++ {
		total, ok := monthSums[month]
		if !ok {
			continue
		}
		if peak == 0 || total > monthSums[peak] {
			peak = month
		}
		if low == 0 || total < monthSums[low] {
			low = month
		}
	}
	return peak, low
}
