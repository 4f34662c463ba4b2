// Package clean converts raw table columns into analyzable series:
// numeric coercion with drop semantics, categorical text normalization
// and day-first date parsing. Values that fail conversion are excluded
// entirely, never defaulted to zero.
package clean

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"regpulse/domain/core"
	"regpulse/domain/table"
)

// dateLayouts are tried in order. Day-first layouts come before ISO so
// that ambiguous values like 04/05/2024 resolve to 4 May.
var dateLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2006-01-02",
	"2 Jan 2006",
	"2-Jan-2006",
}

// NumericSeries coerces a column to a numeric series, dropping every
// value that fails conversion. Signals core.ErrColumnNotFound when the
// column is absent and core.ErrNoNumericData when nothing survives
// cleaning; both are recoverable and must not abort the caller's run.
func NumericSeries(t *table.Table, column string) ([]float64, error) {
	if !t.HasColumn(column) {
		return nil, core.NewColumnNotFoundError(column)
	}
	series := make([]float64, 0, t.Len())
	for _, row := range t.Rows {
		if v, ok := table.ParseNumeric(row[column]); ok {
			series = append(series, v)
		}
	}
	if len(series) == 0 {
		return nil, core.NewNoNumericDataError(column)
	}
	return series, nil
}

// PairedSeries coerces two columns and keeps only the row positions where
// both values are present. The join is on position, not on any key: a row
// missing either value is excluded from both series.
func PairedSeries(t *table.Table, col1, col2 string) (x, y []float64, err error) {
	if !t.HasColumn(col1) {
		return nil, nil, core.NewColumnNotFoundError(col1)
	}
	if !t.HasColumn(col2) {
		return nil, nil, core.NewColumnNotFoundError(col2)
	}
	for _, row := range t.Rows {
		a, okA := table.ParseNumeric(row[col1])
		b, okB := table.ParseNumeric(row[col2])
		if okA && okB {
			x = append(x, a)
			y = append(y, b)
		}
	}
	return x, y, nil
}

// NormalizeText canonicalizes a categorical value (state, district) so
// grouping keys stay consistent across sources with inconsistent casing
// and spacing: surrounding whitespace stripped, each word title-cased.
func NormalizeText(s string) string {
	words := strings.Fields(strings.TrimSpace(s))
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

func titleWord(w string) string {
	runes := []rune(strings.ToLower(w))
	if len(runes) > 0 {
		runes[0] = unicode.ToUpper(runes[0])
	}
	return string(runes)
}

// ParseDate parses an event date with day-first convention. Callers drop
// rows whose dates fail to parse.
func ParseDate(raw string) (time.Time, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, v); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// DailyPoint is one date-grouped sum of a measure column.
type DailyPoint struct {
	Date  time.Time
	Total float64
}

// DailyTotals groups a numeric measure by parsed date and sums it,
// returning the series sorted by date. Rows with unparsable dates or
// unparsable measure values are dropped.
func DailyTotals(t *table.Table, measure string) ([]DailyPoint, error) {
	dateCol, ok := t.DateColumn()
	if !ok {
		return nil, core.ErrNoDateColumn
	}
	if !t.HasColumn(measure) {
		return nil, core.NewColumnNotFoundError(measure)
	}

	sums := make(map[time.Time]float64)
	for _, row := range t.Rows {
		d, ok := ParseDate(row[dateCol])
		if !ok {
			continue
		}
		v, ok := table.ParseNumeric(row[measure])
		if !ok {
			continue
		}
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		sums[day] += v
	}

	points := make([]DailyPoint, 0, len(sums))
	for d, total := range sums {
		points = append(points, DailyPoint{Date: d, Total: total})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}

// Totals extracts just the values of a daily series, in date order.
func Totals(points []DailyPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Total
	}
	return out
}
