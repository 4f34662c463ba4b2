// Package correlate computes pairwise and matrix-mode Pearson
// correlations with qualitative strength labels.
package correlate

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"regpulse/analytics/clean"
	"regpulse/domain/core"
	"regpulse/domain/report"
	"regpulse/domain/table"
)

// Pairwise correlates two named columns over the row positions where both
// values are present. Fewer than 2 jointly-valid rows signals
// core.ErrInsufficientData. A coefficient that is not computable (zero
// variance) is reported as value 0 with Defined=false, so callers can
// tell "no correlation" from "not computable".
func Pairwise(t *table.Table, col1, col2 string) (report.PairwiseResult, error) {
	x, y, err := clean.PairedSeries(t, col1, col2)
	if err != nil {
		return report.PairwiseResult{}, err
	}
	if len(x) < 2 {
		return report.PairwiseResult{}, fmt.Errorf("%w: %d jointly valid rows for %s vs %s",
			core.ErrInsufficientData, len(x), col1, col2)
	}

	r := stat.Correlation(x, y, nil)
	result := report.PairwiseResult{
		Column1:    col1,
		Column2:    col2,
		SampleSize: len(x),
	}
	if math.IsNaN(r) {
		result.Correlation = 0
		result.Defined = false
		result.Interpretation = "No correlation calculated"
		return result, nil
	}

	result.Correlation = r
	result.Defined = true
	result.Interpretation = Interpret(r)
	return result, nil
}

// Interpret labels a correlation coefficient with direction and banded
// strength, e.g. "Very Strong negative correlation".
func Interpret(r float64) string {
	direction := "negative"
	if r > 0 {
		direction = "positive"
	}

	absR := math.Abs(r)
	var strength string
	switch {
	case absR < 0.1:
		strength = "Negligible"
	case absR < 0.3:
		strength = "Weak"
	case absR < 0.5:
		strength = "Moderate"
	case absR < 0.7:
		strength = "Strong"
	default:
		strength = "Very Strong"
	}

	return fmt.Sprintf("%s %s correlation", strength, direction)
}

// StateMatrix aggregates (sums) every numeric column per normalized state
// and correlates the aggregates, so the coefficients describe variation
// across states rather than across raw rows. Tables without a state
// column signal core.ErrNoStateColumn.
func StateMatrix(t *table.Table, topN int) (report.MatrixResult, error) {
	stateCol, ok := t.StateColumn()
	if !ok {
		return report.MatrixResult{}, core.ErrNoStateColumn
	}

	numericCols := t.NumericColumns()
	if len(numericCols) == 0 {
		return report.MatrixResult{}, core.NewNoNumericDataError(t.Source)
	}

	// Sum each numeric column per state.
	sums := make(map[string]map[string]float64) // state -> column -> sum
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
	for s := range sums {
		states = append(states, s)
	}
	sort.Strings(states)

	// One aggregated observation per state, per column.
	series := make(map[string][]float64, len(numericCols))
	for _, col := range numericCols {
		vals := make([]float64, len(states))
		for i, s := range states {
			vals[i] = sums[s][col]
		}
		series[col] = vals
	}

	matrix := make(map[string]map[string]report.Correlation, len(numericCols))
	for _, col := range numericCols {
		matrix[col] = make(map[string]report.Correlation, len(numericCols))
	}
	for i, a := range numericCols {
		for j, b := range numericCols {
			if j < i {
				continue
			}
			var entry report.Correlation
			r := stat.Correlation(series[a], series[b], nil)
			if !math.IsNaN(r) {
				entry = report.Correlation{Value: r, Defined: true}
			}
			// Symmetric by construction.
			matrix[a][b] = entry
			matrix[b][a] = entry
		}
	}

	return report.MatrixResult{
		StatesAnalyzed:  len(states),
		Matrix:          matrix,
		TopCorrelations: topPairs(matrix, numericCols, topN),
	}, nil
}

// topPairs ranks the upper triangle of the matrix by absolute
// correlation, excluding undefined entries, and returns the first n.
func topPairs(matrix map[string]map[string]report.Correlation, cols []string, n int) []report.CorrelationPair {
	var pairs []report.CorrelationPair
	for i, a := range cols {
		for j, b := range cols {
			if i >= j {
				continue
			}
			entry := matrix[a][b]
			if !entry.Defined {
				continue
			}
			pairs = append(pairs, report.CorrelationPair{
				Pair:        fmt.Sprintf("%s vs %s", a, b),
				Correlation: entry.Value,
			})
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return math.Abs(pairs[i].Correlation) > math.Abs(pairs[j].Correlation)
	})

	if n > 0 && len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}
