// Package forecast fits an ordinary least-squares trend to a daily
// series and projects it over a fixed horizon.
package forecast

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"regpulse/analytics/clean"
	"regpulse/domain/core"
	"regpulse/domain/policy"
	"regpulse/domain/report"
)

// LinearTrend fits y = intercept + slope*x over index positions 0..n-1 of
// a date-ordered daily series and projects cfg.ForecastHorizon future
// positions. Fewer than cfg.ForecastMinObservations observations signal
// core.ErrInsufficientData; a constant series reports R² = 0 rather than
// dividing by zero.
func LinearTrend(points []clean.DailyPoint, cfg policy.Config) (report.ForecastResult, error) {
	n := len(points)
	if n < cfg.ForecastMinObservations {
		return report.ForecastResult{}, fmt.Errorf("%w: %d observations, need %d for forecasting",
			core.ErrInsufficientData, n, cfg.ForecastMinObservations)
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, p := range points {
		xs[i] = float64(i)
		ys[i] = p.Total
	}

	// Cannot occur with n distinct index positions, but guard the
	// degenerate denominator anyway.
	if stat.Variance(xs, nil) == 0 {
		return report.ForecastResult{}, core.ErrCannotCalculateSlope
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)

	projected := make([]float64, cfg.ForecastHorizon)
	for i := range projected {
		x := float64(n + i)
		projected[i] = slope*x + intercept
	}

	r2 := stat.RSquared(xs, ys, nil, intercept, slope)
	if math.IsNaN(r2) || math.IsInf(r2, 0) {
		// Zero total sum of squares (constant series).
		r2 = 0
	}

	trend := report.TrendFlat
	switch {
	case slope > 0:
		trend = report.TrendIncreasing
	case slope < 0:
		trend = report.TrendDecreasing
	}

	return report.ForecastResult{
		Slope:          slope,
		Intercept:      intercept,
		RSquared:       r2,
		Forecast:       projected,
		Trend:          trend,
		HistoricalDays: n,
		LastDate:       points[n-1].Date.Format("2006-01-02"),
	}, nil
}
