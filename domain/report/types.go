package report

import (
	"time"

	"regpulse/domain/core"
	"regpulse/domain/policy"
)

// Indicator status labels, ordered worst to best where applicable.
const (
	StatusCritical         = "critical"
	StatusWarning          = "warning"
	StatusHealthy          = "healthy"
	StatusStable           = "stable"
	StatusModerate         = "moderate"
	StatusHigh             = "high"
	StatusInsufficientData = "insufficient_data"
	StatusNoActivity       = "no_activity"
	StatusNoDateData       = "no_date_data"
)

// Trend labels for the linear forecast. Flat occurs only when the fitted
// slope is exactly zero.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendFlat       = "flat"
)

// Report is the full output of one analytics run, mirroring the five
// analysis families keyed by source name.
type Report struct {
	RunID       core.RunID                    `json:"run_id"`
	GeneratedAt time.Time                     `json:"generated_at"`
	Summary     Summary                       `json:"summary"`
	Univariate  map[string]SourceDistribution `json:"univariate"`
	Bivariate   map[string]MatrixResult       `json:"bivariate"`
	Trivariate  map[string]CrosstabResult     `json:"trivariate"`
	Indicators  map[string]StateIndicators    `json:"indicators"`
	Forecasts   map[string]ForecastResult     `json:"forecasts"`
	Policy      policy.Config                 `json:"policy"`
}

// Summary counts the records seen per source.
type Summary struct {
	EnrollmentRecords  int `json:"enrollment_records"`
	DemographicRecords int `json:"demographic_records"`
	BiometricRecords   int `json:"biometric_records"`
	TotalRecords       int `json:"total_records"`
}

// ColumnSummary holds the univariate descriptive statistics for one
// cleaned numeric column.
type ColumnSummary struct {
	Column   string  `json:"column"`
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Std      float64 `json:"std"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Q25      float64 `json:"q25"`
	Q75      float64 `json:"q75"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
}

// SourceDistribution summarizes the age-band distributions of one source.
type SourceDistribution struct {
	TotalRecords int                      `json:"total_records"`
	AgeGroups    map[string]ColumnSummary `json:"age_groups"`
}

// Correlation is a single matrix entry. Defined is false when the
// coefficient is not computable (zero variance in either series), which
// callers must distinguish from a true zero correlation.
type Correlation struct {
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
}

// PairwiseResult is the outcome of correlating two named columns.
type PairwiseResult struct {
	Column1        string  `json:"column1"`
	Column2        string  `json:"column2"`
	Correlation    float64 `json:"correlation"`
	Defined        bool    `json:"defined"`
	SampleSize     int     `json:"sample_size"`
	Interpretation string  `json:"interpretation"`
}

// CorrelationPair names one ranked matrix entry.
type CorrelationPair struct {
	Pair        string  `json:"pair"`
	Correlation float64 `json:"correlation"`
}

// MatrixResult is the state-aggregated correlation matrix of one source.
type MatrixResult struct {
	StatesAnalyzed  int                               `json:"states_analyzed"`
	Matrix          map[string]map[string]Correlation `json:"correlation_matrix"`
	TopCorrelations []CorrelationPair                 `json:"top_correlations"`
}

// StateMonthVolume is one grouped (state, month) sum of the measure column.
type StateMonthVolume struct {
	State string  `json:"state"`
	Month int     `json:"month"`
	Total float64 `json:"total"`
}

// CrosstabResult holds the time × state × volume interaction of one source.
type CrosstabResult struct {
	Measure             string             `json:"measure"`
	MonthlyStatePattern []StateMonthVolume `json:"monthly_state_pattern"`
	PeakMonth           int                `json:"peak_month"`
	LowMonth            int                `json:"low_month"`
}

// IndicatorValue is a derived indicator with its status band.
type IndicatorValue struct {
	Value  float64 `json:"value"`
	Status string  `json:"status"`
}

// SaturationResult carries the saturation index together with the
// population figure it was derived from.
type SaturationResult struct {
	IndicatorValue
	PopulationMillions float64 `json:"population_millions"`
}

// StateIndicators bundles all indicators for one state.
//
// WholeTableFallback is set when the source had no state column and the
// whole table was aggregated instead — a loud marker, since that silently
// folds every state's activity into one indicator.
type StateIndicators struct {
	State              string           `json:"state"`
	TotalActivity      float64          `json:"total_activity"`
	Saturation         SaturationResult `json:"saturation_index"`
	Volatility         IndicatorValue   `json:"volatility_index"`
	WholeTableFallback bool             `json:"whole_table_fallback,omitempty"`
}

// IndicatorRecord is the flattened per-state row for tabular export.
type IndicatorRecord struct {
	State              string  `json:"state" db:"state"`
	TotalActivity      float64 `json:"total_activity" db:"total_activity"`
	SaturationValue    float64 `json:"saturation_index" db:"saturation_value"`
	SaturationStatus   string  `json:"saturation_status" db:"saturation_status"`
	VolatilityValue    float64 `json:"volatility_index" db:"volatility_value"`
	VolatilityStatus   string  `json:"volatility_status" db:"volatility_status"`
	PopulationMillions float64 `json:"population_millions" db:"population_millions"`
}

// ForecastResult is a fitted linear trend projected over a fixed horizon.
type ForecastResult struct {
	Slope          float64   `json:"slope"`
	Intercept      float64   `json:"intercept"`
	RSquared       float64   `json:"r_squared"`
	Forecast       []float64 `json:"forecast"`
	Trend          string    `json:"trend"`
	HistoricalDays int       `json:"historical_days"`
	LastDate       string    `json:"last_date,omitempty"`
}

// Record flattens a state's indicators for tabular export.
func (si StateIndicators) Record() IndicatorRecord {
	return IndicatorRecord{
		State:              si.State,
		TotalActivity:      si.TotalActivity,
		SaturationValue:    si.Saturation.Value,
		SaturationStatus:   si.Saturation.Status,
		VolatilityValue:    si.Volatility.Value,
		VolatilityStatus:   si.Volatility.Status,
		PopulationMillions: si.Saturation.PopulationMillions,
	}
}
