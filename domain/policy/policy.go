package policy

// Config carries every policy-defined parameter the analytics engine
// consumes: rolling-window sizes, indicator thresholds and the static
// state population table. It is passed into each computation as a value,
// so callers can override any parameter per run without touching shared
// state.
type Config struct {
	Windows    Windows    `json:"windows"`
	Thresholds Thresholds `json:"thresholds"`

	// Population maps state name to population in millions.
	Population map[string]float64 `json:"population"`

	// DefaultPopulationMillions applies when a state is absent from the table.
	DefaultPopulationMillions float64 `json:"default_population_millions"`

	// ForecastHorizon is the number of future positions projected.
	ForecastHorizon int `json:"forecast_horizon"`

	// ForecastMinObservations is the minimum daily series length for a fit.
	ForecastMinObservations int `json:"forecast_min_observations"`

	// CrosstabRowCap bounds the grouped (state, month) rows per table.
	CrosstabRowCap int `json:"crosstab_row_cap"`

	// TopCorrelations is the N for matrix-mode correlation ranking.
	TopCorrelations int `json:"top_correlations"`
}

// Windows holds rolling-window sizes in days. The computations do not
// consume them yet; they are reserved policy parameters carried through
// the report for downstream display.
type Windows struct {
	Short  int `json:"short"`
	Medium int `json:"medium"`
	Long   int `json:"long"`
}

// Thresholds holds the indicator status band boundaries.
type Thresholds struct {
	SaturationCritical  float64 `json:"saturation_critical"`
	SaturationWarning   float64 `json:"saturation_warning"`
	VolatilityStable    float64 `json:"volatility_stable"`
	VolatilityModerate  float64 `json:"volatility_moderate"`
	VolatilityHigh      float64 `json:"volatility_high"`
	VelocityDropWarning float64 `json:"velocity_drop_warning"`
}

// DefaultConfig returns the standard monitoring profile.
func DefaultConfig() Config {
	return Config{
		Windows: Windows{
			Short:  7,
			Medium: 30,
			Long:   90,
		},
		Thresholds: Thresholds{
			SaturationCritical:  40,
			SaturationWarning:   60,
			VolatilityStable:    50,
			VolatilityModerate:  100,
			VolatilityHigh:      150,
			VelocityDropWarning: 30,
		},
		Population: map[string]float64{
			"Uttar Pradesh":  240.0,
			"Maharashtra":    130.0,
			"Bihar":          128.0,
			"West Bengal":    100.0,
			"Madhya Pradesh": 87.0,
			"Tamil Nadu":     80.0,
			"Rajasthan":      82.0,
			"Karnataka":      70.0,
			"Gujarat":        72.0,
			"Andhra Pradesh": 53.0,
			"Telangana":      40.0,
			"Kerala":         36.0,
			"Jharkhand":      40.0,
			"Odisha":         47.0,
			"Punjab":         31.0,
		},
		DefaultPopulationMillions: 50,
		ForecastHorizon:           30,
		ForecastMinObservations:   10,
		CrosstabRowCap:            50,
		TopCorrelations:           5,
	}
}

// PopulationMillions looks up a state's population in millions, applying
// the default when the state is absent.
func (c Config) PopulationMillions(state string) float64 {
	if p, ok := c.Population[state]; ok {
		return p
	}
	return c.DefaultPopulationMillions
}

// States returns the state names in the population table, in no
// particular order.
func (c Config) States() []string {
	out := make([]string, 0, len(c.Population))
	for s := range c.Population {
		out = append(out, s)
	}
	return out
}
