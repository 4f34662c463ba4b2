package indicator

import (
	"errors"
	"testing"

	"regpulse/domain/core"
	"regpulse/domain/policy"
	"regpulse/domain/report"
	"regpulse/domain/table"
)

func TestSaturation_KnownState(t *testing.T) {
	cfg := policy.DefaultConfig()

	// Kerala: 36M population, 10M cumulative activity -> 27.8%.
	result := Saturation(10_000_000, "Kerala", cfg)
	if result.PopulationMillions != 36 {
		t.Errorf("PopulationMillions = %f, want 36", result.PopulationMillions)
	}
	if result.Value != 27.8 {
		t.Errorf("Saturation = %f, want 27.8", result.Value)
	}
	if result.Status != report.StatusCritical {
		t.Errorf("Status = %q, want critical (low saturation means unreached population)", result.Status)
	}
}

func TestSaturation_Bands(t *testing.T) {
	cfg := policy.DefaultConfig()
	pop := cfg.PopulationMillions("Punjab") * 1_000_000

	cases := []struct {
		fraction float64
		want     string
	}{
		{0.10, report.StatusCritical},
		{0.50, report.StatusWarning},
		{0.80, report.StatusHealthy},
	}
	for _, c := range cases {
		result := Saturation(pop*c.fraction, "Punjab", cfg)
		if result.Status != c.want {
			t.Errorf("Saturation at %.0f%% = %q, want %q", c.fraction*100, result.Status, c.want)
		}
	}
}

func TestSaturation_CappedAt120(t *testing.T) {
	cfg := policy.DefaultConfig()
	pop := cfg.PopulationMillions("Goa") * 1_000_000

	result := Saturation(pop*5, "Goa", cfg)
	if result.Value != 120 {
		t.Errorf("Saturation = %f, want capped at 120", result.Value)
	}
	if result.Status != report.StatusHealthy {
		t.Errorf("Status = %q, want healthy", result.Status)
	}
}

func TestSaturation_UnknownStateUsesDefaultPopulation(t *testing.T) {
	cfg := policy.DefaultConfig()
	result := Saturation(1_000_000, "Atlantis", cfg)
	if result.PopulationMillions != cfg.DefaultPopulationMillions {
		t.Errorf("PopulationMillions = %f, want default %f",
			result.PopulationMillions, cfg.DefaultPopulationMillions)
	}
}

func TestVolatility_ConstantSeriesIsStable(t *testing.T) {
	cfg := policy.DefaultConfig()
	result := Volatility([]float64{100, 100, 100, 100}, cfg)
	if result.Value != 0 {
		t.Errorf("CV = %f, want 0", result.Value)
	}
	if result.Status != report.StatusStable {
		t.Errorf("Status = %q, want stable", result.Status)
	}
}

func TestVolatility_Bands(t *testing.T) {
	cfg := policy.DefaultConfig()

	// Mean 100, population std 75 -> CV 75, moderate band.
	result := Volatility([]float64{25, 175}, cfg)
	if result.Value != 75 {
		t.Errorf("CV = %f, want 75", result.Value)
	}
	if result.Status != report.StatusModerate {
		t.Errorf("Status = %q, want moderate", result.Status)
	}

	// Mean 100, population std 120 -> high band.
	result = Volatility([]float64{-20, 220}, cfg)
	if result.Status != report.StatusHigh {
		t.Errorf("Status = %q, want high", result.Status)
	}

	// Mean 100, population std 160 -> critical band.
	result = Volatility([]float64{-60, 260}, cfg)
	if result.Status != report.StatusCritical {
		t.Errorf("Status = %q, want critical", result.Status)
	}
}

func TestVolatility_ShortCircuits(t *testing.T) {
	cfg := policy.DefaultConfig()

	result := Volatility([]float64{42}, cfg)
	if result.Status != report.StatusInsufficientData {
		t.Errorf("Single observation status = %q, want insufficient_data", result.Status)
	}

	result = Volatility([]float64{50, -50}, cfg)
	if result.Status != report.StatusNoActivity {
		t.Errorf("Zero-mean status = %q, want no_activity", result.Status)
	}
}

func indicatorTable() *table.Table {
	t := table.New("enrollment", []string{"date", "state", "age_0_5", "age_5_17"})
	rows := []table.Row{
		{"date": "1/1/2025", "state": "Kerala", "age_0_5": "10", "age_5_17": "20"},
		{"date": "2/1/2025", "state": "kerala", "age_0_5": "12", "age_5_17": "18"},
		{"date": "1/1/2025", "state": "Punjab", "age_0_5": "100", "age_5_17": "200"},
	}
	for _, r := range rows {
		t.Append(r)
	}
	return t
}

func TestForState_FiltersOnNormalizedState(t *testing.T) {
	cfg := policy.DefaultConfig()

	result, err := ForState(indicatorTable(), "Kerala", cfg)
	if err != nil {
		t.Fatalf("ForState failed: %v", err)
	}
	if result.State != "Kerala" {
		t.Errorf("State = %q", result.State)
	}
	// Both Kerala spellings, all numeric columns: 10+20+12+18.
	if result.TotalActivity != 60 {
		t.Errorf("TotalActivity = %f, want 60", result.TotalActivity)
	}
	if result.WholeTableFallback {
		t.Error("WholeTableFallback should be false when a state column exists")
	}
	if result.Volatility.Status == report.StatusNoDateData {
		t.Error("Volatility should be computed when a date column exists")
	}
}

func TestForState_WholeTableFallbackIsLoud(t *testing.T) {
	cfg := policy.DefaultConfig()

	tbl := table.New("enrollment", []string{"date", "age_0_5"})
	tbl.Append(table.Row{"date": "1/1/2025", "age_0_5": "10"})
	tbl.Append(table.Row{"date": "2/1/2025", "age_0_5": "20"})

	result, err := ForState(tbl, "Kerala", cfg)
	if err != nil {
		t.Fatalf("ForState failed: %v", err)
	}
	if !result.WholeTableFallback {
		t.Error("WholeTableFallback must be set when no state column exists")
	}
	if result.TotalActivity != 30 {
		t.Errorf("TotalActivity = %f, want 30", result.TotalActivity)
	}
}

func TestForState_NoMatchingRowsSignals(t *testing.T) {
	cfg := policy.DefaultConfig()

	_, err := ForState(indicatorTable(), "Goa", cfg)
	if !errors.Is(err, core.ErrNoStateData) {
		t.Fatalf("Expected ErrNoStateData, got %v", err)
	}
}

func TestForState_NoDateColumnReportsNoDateData(t *testing.T) {
	cfg := policy.DefaultConfig()

	tbl := table.New("enrollment", []string{"state", "age_0_5"})
	tbl.Append(table.Row{"state": "Kerala", "age_0_5": "10"})

	result, err := ForState(tbl, "Kerala", cfg)
	if err != nil {
		t.Fatalf("ForState failed: %v", err)
	}
	if result.Volatility.Status != report.StatusNoDateData {
		t.Errorf("Volatility status = %q, want no_date_data", result.Volatility.Status)
	}
}

func TestSaturation_MonotoneInActivity(t *testing.T) {
	cfg := policy.DefaultConfig()
	prev := -1.0
	for _, total := range []float64{0, 1e6, 5e6, 20e6, 50e6} {
		v := Saturation(total, "Kerala", cfg).Value
		if v < prev {
			t.Fatalf("Saturation decreased: %f after %f", v, prev)
		}
		if v < 0 || v > 120 {
			t.Fatalf("Saturation out of bounds: %f", v)
		}
		prev = v
	}
}
