package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"regpulse/domain/policy"
	"regpulse/domain/table"
)

// GeneratorConfig configures the synthetic registration data generator
type GeneratorConfig struct {
	States        []string  `json:"states"`
	DistrictCount int       `json:"district_count"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	DailyBase     float64   `json:"daily_base"`
	Seed          int64     `json:"seed"`
}

// DefaultGeneratorConfig returns sensible defaults for registration data generation
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		States:        policy.DefaultConfig().States(),
		DistrictCount: 3,
		StartDate:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		DailyBase:     120,
		Seed:          42,
	}
}

// Generator produces synthetic registration tables with realistic shape:
// per-state volume scaled by population, weekly seasonality, and a mild
// upward drift so trend fitting has something to find.
type Generator struct {
	config GeneratorConfig
	rng    *rand.Rand
}

// NewGenerator creates a seeded generator
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// GenerateAll generates one table per data source, keyed by source name.
func (g *Generator) GenerateAll() map[string]*table.Table {
	tables := make(map[string]*table.Table, len(table.Sources))
	for _, source := range table.Sources {
		tables[source] = g.GenerateSource(source)
	}
	return tables
}

// GenerateSource generates a single source table covering the configured window.
func (g *Generator) GenerateSource(source string) *table.Table {
	t := table.New(source, nil)
	pop := policy.DefaultConfig()

	day := 0
	for d := g.config.StartDate; !d.After(g.config.EndDate); d = d.AddDate(0, 0, 1) {
		for _, state := range g.config.States {
			scale := pop.PopulationMillions(state) / 50.0
			for i := 0; i < g.config.DistrictCount; i++ {
				young, mid, adult := g.dailyCounts(day, scale, source)
				row := table.Row{
					"date":           d.Format("2/1/2006"),
					"state":          state,
					"district":       fmt.Sprintf("%s District %d", state, i+1),
					"age_0_5":        formatCount(young),
					"age_5_17":       formatCount(mid),
					"age_18_greater": formatCount(adult),
				}
				t.Append(row)
			}
		}
		day++
	}
	return t
}

// dailyCounts models one district-day of registrations for the three age bands.
func (g *Generator) dailyCounts(day int, scale float64, source string) (int, int, int) {
	base := g.config.DailyBase * scale

	// Gentle upward drift plus a weekly cycle. Biometric updates run lighter
	// than fresh enrollment, demographic updates lighter still.
	drift := 1.0 + 0.004*float64(day)
	weekly := 1.0 + 0.2*math.Sin(2*math.Pi*float64(day)/7.0)
	sourceWeight := 1.0
	switch source {
	case table.SourceBiometric:
		sourceWeight = 0.6
	case table.SourceDemographic:
		sourceWeight = 0.4
	}

	total := base * drift * weekly * sourceWeight
	noise := 1.0 + g.rng.NormFloat64()*0.15
	if noise < 0.2 {
		noise = 0.2
	}
	total *= noise

	young := int(math.Round(total * 0.25))
	mid := int(math.Round(total * 0.35))
	adult := int(math.Round(total * 0.40))
	return young, mid, adult
}

func formatCount(n int) string {
	if n < 0 {
		n = 0
	}
	return fmt.Sprintf("%d", n)
}

// SmallTable builds a deterministic fixture with a handful of rows across
// two states; handy for unit tests that need known values rather than volume.
func SmallTable(source string) *table.Table {
	t := table.New(source, []string{"date", "state", "district", "age_0_5", "age_5_17", "age_18_greater"})
	rows := []table.Row{
		{"date": "1/1/2025", "state": "Kerala", "district": "Ernakulam", "age_0_5": "10", "age_5_17": "20", "age_18_greater": "30"},
		{"date": "2/1/2025", "state": "Kerala", "district": "Ernakulam", "age_0_5": "12", "age_5_17": "22", "age_18_greater": "28"},
		{"date": "1/1/2025", "state": "Punjab", "district": "Amritsar", "age_0_5": "8", "age_5_17": "18", "age_18_greater": "24"},
		{"date": "2/1/2025", "state": "Punjab", "district": "Amritsar", "age_0_5": "9", "age_5_17": "17", "age_18_greater": "26"},
	}
	for _, row := range rows {
		t.Append(row)
	}
	return t
}

// SortedStates returns a sorted copy, keeping generated output deterministic.
func SortedStates(states []string) []string {
	out := make([]string, len(states))
	copy(out, states)
	sort.Strings(out)
	return out
}
