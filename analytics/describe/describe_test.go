package describe

import (
	"errors"
	"math"
	"testing"

	"regpulse/domain/core"
	"regpulse/domain/table"
)

func numericTable(column string, values []string) *table.Table {
	t := table.New("enrollment", []string{column})
	for _, v := range values {
		t.Append(table.Row{column: v})
	}
	return t
}

func TestSummarize_KnownValues(t *testing.T) {
	tbl := numericTable("age_0_5", []string{"10", "20", "30", "40"})

	s, err := Summarize(tbl, "age_0_5")
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if s.Count != 4 {
		t.Errorf("Count = %d, want 4", s.Count)
	}
	if s.Mean != 25 {
		t.Errorf("Mean = %f, want 25", s.Mean)
	}
	if s.Min != 10 || s.Max != 40 {
		t.Errorf("Min/Max = %f/%f, want 10/40", s.Min, s.Max)
	}
	if s.Median != 25 {
		t.Errorf("Median = %f, want 25", s.Median)
	}
	// Sample standard deviation of {10,20,30,40}
	wantStd := math.Sqrt(500.0 / 3.0)
	if math.Abs(s.Std-wantStd) > 1e-9 {
		t.Errorf("Std = %f, want %f", s.Std, wantStd)
	}
}

func TestSummarize_SkipsNonNumericValues(t *testing.T) {
	tbl := numericTable("age_0_5", []string{"10", "garbage", "30"})

	s, err := Summarize(tbl, "age_0_5")
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if s.Count != 2 {
		t.Errorf("Count = %d, want 2 (non-numeric dropped)", s.Count)
	}
	if s.Mean != 20 {
		t.Errorf("Mean = %f, want 20", s.Mean)
	}
}

func TestSummarize_SingleObservation(t *testing.T) {
	tbl := numericTable("age_0_5", []string{"42"})

	s, err := Summarize(tbl, "age_0_5")
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if s.Std != 0 {
		t.Errorf("Std for single value = %f, want 0", s.Std)
	}
	if s.Q25 != 42 || s.Q75 != 42 {
		t.Errorf("Quartiles for single value = %f/%f, want 42/42", s.Q25, s.Q75)
	}
	if s.Skewness != 0 || s.Kurtosis != 0 {
		t.Errorf("Moments for single value should be 0, got %f/%f", s.Skewness, s.Kurtosis)
	}
}

func TestSummarize_SignalsMissingColumn(t *testing.T) {
	tbl := numericTable("age_0_5", []string{"1"})
	_, err := Summarize(tbl, "age_99")
	if !errors.Is(err, core.ErrColumnNotFound) {
		t.Fatalf("Expected ErrColumnNotFound, got %v", err)
	}
}

func TestSummarize_SymmetricDataHasZeroSkew(t *testing.T) {
	tbl := numericTable("age_0_5", []string{"1", "2", "3", "4", "5"})

	s, err := Summarize(tbl, "age_0_5")
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if math.Abs(s.Skewness) > 1e-9 {
		t.Errorf("Skewness of symmetric data = %f, want 0", s.Skewness)
	}
}

func TestSummarize_RightSkewIsPositive(t *testing.T) {
	tbl := numericTable("age_0_5", []string{"1", "1", "1", "2", "10"})

	s, err := Summarize(tbl, "age_0_5")
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if s.Skewness <= 0 {
		t.Errorf("Skewness of right-tailed data = %f, want positive", s.Skewness)
	}
}

func TestAgeGroupDistribution(t *testing.T) {
	tbl := table.New("enrollment", []string{"age_0_5", "age_5_17", "state"})
	tbl.Append(table.Row{"age_0_5": "10", "age_5_17": "20", "state": "Kerala"})
	tbl.Append(table.Row{"age_0_5": "12", "age_5_17": "24", "state": "Kerala"})

	dist := AgeGroupDistribution(tbl)
	if dist.TotalRecords != 2 {
		t.Errorf("TotalRecords = %d, want 2", dist.TotalRecords)
	}
	if len(dist.AgeGroups) != 2 {
		t.Fatalf("Expected 2 age groups, got %d", len(dist.AgeGroups))
	}
	if dist.AgeGroups["age_0_5"].Mean != 11 {
		t.Errorf("age_0_5 mean = %f, want 11", dist.AgeGroups["age_0_5"].Mean)
	}
	if _, ok := dist.AgeGroups["age_18_greater"]; ok {
		t.Error("Absent age band should be omitted, not zero-filled")
	}
}
