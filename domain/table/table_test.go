package table

import (
	"testing"
)

func TestParseNumeric(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{" 3.14 ", 3.14, true},
		{"1,500,000", 1500000, true},
		{"-7.5", -7.5, true},
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
		{"12abc", 0, false},
		{"Inf", 0, false},
		{"NaN", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseNumeric(c.raw)
		if ok != c.ok || got != c.want {
			t.Errorf("ParseNumeric(%q) = (%f, %v), want (%f, %v)", c.raw, got, ok, c.want, c.ok)
		}
	}
}

func TestAppend_DeclaresUnseenColumns(t *testing.T) {
	tbl := New("enrollment", []string{"date"})
	tbl.Append(Row{"date": "1/1/2025", "state": "Kerala", "count": "5"})

	if len(tbl.Columns) != 3 {
		t.Fatalf("Expected 3 columns, got %v", tbl.Columns)
	}
	if tbl.Columns[0] != "date" {
		t.Error("Declared columns keep their original position")
	}
	// Unseen columns appended in sorted order.
	if tbl.Columns[1] != "count" || tbl.Columns[2] != "state" {
		t.Errorf("Unseen columns = %v, want [count state]", tbl.Columns[1:])
	}
}

func TestNumericColumns_Threshold(t *testing.T) {
	tbl := New("enrollment", nil)
	tbl.Append(Row{"good": "1", "mixed": "1", "text": "a", "source_file": "f.csv"})
	tbl.Append(Row{"good": "2", "mixed": "2", "text": "b", "source_file": "f.csv"})
	tbl.Append(Row{"good": "3", "mixed": "3", "text": "c", "source_file": "f.csv"})
	tbl.Append(Row{"good": "4", "mixed": "oops", "text": "d", "source_file": "f.csv"})
	tbl.Append(Row{"good": "5", "mixed": "nope", "text": "e", "source_file": "f.csv"})

	numeric := tbl.NumericColumns()
	if len(numeric) != 1 || numeric[0] != "good" {
		t.Errorf("NumericColumns = %v, want [good]", numeric)
	}
}

func TestNumericColumns_IgnoresBlanksInRatio(t *testing.T) {
	tbl := New("enrollment", nil)
	tbl.Append(Row{"sparse": "10"})
	tbl.Append(Row{"sparse": ""})
	tbl.Append(Row{"sparse": ""})
	tbl.Append(Row{"sparse": "20"})

	numeric := tbl.NumericColumns()
	if len(numeric) != 1 || numeric[0] != "sparse" {
		t.Errorf("NumericColumns = %v, want [sparse] (blanks excluded from ratio)", numeric)
	}
}

func TestMeasureColumn_AliasPriority(t *testing.T) {
	tbl := New("enrollment", nil)
	tbl.Append(Row{"total": "100", "age_5_17": "20", "age_0_5": "10"})

	measure, ok := tbl.MeasureColumn()
	if !ok {
		t.Fatal("Expected a measure column")
	}
	if measure != "age_0_5" {
		t.Errorf("MeasureColumn = %q, want age_0_5 (alias priority beats declaration order)", measure)
	}
}

func TestMeasureColumn_FallsBackToFirstNumeric(t *testing.T) {
	tbl := New("enrollment", []string{"name", "total"})
	tbl.Append(Row{"name": "x", "total": "100"})
	tbl.Append(Row{"name": "y", "total": "200"})

	measure, ok := tbl.MeasureColumn()
	if !ok {
		t.Fatal("Expected a measure column")
	}
	if measure != "total" {
		t.Errorf("MeasureColumn = %q, want total", measure)
	}
}

func TestMeasureColumn_NoneAvailable(t *testing.T) {
	tbl := New("enrollment", []string{"name"})
	tbl.Append(Row{"name": "x"})

	if _, ok := tbl.MeasureColumn(); ok {
		t.Error("Expected no measure column for an all-text table")
	}
}

func TestColumnAliases(t *testing.T) {
	tbl := New("enrollment", []string{"Date", "State", "District"})
	tbl.Append(Row{"Date": "1/1/2025", "State": "Kerala", "District": "Ernakulam"})

	if col, ok := tbl.DateColumn(); !ok || col != "Date" {
		t.Errorf("DateColumn = (%q, %v), want Date", col, ok)
	}
	if col, ok := tbl.StateColumn(); !ok || col != "State" {
		t.Errorf("StateColumn = (%q, %v), want State", col, ok)
	}
	if col, ok := tbl.DistrictColumn(); !ok || col != "District" {
		t.Errorf("DistrictColumn = (%q, %v), want District", col, ok)
	}
}

func TestNilTableIsSafe(t *testing.T) {
	var tbl *Table
	if tbl.Len() != 0 {
		t.Error("Nil table Len should be 0")
	}
	if tbl.HasColumn("x") {
		t.Error("Nil table has no columns")
	}
	if cols := tbl.NumericColumns(); cols != nil {
		t.Errorf("Nil table NumericColumns = %v, want nil", cols)
	}
}
