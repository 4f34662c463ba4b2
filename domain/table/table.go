package table

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// numericColumnThreshold is the share of non-blank values that must parse
// as numbers before a column is treated as numeric.
const numericColumnThreshold = 0.8

// Row is a single record, mapping column name to raw value as read.
type Row map[string]string

// Table is an ordered collection of rows from one logical source
// (enrollment, demographic, biometric). Columns preserves the declared
// column order of the source files so that column selection stays
// deterministic across runs. Tables are constructed once per run and
// treated as immutable during analysis.
type Table struct {
	Source  string   `json:"source"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// New creates an empty table for the given source with a declared column order.
func New(source string, columns []string) *Table {
	return &Table{
		Source:  source,
		Columns: columns,
		Rows:    make([]Row, 0),
	}
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// IsEmpty reports whether the table has no rows
func (t *Table) IsEmpty() bool {
	return t.Len() == 0
}

// HasColumn reports whether a column is declared
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Append adds a row, declaring any previously unseen columns at the end
// of the column order.
func (t *Table) Append(row Row) {
	var unseen []string
	for k := range row {
		if !t.HasColumn(k) {
			unseen = append(unseen, k)
		}
	}
	// Sorted so late-declared columns land in a stable order.
	sort.Strings(unseen)
	t.Columns = append(t.Columns, unseen...)
	t.Rows = append(t.Rows, row)
}

// Values returns the raw values of a column in row order. Missing cells
// come back as empty strings.
func (t *Table) Values(column string) []string {
	out := make([]string, 0, t.Len())
	for _, row := range t.Rows {
		out = append(out, row[column])
	}
	return out
}

// NumericColumns returns the columns, in declared order, whose non-blank
// values are predominantly numeric. Bookkeeping columns added by the
// loader are never treated as measures.
func (t *Table) NumericColumns() []string {
	if t == nil {
		return nil
	}
	var out []string
	for _, col := range t.Columns {
		if col == SourceFileColumn {
			continue
		}
		total, numeric := 0, 0
		for _, row := range t.Rows {
			v := strings.TrimSpace(row[col])
			if v == "" {
				continue
			}
			total++
			if _, ok := ParseNumeric(v); ok {
				numeric++
			}
		}
		if total > 0 && float64(numeric)/float64(total) >= numericColumnThreshold {
			out = append(out, col)
		}
	}
	return out
}

// MeasureColumn picks the representative numeric measure for grouped
// computations: the highest-priority age-band alias present, falling back
// to the first numeric column in declared order. The choice is
// deterministic for a given table so that grouped results are
// reproducible across runs.
func (t *Table) MeasureColumn() (string, bool) {
	for _, alias := range MeasureAliases {
		if t.HasColumn(alias) {
			return alias, true
		}
	}
	numeric := t.NumericColumns()
	if len(numeric) == 0 {
		return "", false
	}
	return numeric[0], true
}

// ParseNumeric attempts strict numeric conversion of a raw cell value.
// Surrounding whitespace and thousands separators are tolerated;
// anything else fails the conversion and the value is dropped by callers.
func ParseNumeric(raw string) (float64, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return 0, false
	}
	v = strings.ReplaceAll(v, ",", "")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
