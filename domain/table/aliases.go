package table

// SourceFileColumn is the bookkeeping column the loader appends to every
// row, recording which file contributed it.
const SourceFileColumn = "source_file"

// Logical source names for the three input tables.
const (
	SourceEnrollment  = "enrollment"
	SourceDemographic = "demographic"
	SourceBiometric   = "biometric"
)

// Sources lists the logical sources in report order.
var Sources = []string{SourceEnrollment, SourceDemographic, SourceBiometric}

// Source files disagree on column spellings for the same logical field.
// Each logical field carries a recognized alias list matched in priority
// order; the first alias present wins and all others are ignored.
var (
	// DateAliases are the recognized spellings of the event-date column.
	DateAliases = []string{"date", "Date"}

	// StateAliases are the recognized spellings of the state column.
	StateAliases = []string{"state", "State"}

	// DistrictAliases are the recognized spellings of the district column.
	DistrictAliases = []string{"district", "District"}

	// MeasureAliases are the age-band count columns in priority order.
	MeasureAliases = []string{
		"age_0_5", "age_5_17", "age_18_greater",
		"0-5 Years", "5-17 Years", "18+ Years",
	}
)

// resolveAlias returns the first alias declared on the table.
func (t *Table) resolveAlias(aliases []string) (string, bool) {
	for _, a := range aliases {
		if t.HasColumn(a) {
			return a, true
		}
	}
	return "", false
}

// DateColumn returns the resolved date column name, if any
func (t *Table) DateColumn() (string, bool) {
	return t.resolveAlias(DateAliases)
}

// StateColumn returns the resolved state column name, if any
func (t *Table) StateColumn() (string, bool) {
	return t.resolveAlias(StateAliases)
}

// DistrictColumn returns the resolved district column name, if any
func (t *Table) DistrictColumn() (string, bool) {
	return t.resolveAlias(DistrictAliases)
}

// AgeBandColumns returns the age-band columns present on the table, in
// alias priority order.
func (t *Table) AgeBandColumns() []string {
	var out []string
	for _, a := range MeasureAliases {
		if t.HasColumn(a) {
			out = append(out, a)
		}
	}
	return out
}
