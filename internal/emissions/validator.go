package emissions

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// measureColumns are the columns coerced to numbers with a per-column
// warning when cells fail; month and year are coerced silently and surface
// through row pruning instead.
var measureColumns = []string{"scope1_emissions", "scope2_emissions", "revenue"}

// coercedRow is the intermediate row shape between type coercion and row
// pruning. Month and year are still pointers here because a row may carry a
// bad month/year value right up until pruning removes it.
type coercedRow struct {
	facilityID   string
	facilityName string
	month        *float64
	year         *float64
	scope1       *float64
	scope2       *float64
	revenue      *float64
}

// validator accumulates errors and warnings across the pipeline stages.
type validator struct {
	columns  []string
	errors   []string
	warnings []string
}

// ValidateAndClean parses raw CSV text and runs the validation pipeline:
// parse, required-column check, numeric coercion, business rules and row
// pruning. Every stage appends to the returned error/warning lists but only
// a parse failure stops the pipeline, in which case the returned records
// are nil. A non-empty error list with non-nil records means the data was
// accepted with caveats; callers decide what to do with it.
func ValidateAndClean(raw string) ([]Record, []string, []string) {
	v := &validator{errors: []string{}, warnings: []string{}}

	rows, err := v.parse(raw)
	if err != nil {
		v.errors = append(v.errors, fmt.Sprintf("Failed to parse CSV: %v", err))
		return nil, v.errors, v.warnings
	}

	v.checkRequiredColumns()
	coerced := v.coerceTypes(rows)
	v.checkBusinessRules(coerced)
	records := v.prune(coerced)

	return records, v.errors, v.warnings
}

// parse reads the raw text as a comma-separated table with a header row.
// Leading/trailing blank lines and cell whitespace are tolerated; a missing
// header or a structurally malformed body is a parse failure.
func (v *validator) parse(raw string) ([]map[string]string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("no data in input")
	}

	reader := csv.NewReader(strings.NewReader(trimmed))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("could not read header row: %w", err)
	}
	v.columns = make([]string, 0, len(header))
	for _, col := range header {
		v.columns = append(v.columns, strings.TrimSpace(col))
	}

	rows := make([]map[string]string, 0)
	for {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]string, len(v.columns))
		for i, col := range v.columns {
			row[col] = strings.TrimSpace(cells[i])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// checkRequiredColumns appends one error naming every required column the
// header lacks. Later stages treat missing columns as empty cells, so the
// pipeline keeps going either way.
func (v *validator) checkRequiredColumns() {
	present := make(map[string]bool, len(v.columns))
	for _, col := range v.columns {
		present[col] = true
	}

	missing := make([]string, 0)
	for _, col := range RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		v.errors = append(v.errors, fmt.Sprintf("Missing required columns: %s", strings.Join(missing, ", ")))
	}
}

// coerceTypes converts the numeric columns cell by cell. Measure cells that
// fail coercion (including blanks) become missing and produce one aggregate
// warning per column listing the offending row indices; month and year
// failures stay silent here and are handled by pruning. Columns absent from
// the header are skipped, the schema check already reported them.
func (v *validator) coerceTypes(rows []map[string]string) []coercedRow {
	present := make(map[string]bool, len(v.columns))
	for _, col := range v.columns {
		present[col] = true
	}

	badRows := make(map[string][]int)
	coerced := make([]coercedRow, 0, len(rows))
	for i, row := range rows {
		c := coercedRow{
			facilityID:   row["facility_id"],
			facilityName: row["facility_name"],
			month:        parseNumber(row["month"]),
			year:         parseNumber(row["year"]),
			scope1:       parseNumber(row["scope1_emissions"]),
			scope2:       parseNumber(row["scope2_emissions"]),
			revenue:      parseNumber(row["revenue"]),
		}
		for col, val := range map[string]*float64{
			"scope1_emissions": c.scope1,
			"scope2_emissions": c.scope2,
			"revenue":          c.revenue,
		} {
			if val == nil && present[col] {
				badRows[col] = append(badRows[col], i)
			}
		}
		coerced = append(coerced, c)
	}

	for _, col := range measureColumns {
		if idxs := badRows[col]; len(idxs) > 0 {
			v.warnings = append(v.warnings, fmt.Sprintf("Invalid values in %s at rows: %v", col, idxs))
		}
	}
	return coerced
}

// checkBusinessRules evaluates the independent rule checks over the coerced
// table. Each check appends at most one aggregate message; missing values
// never trigger a rule.
func (v *validator) checkBusinessRules(rows []coercedRow) {
	invalidMonth := false
	negative := map[string]bool{}
	badRevenue := false

	for _, row := range rows {
		if row.month != nil && (*row.month < 1 || *row.month > 12) {
			invalidMonth = true
		}
		if row.scope1 != nil && *row.scope1 < 0 {
			negative["scope1_emissions"] = true
		}
		if row.scope2 != nil && *row.scope2 < 0 {
			negative["scope2_emissions"] = true
		}
		if row.revenue != nil && *row.revenue <= 0 {
			badRevenue = true
		}
	}

	if invalidMonth {
		v.errors = append(v.errors, "Invalid month values found")
	}
	for _, col := range []string{"scope1_emissions", "scope2_emissions"} {
		if negative[col] {
			v.errors = append(v.errors, fmt.Sprintf("Negative values found in %s", col))
		}
	}
	if badRevenue {
		v.warnings = append(v.warnings, "Zero or negative revenue found")
	}
}

// prune drops rows missing a facility ID, month or year and converts the
// survivors to Records. Dropped rows are not individually reported.
func (v *validator) prune(rows []coercedRow) []Record {
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		if row.facilityID == "" || row.month == nil || row.year == nil {
			continue
		}
		records = append(records, Record{
			FacilityID:      row.facilityID,
			FacilityName:    row.facilityName,
			Month:           int(*row.month),
			Year:            int(*row.year),
			Scope1Emissions: row.scope1,
			Scope2Emissions: row.scope2,
			Revenue:         row.revenue,
		})
	}
	return records
}

// parseNumber coerces a cell to a float, returning nil for empty or
// non-numeric cells.
func parseNumber(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
