package emissions

import "time"

// RequiredColumns lists the columns every uploaded emissions CSV must carry.
var RequiredColumns = []string{
	"facility_id", "facility_name", "month", "year",
	"scope1_emissions", "scope2_emissions", "revenue",
}

// Record is a single validated emissions row. The three measure fields are
// nil when the uploaded cell could not be coerced to a number; facility ID,
// month and year are always present on records that survive validation.
type Record struct {
	FacilityID      string
	FacilityName    string
	Month           int
	Year            int
	Scope1Emissions *float64
	Scope2Emissions *float64
	Revenue         *float64
}

// EnrichedRecord is a validated Record plus the derived metric fields.
// CarbonIntensity is the raw division result and is non-finite (Inf or NaN)
// when the record's revenue is zero, negative or missing; aggregation
// functions skip non-finite values when taking means.
type EnrichedRecord struct {
	Record
	TotalEmissions  float64
	CarbonIntensity float64
	Date            time.Time
}

// FacilitySummary is the per-facility rollup of an enriched table.
type FacilitySummary struct {
	FacilityID      string  `json:"facility_id"`
	FacilityName    string  `json:"facility_name"`
	TotalEmissions  float64 `json:"total_emissions"`
	Scope1Emissions float64 `json:"scope1_emissions"`
	Scope2Emissions float64 `json:"scope2_emissions"`
	Revenue         float64 `json:"revenue"`
	CarbonIntensity float64 `json:"carbon_intensity"`
}

// Trend reports a facility's most recent month and its month-over-month
// emissions change. ChangeFromPreviousMonthPct is nil when the facility has
// no prior month or the change is not a finite number.
type Trend struct {
	FacilityID                 string   `json:"facility_id"`
	FacilityName               string   `json:"facility_name"`
	LatestMonth                string   `json:"latest_month"`
	LatestEmissions            float64  `json:"latest_emissions"`
	ChangeFromPreviousMonthPct *float64 `json:"change_from_previous_month_pct"`
}
