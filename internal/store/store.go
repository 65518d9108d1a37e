// Package store persists processed emissions records and serves the
// facility query endpoint. Two implementations exist: Postgres for real
// deployments and Memory for tests and DB-less runs.
package store

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/vlai-dev123/Climate-data-api/internal/emissions"
)

// EmissionRow is one persisted monthly emissions reading.
type EmissionRow struct {
	ID              string    `json:"id"`
	FacilityID      string    `json:"facility_id"`
	FacilityName    string    `json:"facility_name"`
	ReportingDate   time.Time `json:"reporting_date"`
	Scope1Emissions *float64  `json:"scope1_emissions"`
	Scope2Emissions *float64  `json:"scope2_emissions"`
	TotalEmissions  float64   `json:"total_emissions"`
	Revenue         *float64  `json:"revenue"`
	CarbonIntensity *float64  `json:"carbon_intensity"`
}

// Store is the persistence interface the HTTP handlers depend on.
type Store interface {
	// SaveRecords upserts the given records keyed by (facility, reporting
	// date) and returns how many were stored.
	SaveRecords(records []emissions.EnrichedRecord) (int, error)
	// FacilityEmissions returns a facility's stored rows ordered by
	// reporting date, optionally bounded by an inclusive date range.
	FacilityEmissions(facilityID string, start, end *time.Time) ([]EmissionRow, error)
	// Name identifies the backend for logging and health reporting.
	Name() string
}

// rowFromRecord converts a pipeline record into its stored shape. A
// non-finite carbon intensity is stored as NULL; neither Postgres decimals
// nor JSON can represent Inf/NaN.
func rowFromRecord(r emissions.EnrichedRecord) EmissionRow {
	row := EmissionRow{
		ID:              uuid.New().String(),
		FacilityID:      r.FacilityID,
		FacilityName:    r.FacilityName,
		ReportingDate:   r.Date,
		Scope1Emissions: r.Scope1Emissions,
		Scope2Emissions: r.Scope2Emissions,
		TotalEmissions:  r.TotalEmissions,
		Revenue:         r.Revenue,
	}
	if intensity := r.CarbonIntensity; isFinite(intensity) {
		row.CarbonIntensity = &intensity
	}
	return row
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
