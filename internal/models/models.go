package models

import (
	"github.com/vlai-dev123/Climate-data-api/internal/emissions"
	"github.com/vlai-dev123/Climate-data-api/internal/store"
)

// Upload processing statuses. A dataset that produced structural errors but
// still yielded a usable table is accepted as a partial success.
const (
	StatusSuccess        = "success"
	StatusPartialSuccess = "partial_success"
)

// UploadResponse is the envelope returned by the emissions upload endpoint.
type UploadResponse struct {
	Status           string         `json:"status"`
	Message          string         `json:"message"`
	RecordsProcessed int            `json:"records_processed"`
	Errors           []string       `json:"errors"`
	Warnings         []string       `json:"warnings"`
	Summary          *UploadSummary `json:"summary,omitempty"`
}

// UploadSummary carries the aggregate views derived from an upload.
type UploadSummary struct {
	Facilities             []emissions.FacilitySummary `json:"facilities"`
	Trends                 []emissions.Trend           `json:"trends"`
	TotalEmissions         float64                     `json:"total_emissions"`
	AverageCarbonIntensity float64                     `json:"average_carbon_intensity"`
}

// EmissionsFilters echoes the date-range filters a facility query applied.
type EmissionsFilters struct {
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// FacilityEmissionsResponse is the payload of the facility query endpoint.
type FacilityEmissionsResponse struct {
	FacilityID string              `json:"facility_id"`
	Filters    EmissionsFilters    `json:"filters"`
	Records    []store.EmissionRow `json:"records"`
}
