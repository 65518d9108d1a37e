package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vlai-dev123/Climate-data-api/internal/emissions"
	"github.com/vlai-dev123/Climate-data-api/internal/models"
	"github.com/vlai-dev123/Climate-data-api/internal/store"
)

// UploadEmissions handles POST /api/v1/emissions/upload. It reads the
// multipart CSV upload, runs the validation and metrics pipeline, persists
// the result and returns the summary envelope. A dataset that cannot be
// parsed at all is rejected with 400; structural errors on a parsable
// dataset downgrade the status to partial_success but the data is kept.
func UploadEmissions(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, header, err := c.Request.FormFile("file")
		if err != nil {
			RespondWithError(c, http.StatusBadRequest, models.ErrorCodeValidation,
				"Request must include a CSV file in the 'file' form field.", gin.H{"reason": err.Error()})
			return
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			log.Printf("Failed to read upload %q: %v", header.Filename, err)
			RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeInternalServerError,
				"Failed to read uploaded file.", nil)
			return
		}

		records, errs, warnings := emissions.ValidateAndClean(string(content))
		if records == nil {
			log.Printf("Upload %q rejected: %v", header.Filename, errs)
			RespondWithError(c, http.StatusBadRequest, models.ErrorCodeUnparsableCSV,
				"Uploaded file could not be parsed as a CSV table.",
				gin.H{"errors": errs, "warnings": warnings})
			return
		}

		enriched := emissions.CalculateMetrics(records)
		facilities := emissions.AggregateByFacility(enriched)
		trends := emissions.CalculateTrends(enriched)
		totalEmissions, avgIntensity := emissions.Overall(enriched)

		saved, err := st.SaveRecords(enriched)
		if err != nil {
			log.Printf("Failed to persist %d records from upload %q: %v", len(enriched), header.Filename, err)
			RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeStorageFailure,
				"Processed data could not be stored.", gin.H{"reason": err.Error()})
			return
		}

		status := models.StatusSuccess
		if len(errs) > 0 {
			status = models.StatusPartialSuccess
		}
		log.Printf("Upload %q: %d records processed (%d stored), %d errors, %d warnings",
			header.Filename, len(enriched), saved, len(errs), len(warnings))

		c.JSON(http.StatusOK, models.UploadResponse{
			Status:           status,
			Message:          fmt.Sprintf("Processed %d records successfully", len(enriched)),
			RecordsProcessed: len(enriched),
			Errors:           errs,
			Warnings:         warnings,
			Summary: &models.UploadSummary{
				Facilities:             facilities,
				Trends:                 trends,
				TotalEmissions:         totalEmissions,
				AverageCarbonIntensity: avgIntensity,
			},
		})
	}
}

// GetFacilityEmissions handles GET /api/v1/facilities/:facility_id/emissions
// with optional start_date/end_date query parameters (YYYY-MM-DD, inclusive).
func GetFacilityEmissions(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		facilityID := c.Param("facility_id")

		start, err := parseDateParam(c.Query("start_date"))
		if err != nil {
			RespondWithError(c, http.StatusBadRequest, models.ErrorCodeValidation,
				"Invalid start_date, expected YYYY-MM-DD.", gin.H{"start_date": c.Query("start_date")})
			return
		}
		end, err := parseDateParam(c.Query("end_date"))
		if err != nil {
			RespondWithError(c, http.StatusBadRequest, models.ErrorCodeValidation,
				"Invalid end_date, expected YYYY-MM-DD.", gin.H{"end_date": c.Query("end_date")})
			return
		}

		rows, err := st.FacilityEmissions(facilityID, start, end)
		if err != nil {
			log.Printf("Failed to query emissions for facility %s: %v", facilityID, err)
			RespondWithError(c, http.StatusInternalServerError, models.ErrorCodeStorageFailure,
				"Failed to query stored emissions.", nil)
			return
		}

		c.JSON(http.StatusOK, models.FacilityEmissionsResponse{
			FacilityID: facilityID,
			Filters: models.EmissionsFilters{
				StartDate: c.Query("start_date"),
				EndDate:   c.Query("end_date"),
			},
			Records: rows,
		})
	}
}

// Health handles GET /healthz.
func Health(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "storage": st.Name()})
	}
}

// parseDateParam parses an optional YYYY-MM-DD query value; empty means
// unbounded.
func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
