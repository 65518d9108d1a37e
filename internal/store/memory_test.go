package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vlai-dev123/Climate-data-api/internal/emissions"
)

func f64(v float64) *float64 {
	return &v
}

func enrichedRecord(facilityID string, month int, scope1, revenue float64) emissions.EnrichedRecord {
	records := emissions.CalculateMetrics([]emissions.Record{{
		FacilityID:      facilityID,
		FacilityName:    facilityID + " Plant",
		Month:           month,
		Year:            2024,
		Scope1Emissions: f64(scope1),
		Scope2Emissions: f64(0),
		Revenue:         f64(revenue),
	}})
	return records[0]
}

func TestMemory_SaveAndQuery(t *testing.T) {
	st := NewMemory()

	saved, err := st.SaveRecords([]emissions.EnrichedRecord{
		enrichedRecord("F001", 2, 90, 100000),
		enrichedRecord("F001", 1, 100, 100000),
		enrichedRecord("F002", 1, 50, 200000),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, saved)

	rows, err := st.FacilityEmissions("F001", nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// Ordered by reporting date regardless of insertion order.
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), rows[0].ReportingDate)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), rows[1].ReportingDate)
}

func TestMemory_UpsertOverwrites(t *testing.T) {
	st := NewMemory()

	_, err := st.SaveRecords([]emissions.EnrichedRecord{enrichedRecord("F001", 1, 100, 100000)})
	require.NoError(t, err)
	_, err = st.SaveRecords([]emissions.EnrichedRecord{enrichedRecord("F001", 1, 120, 100000)})
	require.NoError(t, err)

	rows, err := st.FacilityEmissions("F001", nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1, "same facility and reporting date overwrites")
	assert.InDelta(t, 120.0, rows[0].TotalEmissions, 1e-9)
}

func TestMemory_DateRangeFilter(t *testing.T) {
	st := NewMemory()

	_, err := st.SaveRecords([]emissions.EnrichedRecord{
		enrichedRecord("F001", 1, 100, 100000),
		enrichedRecord("F001", 2, 90, 100000),
		enrichedRecord("F001", 3, 80, 100000),
	})
	require.NoError(t, err)

	start := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.February, 28, 0, 0, 0, 0, time.UTC)
	rows, err := st.FacilityEmissions("F001", &start, &end)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, start, rows[0].ReportingDate)
}

func TestMemory_NonFiniteIntensityStoredAsNull(t *testing.T) {
	st := NewMemory()

	_, err := st.SaveRecords([]emissions.EnrichedRecord{enrichedRecord("F001", 1, 100, 0)})
	require.NoError(t, err)

	rows, err := st.FacilityEmissions("F001", nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].CarbonIntensity)
}
