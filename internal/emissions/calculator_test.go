package emissions

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 {
	return &v
}

func monthlyRecord(facilityID, name string, month int, scope1, scope2, revenue *float64) Record {
	return Record{
		FacilityID:      facilityID,
		FacilityName:    name,
		Month:           month,
		Year:            2024,
		Scope1Emissions: scope1,
		Scope2Emissions: scope2,
		Revenue:         revenue,
	}
}

func TestCalculateMetrics(t *testing.T) {
	records := []Record{
		monthlyRecord("F001", "Malaysia HQ", 1, f64(150.5), f64(80.2), f64(500000)),
		monthlyRecord("F001", "Malaysia HQ", 2, f64(145.0), f64(78.5), f64(520000)),
	}

	enriched := CalculateMetrics(records)
	require.Len(t, enriched, 2)

	assert.InDelta(t, 230.7, enriched[0].TotalEmissions, 1e-9)
	assert.InDelta(t, 223.5, enriched[1].TotalEmissions, 1e-9)

	// 230.7 tCO2e against $0.5M of revenue.
	assert.InDelta(t, 461.4, enriched[0].CarbonIntensity, 1e-9)

	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), enriched[0].Date)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), enriched[1].Date)
}

func TestCalculateMetrics_MissingScopeCountsAsZero(t *testing.T) {
	records := []Record{
		monthlyRecord("F003", "Jakarta Plant", 1, nil, f64(200.0), f64(800000)),
	}

	enriched := CalculateMetrics(records)
	require.Len(t, enriched, 1)
	assert.InDelta(t, 200.0, enriched[0].TotalEmissions, 1e-9)
	assert.GreaterOrEqual(t, enriched[0].TotalEmissions, 0.0)
}

func TestCalculateMetrics_DegenerateIntensity(t *testing.T) {
	t.Run("Zero Revenue", func(t *testing.T) {
		enriched := CalculateMetrics([]Record{
			monthlyRecord("F001", "Plant", 1, f64(10), f64(5), f64(0)),
		})
		require.Len(t, enriched, 1)
		assert.True(t, math.IsInf(enriched[0].CarbonIntensity, 1))
	})

	t.Run("Missing Revenue", func(t *testing.T) {
		enriched := CalculateMetrics([]Record{
			monthlyRecord("F001", "Plant", 1, f64(10), f64(5), nil),
		})
		require.Len(t, enriched, 1)
		assert.True(t, math.IsNaN(enriched[0].CarbonIntensity))
	})
}

func TestCalculateMetrics_DoesNotMutateInput(t *testing.T) {
	records := []Record{
		monthlyRecord("F001", "Plant", 1, f64(10), f64(5), f64(100000)),
	}
	original := records[0]

	first := CalculateMetrics(records)
	second := CalculateMetrics(records)

	assert.Equal(t, original, records[0])
	// Re-deriving from untouched source columns is idempotent.
	assert.Equal(t, first[0].TotalEmissions, second[0].TotalEmissions)
	assert.Equal(t, first[0].Date, second[0].Date)
}

func TestAggregateByFacility(t *testing.T) {
	enriched := CalculateMetrics([]Record{
		monthlyRecord("F001", "Malaysia HQ", 1, f64(150.5), f64(80.2), f64(500000)),
		monthlyRecord("F001", "Malaysia HQ", 2, f64(145.0), f64(78.5), f64(520000)),
		monthlyRecord("F002", "Singapore Office", 1, f64(45.0), f64(120.0), f64(300000)),
	})

	summaries := AggregateByFacility(enriched)
	require.Len(t, summaries, 2, "one summary row per distinct facility")

	assert.Equal(t, "F001", summaries[0].FacilityID)
	assert.Equal(t, "Malaysia HQ", summaries[0].FacilityName)
	assert.InDelta(t, 454.2, summaries[0].TotalEmissions, 1e-9)
	assert.InDelta(t, 295.5, summaries[0].Scope1Emissions, 1e-9)
	assert.InDelta(t, 158.7, summaries[0].Scope2Emissions, 1e-9)
	assert.InDelta(t, 1020000, summaries[0].Revenue, 1e-9)

	// Sum over summaries conserves the unaggregated total.
	var summarized, unaggregated float64
	for _, s := range summaries {
		summarized += s.TotalEmissions
	}
	for _, r := range enriched {
		unaggregated += r.TotalEmissions
	}
	assert.InDelta(t, unaggregated, summarized, 1e-9)
}

func TestAggregateByFacility_MeanSkipsNonFiniteIntensity(t *testing.T) {
	enriched := CalculateMetrics([]Record{
		monthlyRecord("F001", "Plant", 1, f64(100), f64(0), f64(1000000)), // intensity 100
		monthlyRecord("F001", "Plant", 2, f64(100), f64(0), f64(0)),       // intensity +Inf
	})

	summaries := AggregateByFacility(enriched)
	require.Len(t, summaries, 1)
	assert.InDelta(t, 100.0, summaries[0].CarbonIntensity, 1e-9,
		"mean carbon intensity is taken over finite values only")
}

func TestCalculateTrends(t *testing.T) {
	enriched := CalculateMetrics([]Record{
		monthlyRecord("F001", "Malaysia HQ", 1, f64(150.5), f64(80.2), f64(500000)),
		monthlyRecord("F001", "Malaysia HQ", 2, f64(145.0), f64(78.5), f64(520000)),
		monthlyRecord("F002", "Singapore Office", 1, f64(45.0), f64(120.0), f64(300000)),
	})

	trends := CalculateTrends(enriched)
	require.Len(t, trends, 2)

	f001 := trends[0]
	assert.Equal(t, "F001", f001.FacilityID)
	assert.Equal(t, "2024-02", f001.LatestMonth)
	assert.InDelta(t, 223.5, f001.LatestEmissions, 1e-9)
	require.NotNil(t, f001.ChangeFromPreviousMonthPct)
	assert.InDelta(t, -3.12, *f001.ChangeFromPreviousMonthPct, 0.01)

	f002 := trends[1]
	assert.Equal(t, "F002", f002.FacilityID)
	assert.Nil(t, f002.ChangeFromPreviousMonthPct, "a single month has no prior month to compare")
}

func TestCalculateTrends_SortsByDate(t *testing.T) {
	// February arrives before January; the trend must still compare
	// February against January.
	enriched := CalculateMetrics([]Record{
		monthlyRecord("F001", "Plant", 2, f64(90), f64(0), f64(100000)),
		monthlyRecord("F001", "Plant", 1, f64(100), f64(0), f64(100000)),
	})

	trends := CalculateTrends(enriched)
	require.Len(t, trends, 1)
	assert.Equal(t, "2024-02", trends[0].LatestMonth)
	require.NotNil(t, trends[0].ChangeFromPreviousMonthPct)
	assert.InDelta(t, -10.0, *trends[0].ChangeFromPreviousMonthPct, 1e-9)
}

func TestCalculateTrends_ZeroPreviousMonth(t *testing.T) {
	enriched := CalculateMetrics([]Record{
		monthlyRecord("F001", "Plant", 1, f64(0), f64(0), f64(100000)),
		monthlyRecord("F001", "Plant", 2, f64(50), f64(0), f64(100000)),
	})

	trends := CalculateTrends(enriched)
	require.Len(t, trends, 1)
	assert.Nil(t, trends[0].ChangeFromPreviousMonthPct,
		"a zero baseline yields no finite percent change")
}

func TestOverall(t *testing.T) {
	enriched := CalculateMetrics([]Record{
		monthlyRecord("F001", "Plant", 1, f64(100), f64(0), f64(1000000)), // intensity 100
		monthlyRecord("F002", "Office", 1, f64(50), f64(0), f64(500000)),  // intensity 100
		monthlyRecord("F003", "Depot", 1, f64(25), f64(0), f64(0)),        // intensity +Inf
	})

	total, avg := Overall(enriched)
	assert.InDelta(t, 175.0, total, 1e-9)
	assert.InDelta(t, 100.0, avg, 1e-9, "overall mean intensity skips non-finite values")
}
