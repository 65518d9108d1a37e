package emissions

import (
	"math"
	"sort"
	"time"
)

// Carbon intensity is reported as tCO2e per $1M of revenue.
const intensityRevenueUnit = 1_000_000

// CalculateMetrics derives total_emissions, carbon_intensity and the
// reporting date for every record. The input slice is not mutated and no
// rows are filtered. Missing scope values count as zero in the total; a
// missing, zero or negative revenue leaves the raw division result in
// CarbonIntensity (NaN or Inf), which downstream aggregation skips.
func CalculateMetrics(records []Record) []EnrichedRecord {
	enriched := make([]EnrichedRecord, 0, len(records))
	for _, r := range records {
		total := floatOrZero(r.Scope1Emissions) + floatOrZero(r.Scope2Emissions)

		intensity := math.NaN()
		if r.Revenue != nil {
			intensity = total / (*r.Revenue / intensityRevenueUnit)
		}

		enriched = append(enriched, EnrichedRecord{
			Record:          r,
			TotalEmissions:  total,
			CarbonIntensity: intensity,
			Date:            time.Date(r.Year, time.Month(r.Month), 1, 0, 0, 0, 0, time.UTC),
		})
	}
	return enriched
}

type facilityAccumulator struct {
	name         string
	total        float64
	scope1       float64
	scope2       float64
	revenue      float64
	intensitySum float64
	intensityN   int
}

// AggregateByFacility rolls the enriched table up to one summary row per
// distinct facility ID, in first-appearance order. Emissions and revenue
// are summed, the facility name is the first seen, and carbon intensity is
// the mean over the facility's finite values (zero when it has none).
func AggregateByFacility(records []EnrichedRecord) []FacilitySummary {
	order := make([]string, 0)
	acc := make(map[string]*facilityAccumulator)

	for _, r := range records {
		a, ok := acc[r.FacilityID]
		if !ok {
			a = &facilityAccumulator{name: r.FacilityName}
			acc[r.FacilityID] = a
			order = append(order, r.FacilityID)
		}
		a.total += r.TotalEmissions
		a.scope1 += floatOrZero(r.Scope1Emissions)
		a.scope2 += floatOrZero(r.Scope2Emissions)
		a.revenue += floatOrZero(r.Revenue)
		if isFinite(r.CarbonIntensity) {
			a.intensitySum += r.CarbonIntensity
			a.intensityN++
		}
	}

	summaries := make([]FacilitySummary, 0, len(order))
	for _, id := range order {
		a := acc[id]
		intensity := 0.0
		if a.intensityN > 0 {
			intensity = a.intensitySum / float64(a.intensityN)
		}
		summaries = append(summaries, FacilitySummary{
			FacilityID:      id,
			FacilityName:    a.name,
			TotalEmissions:  a.total,
			Scope1Emissions: a.scope1,
			Scope2Emissions: a.scope2,
			Revenue:         a.revenue,
			CarbonIntensity: intensity,
		})
	}
	return summaries
}

// CalculateTrends reports, per facility in first-appearance order, the most
// recent month's emissions and the percent change versus the immediately
// preceding month. The change is nil when the facility has a single row,
// the previous total is zero, or the computed change is not finite.
func CalculateTrends(records []EnrichedRecord) []Trend {
	order := make([]string, 0)
	byFacility := make(map[string][]EnrichedRecord)
	for _, r := range records {
		if _, ok := byFacility[r.FacilityID]; !ok {
			order = append(order, r.FacilityID)
		}
		byFacility[r.FacilityID] = append(byFacility[r.FacilityID], r)
	}

	trends := make([]Trend, 0, len(order))
	for _, id := range order {
		rows := byFacility[id]
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Date.Before(rows[j].Date)
		})
		latest := rows[len(rows)-1]

		var change *float64
		if len(rows) > 1 {
			prev := rows[len(rows)-2].TotalEmissions
			if prev != 0 {
				pct := (latest.TotalEmissions - prev) / prev * 100
				if isFinite(pct) {
					change = &pct
				}
			}
		}

		trends = append(trends, Trend{
			FacilityID:                 id,
			FacilityName:               latest.FacilityName,
			LatestMonth:                latest.Date.Format("2006-01"),
			LatestEmissions:            latest.TotalEmissions,
			ChangeFromPreviousMonthPct: change,
		})
	}
	return trends
}

// Overall returns the dataset-wide figures the upload response reports: the
// sum of total emissions and the mean carbon intensity over finite values.
func Overall(records []EnrichedRecord) (totalEmissions, avgCarbonIntensity float64) {
	intensityN := 0
	for _, r := range records {
		totalEmissions += r.TotalEmissions
		if isFinite(r.CarbonIntensity) {
			avgCarbonIntensity += r.CarbonIntensity
			intensityN++
		}
	}
	if intensityN > 0 {
		avgCarbonIntensity /= float64(intensityN)
	}
	return totalEmissions, avgCarbonIntensity
}

func floatOrZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
