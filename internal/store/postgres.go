package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/vlai-dev123/Climate-data-api/internal/emissions"
)

// schema bootstraps the tables the service writes to. Facilities are kept
// in their own table so names stay consistent across uploads; emissions
// rows are unique per facility and reporting date.
const schema = `
CREATE TABLE IF NOT EXISTS facilities (
    facility_id   VARCHAR(50) PRIMARY KEY,
    facility_name VARCHAR(255) NOT NULL,
    created_at    TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS emissions_data (
    id               UUID PRIMARY KEY,
    facility_id      VARCHAR(50) REFERENCES facilities(facility_id),
    reporting_date   DATE NOT NULL,
    scope1_emissions DECIMAL(15, 2),
    scope2_emissions DECIMAL(15, 2),
    total_emissions  DECIMAL(15, 2),
    revenue          DECIMAL(15, 2),
    carbon_intensity DECIMAL(10, 4),
    created_at       TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at       TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (facility_id, reporting_date)
);

CREATE INDEX IF NOT EXISTS idx_emissions_facility ON emissions_data(facility_id);
CREATE INDEX IF NOT EXISTS idx_emissions_date ON emissions_data(reporting_date);
`

// Postgres is the database-backed Store.
type Postgres struct {
	db *sql.DB
}

// NewPostgres wraps an open database handle. Callers own the handle's
// lifecycle; EnsureSchema should be called once before serving traffic.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the facilities and emissions tables if needed.
func (s *Postgres) EnsureSchema() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveRecords upserts facilities and emissions rows in one transaction.
// Re-uploading a facility/month pair overwrites the previous reading.
func (s *Postgres) SaveRecords(records []emissions.EnrichedRecord) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // no-op after commit

	facilityStmt, err := tx.Prepare(`
		INSERT INTO facilities (facility_id, facility_name)
		VALUES ($1, $2)
		ON CONFLICT (facility_id) DO UPDATE SET facility_name = EXCLUDED.facility_name`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare facility upsert: %w", err)
	}
	defer facilityStmt.Close()

	emissionStmt, err := tx.Prepare(`
		INSERT INTO emissions_data
			(id, facility_id, reporting_date, scope1_emissions, scope2_emissions,
			 total_emissions, revenue, carbon_intensity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (facility_id, reporting_date) DO UPDATE SET
			scope1_emissions = EXCLUDED.scope1_emissions,
			scope2_emissions = EXCLUDED.scope2_emissions,
			total_emissions  = EXCLUDED.total_emissions,
			revenue          = EXCLUDED.revenue,
			carbon_intensity = EXCLUDED.carbon_intensity,
			updated_at       = CURRENT_TIMESTAMP`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare emissions upsert: %w", err)
	}
	defer emissionStmt.Close()

	saved := 0
	for _, r := range records {
		row := rowFromRecord(r)
		if _, err := facilityStmt.Exec(row.FacilityID, row.FacilityName); err != nil {
			return saved, fmt.Errorf("failed to upsert facility %s: %w", row.FacilityID, err)
		}
		_, err := emissionStmt.Exec(row.ID, row.FacilityID, row.ReportingDate,
			row.Scope1Emissions, row.Scope2Emissions, row.TotalEmissions,
			row.Revenue, row.CarbonIntensity)
		if err != nil {
			return saved, fmt.Errorf("failed to insert emissions row for facility %s (%s): %w",
				row.FacilityID, row.ReportingDate.Format("2006-01"), err)
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return saved, nil
}

// FacilityEmissions queries the facility's stored rows, newest last.
func (s *Postgres) FacilityEmissions(facilityID string, start, end *time.Time) ([]EmissionRow, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT e.id, e.facility_id, f.facility_name, e.reporting_date,
		       e.scope1_emissions, e.scope2_emissions, e.total_emissions,
		       e.revenue, e.carbon_intensity
		FROM emissions_data e
		JOIN facilities f ON f.facility_id = e.facility_id
		WHERE e.facility_id = $1`)
	args := []interface{}{facilityID}

	if start != nil {
		args = append(args, *start)
		sb.WriteString(" AND e.reporting_date >= $" + strconv.Itoa(len(args)))
	}
	if end != nil {
		args = append(args, *end)
		sb.WriteString(" AND e.reporting_date <= $" + strconv.Itoa(len(args)))
	}
	sb.WriteString(" ORDER BY e.reporting_date")

	rows, err := s.db.Query(sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query emissions for facility %s: %w", facilityID, err)
	}
	defer rows.Close()

	results := make([]EmissionRow, 0)
	for rows.Next() {
		var row EmissionRow
		var scope1, scope2, revenue, intensity sql.NullFloat64
		err := rows.Scan(&row.ID, &row.FacilityID, &row.FacilityName, &row.ReportingDate,
			&scope1, &scope2, &row.TotalEmissions, &revenue, &intensity)
		if err != nil {
			return nil, fmt.Errorf("failed to scan emissions row: %w", err)
		}
		row.Scope1Emissions = nullableFloat(scope1)
		row.Scope2Emissions = nullableFloat(scope2)
		row.Revenue = nullableFloat(revenue)
		row.CarbonIntensity = nullableFloat(intensity)
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating emissions rows for facility %s: %w", facilityID, err)
	}
	return results, nil
}

// Name identifies the backend.
func (s *Postgres) Name() string {
	return "postgres"
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
