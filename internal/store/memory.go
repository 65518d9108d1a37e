package store

import (
	"sort"
	"sync"
	"time"

	"github.com/vlai-dev123/Climate-data-api/internal/emissions"
)

// Memory is an in-memory Store used by tests and when the service runs
// without a database. Rows are keyed by facility ID and reporting date so
// re-uploads overwrite, matching the Postgres unique constraint.
type Memory struct {
	mu   sync.RWMutex
	rows map[memoryKey]EmissionRow
}

type memoryKey struct {
	facilityID string
	date       time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{rows: make(map[memoryKey]EmissionRow)}
}

// SaveRecords upserts the records into the store.
func (s *Memory) SaveRecords(records []emissions.EnrichedRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		row := rowFromRecord(r)
		s.rows[memoryKey{facilityID: row.FacilityID, date: row.ReportingDate}] = row
	}
	return len(records), nil
}

// FacilityEmissions returns the facility's rows ordered by reporting date,
// bounded by the optional inclusive start/end dates.
func (s *Memory) FacilityEmissions(facilityID string, start, end *time.Time) ([]EmissionRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]EmissionRow, 0)
	for key, row := range s.rows {
		if key.facilityID != facilityID {
			continue
		}
		if start != nil && row.ReportingDate.Before(*start) {
			continue
		}
		if end != nil && row.ReportingDate.After(*end) {
			continue
		}
		matches = append(matches, row)
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].ReportingDate.Before(matches[j].ReportingDate)
	})
	return matches, nil
}

// Name identifies the backend.
func (s *Memory) Name() string {
	return "memory"
}
