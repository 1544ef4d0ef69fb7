package status

import (
	"errors"
	"sync"

	"weather-forecast-etl/internal/etl"
)

var (
	// ErrNoRuns is returned when no pipeline run has been recorded yet.
	ErrNoRuns = errors.New("no pipeline runs recorded")
)

// MemoryStore is a concurrency-safe in-memory history of recent run reports,
// consumed by the status API in serve mode.
type MemoryStore struct {
	mu sync.RWMutex

	reports []etl.RunReport

	// maxHistory caps retained reports; <= 0 means unlimited.
	maxHistory int
}

func NewMemoryStore(maxHistory int) *MemoryStore {
	return &MemoryStore{maxHistory: maxHistory}
}

// SaveReport appends a run report and enforces retention.
func (s *MemoryStore) SaveReport(report etl.RunReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports = append(s.reports, report)
	if s.maxHistory > 0 && len(s.reports) > s.maxHistory {
		over := len(s.reports) - s.maxHistory
		s.reports = s.reports[over:]
	}
}

// Latest returns the most recent run report.
func (s *MemoryStore) Latest() (etl.RunReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.reports) == 0 {
		return etl.RunReport{}, ErrNoRuns
	}
	return s.reports[len(s.reports)-1], nil
}

// History returns all retained run reports, oldest first.
func (s *MemoryStore) History() []etl.RunReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]etl.RunReport, len(s.reports))
	copy(out, s.reports)
	return out
}
