package status

import (
	"errors"
	"fmt"
	"testing"

	"weather-forecast-etl/internal/etl"
)

func TestLatestEmpty(t *testing.T) {
	s := NewMemoryStore(10)

	_, err := s.Latest()
	if !errors.Is(err, ErrNoRuns) {
		t.Fatalf("expected ErrNoRuns, got %v", err)
	}
}

func TestSaveAndLatest(t *testing.T) {
	s := NewMemoryStore(10)
	s.SaveReport(etl.RunReport{ID: "run-1"})
	s.SaveReport(etl.RunReport{ID: "run-2"})

	latest, err := s.Latest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest.ID != "run-2" {
		t.Fatalf("expected run-2, got %s", latest.ID)
	}
}

func TestRetentionByCount(t *testing.T) {
	s := NewMemoryStore(3)
	for i := 0; i < 5; i++ {
		s.SaveReport(etl.RunReport{ID: fmt.Sprintf("run-%d", i)})
	}

	history := s.History()
	if len(history) != 3 {
		t.Fatalf("expected 3 retained reports, got %d", len(history))
	}
	if history[0].ID != "run-2" {
		t.Fatalf("expected oldest retained report run-2, got %s", history[0].ID)
	}
}
