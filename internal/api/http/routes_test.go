package httpapi

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"weather-forecast-etl/internal/etl"
	"weather-forecast-etl/internal/status"
	"weather-forecast-etl/internal/store"
)

func newTestApp(t *testing.T) (*fiber.App, *status.MemoryStore) {
	t.Helper()

	app := fiber.New()
	reports := status.NewMemoryStore(10)
	dataset := store.NewCSVStore(filepath.Join(t.TempDir(), "weather_forecast.csv"))
	RegisterRoutes(app, reports, dataset)
	return app, reports
}

// TestLatestRunNotFound verifies the latest-run endpoint returns 404 before
// any pipeline run has been recorded.
func TestLatestRunNotFound(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs/latest", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestLatestRunReturnsReport(t *testing.T) {
	app, reports := newTestApp(t)

	reports.SaveReport(etl.RunReport{
		ID:        "run-1",
		StartedAt: time.Date(2026, 8, 23, 6, 0, 0, 0, time.UTC),
		Succeeded: 3,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs/latest", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}

// TestRunsLimitValidation verifies that the history endpoint rejects a
// malformed or out-of-range limit parameter.
func TestRunsLimitValidation(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs?limit=abc", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/runs?limit=5000", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestDatasetSummaryEmpty(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dataset/summary", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}
