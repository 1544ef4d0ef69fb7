package forecast

import (
	"testing"
	"time"
)

func TestKelvinToCelsius(t *testing.T) {
	cases := []struct {
		kelvin float64
		want   float64
	}{
		{273.15, 0.0},
		{300.0, 26.85},
		{0.0, -273.15},
		{288.706, 15.56},
	}

	for _, c := range cases {
		got := KelvinToCelsius(c.kelvin)
		if got != c.want {
			t.Errorf("KelvinToCelsius(%v) = %v, want %v", c.kelvin, got, c.want)
		}
	}
}

func TestTransformPreservesLength(t *testing.T) {
	entries := []Entry{
		{City: "Berlin", Timestamp: time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC), TemperatureK: 300.0, Humidity: 55, Condition: "Clear"},
		{City: "Berlin", Timestamp: time.Date(2026, 8, 23, 15, 0, 0, 0, time.UTC), TemperatureK: 298.5, Humidity: 60, Condition: "Clouds"},
		{City: "Paris", Timestamp: time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC), TemperatureK: 295.0, Humidity: 70, Condition: "Rain"},
	}

	rows := Transform(entries, time.Now())
	if len(rows) != len(entries) {
		t.Fatalf("expected %d rows, got %d", len(entries), len(rows))
	}

	empty := Transform(nil, time.Now())
	if len(empty) != 0 {
		t.Fatalf("expected no rows for empty input, got %d", len(empty))
	}
}

func TestTransformFieldMapping(t *testing.T) {
	ts := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	ingested := time.Date(2026, 8, 23, 6, 30, 0, 0, time.UTC)

	rows := Transform([]Entry{
		{City: "London", Timestamp: ts, TemperatureK: 300.0, Humidity: 81, Condition: "Drizzle"},
	}, ingested)

	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.City != "London" {
		t.Errorf("expected city London, got %q", row.City)
	}
	if !row.ForecastTime.Equal(ts) {
		t.Errorf("expected forecast time %v, got %v", ts, row.ForecastTime)
	}
	if row.TemperatureC != 26.85 {
		t.Errorf("expected 26.85 celsius, got %v", row.TemperatureC)
	}
	if row.Humidity != 81 {
		t.Errorf("expected humidity 81, got %v", row.Humidity)
	}
	if row.Condition != "Drizzle" {
		t.Errorf("expected condition Drizzle, got %q", row.Condition)
	}
	if !row.IngestedAt.Equal(ingested) {
		t.Errorf("expected ingested at %v, got %v", ingested, row.IngestedAt)
	}
}

func TestTransformStampsUniformIngestionTime(t *testing.T) {
	ingested := time.Date(2026, 8, 23, 6, 0, 0, 0, time.UTC)
	entries := []Entry{
		{City: "Berlin", Timestamp: ingested.Add(3 * time.Hour), TemperatureK: 290},
		{City: "Paris", Timestamp: ingested.Add(6 * time.Hour), TemperatureK: 291},
		{City: "London", Timestamp: ingested.Add(9 * time.Hour), TemperatureK: 292},
	}

	for _, row := range Transform(entries, ingested) {
		if !row.IngestedAt.Equal(ingested) {
			t.Fatalf("expected every row stamped %v, got %v", ingested, row.IngestedAt)
		}
	}
}
