package forecast

import (
	"math"
	"time"
)

// KelvinToCelsius converts an absolute temperature to Celsius, rounded to
// the nearest hundredth of a degree.
func KelvinToCelsius(k float64) float64 {
	return math.Round((k-273.15)*100) / 100
}

// Transform maps fetched entries to persistable rows. It is a pure mapping:
// one row per entry, temperature converted from Kelvin, every other field
// passed through, and ingestedAt (the run's start time) stamped on all rows.
func Transform(entries []Entry, ingestedAt time.Time) []Row {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, Row{
			City:         e.City,
			ForecastTime: e.Timestamp.UTC(),
			TemperatureC: KelvinToCelsius(e.TemperatureK),
			Humidity:     e.Humidity,
			Condition:    e.Condition,
			IngestedAt:   ingestedAt.UTC(),
		})
	}
	return rows
}
