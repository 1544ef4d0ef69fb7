package forecast

import (
	"time"
)

// City identifies one tracked location by name and coordinates.
// The forecast endpoint is queried by latitude/longitude.
type City struct {
	Name string
	Lat  float64
	Lon  float64
}

// DefaultCities is the fixed set of locations the pipeline ingests.
var DefaultCities = []City{
	{Name: "Berlin", Lat: 52.5200, Lon: 13.4050},
	{Name: "Paris", Lat: 48.8566, Lon: 2.3522},
	{Name: "London", Lat: 51.5074, Lon: -0.1278},
}

// Entry is one upstream prediction for one city at one future timestamp,
// as parsed from the forecast API. Temperature is in Kelvin, the API's
// default unit. Immutable once parsed.
type Entry struct {
	City         string
	Timestamp    time.Time // always UTC
	TemperatureK float64
	Humidity     float64
	Condition    string
}

// Row is the persisted tabular unit of the dataset.
// At most one Row exists per (City, ForecastTime) pair; once a slot is
// recorded its IngestedAt never changes on later runs.
type Row struct {
	City         string
	ForecastTime time.Time // always UTC
	TemperatureC float64
	Humidity     float64
	Condition    string
	IngestedAt   time.Time // always UTC, shared by all rows of one run
}
