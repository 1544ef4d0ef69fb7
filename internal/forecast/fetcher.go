package forecast

import "context"

// Fetcher abstracts the upstream forecast source (e.g. OpenWeatherMap).
// Fetch issues a single best-effort request for one city and returns its
// forecast entries; callers treat a per-city error as recoverable.
type Fetcher interface {
	Fetch(ctx context.Context, city City) ([]Entry, error)
}
