package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"weather-forecast-etl/internal/forecast"
)

var (
	errNoAPIKey         = errors.New("openweather api key is not configured")
	errUnexpectedStatus = errors.New("unexpected status code")
	errCircuitOpen      = errors.New("circuit breaker open")
)

// Client fetches 5-day/3-hour forecasts from the OpenWeatherMap forecast
// endpoint. Each Fetch is a single attempt; a circuit breaker makes the
// remaining cities of a run fail fast once the upstream looks dead, and a
// rate limiter keeps calls inside the free-tier budget.
type Client struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

// Ensure Client implements the fetcher contract.
var _ forecast.Fetcher = (*Client)(nil)

func NewClient(client *http.Client, apiKey string) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/forecast",
		client:  client,
		circuit: cb,
		// OpenWeatherMap free tier allows 60 calls/minute.
		limiter: rate.NewLimiter(rate.Limit(1), 3),
	}
}

func (c *Client) Name() string {
	return c.name
}

// Fetch requests the forecast for one city and parses the response envelope
// into entries. Temperatures are requested in the API's default unit
// (Kelvin); conversion happens downstream.
func (c *Client) Fetch(ctx context.Context, city forecast.City) ([]forecast.Entry, error) {
	if c.apiKey == "" {
		return nil, errNoAPIKey
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	values := url.Values{}
	values.Set("appid", c.apiKey)
	values.Set("lat", strconv.FormatFloat(city.Lat, 'f', 4, 64))
	values.Set("lon", strconv.FormatFloat(city.Lon, 'f', 4, 64))

	u := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	result, err := c.circuit.Execute(func() (interface{}, error) {
		resp, execErr := c.client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: %d", errUnexpectedStatus, resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return nil, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	defer resp.Body.Close()

	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp     float64 `json:"temp"`
				Humidity float64 `json:"humidity"`
			} `json:"main"`
			Weather []struct {
				Main string `json:"main"`
			} `json:"weather"`
		} `json:"list"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding forecast response for %s: %w", city.Name, err)
	}

	entries := make([]forecast.Entry, 0, len(payload.List))
	for _, item := range payload.List {
		cond := ""
		if len(item.Weather) > 0 {
			cond = item.Weather[0].Main
		}
		entries = append(entries, forecast.Entry{
			City:         city.Name,
			Timestamp:    time.Unix(item.Dt, 0).UTC(),
			TemperatureK: item.Main.Temp,
			Humidity:     item.Main.Humidity,
			Condition:    cond,
		})
	}

	return entries, nil
}
