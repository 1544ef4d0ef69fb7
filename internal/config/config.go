package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"weather-forecast-etl/internal/forecast"
)

// Run modes. "once" executes a single ETL pass and exits; "serve" keeps the
// process alive, running the pipeline on an interval behind a status API.
const (
	RunModeOnce  = "once"
	RunModeServe = "serve"
)

var validate = validator.New()

type AppConfig struct {
	// OpenWeatherAPIKey is the upstream credential, injected via the
	// OPENWEATHER_API_KEY environment variable. Never a CLI flag.
	OpenWeatherAPIKey string `validate:"required"`

	// Cities is the fixed, code-defined list of tracked locations.
	Cities []forecast.City `validate:"min=1"`

	// DataFilePath is the location of the persisted CSV dataset.
	DataFilePath string `validate:"required"`

	// HTTPTimeout bounds each upstream request.
	HTTPTimeout time.Duration

	RunMode string `validate:"oneof=once serve"`

	// FetchInterval controls how often the pipeline runs in serve mode.
	FetchInterval time.Duration

	// StatusMaxHistory caps the number of retained run reports in serve mode.
	StatusMaxHistory int

	Port string
}

// Load reads configuration from the environment with sensible defaults and
// validates it. A missing credential fails here, before any network call.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		Cities:            forecast.DefaultCities,
		DataFilePath:      getenvDefault("DATA_FILE_PATH", "data/weather_forecast.csv"),
		RunMode:           getenvDefault("RUN_MODE", RunModeOnce),
		StatusMaxHistory:  getenvInt("STATUS_MAX_HISTORY", 50),
		Port:              getenvDefault("PORT", "8080"),
	}

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "5s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	// Serve-mode interval: default 3 hours, the upstream forecast granularity.
	intervalStr := getenvDefault("FETCH_INTERVAL", "3h")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_INTERVAL: %w", err)
	}
	cfg.FetchInterval = interval

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
