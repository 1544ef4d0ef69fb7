package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"weather-forecast-etl/internal/forecast"
)

var (
	// ErrCorruptDataset is returned when an existing dataset file cannot be
	// parsed. Callers must abort the run rather than overwrite the file.
	ErrCorruptDataset = errors.New("dataset file is corrupt")
)

// header is the fixed column set of the persisted dataset.
var header = []string{"city", "forecast_timestamp", "temperature_celsius", "humidity", "condition", "ingested_at"}

// CSVStore persists the forecast dataset as a single UTF-8 CSV file with a
// header row. Writes replace the whole file via a temp file and an atomic
// rename, so a failed write never corrupts the previous dataset.
type CSVStore struct {
	path string
}

func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Path returns the location of the dataset file.
func (s *CSVStore) Path() string {
	return s.path
}

// Load reads all rows from the dataset file. A missing file is not an
// error; the first run starts from an empty dataset.
func (s *CSVStore) Load() ([]forecast.Row, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening dataset %s: %w", s.path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptDataset, s.path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	if !equalHeader(records[0]) {
		return nil, fmt.Errorf("%w: %s: unexpected header %v", ErrCorruptDataset, s.path, records[0])
	}

	rows := make([]forecast.Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: line %d: %v", ErrCorruptDataset, s.path, i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Replace atomically rewrites the dataset file with the given rows,
// creating the parent directory if needed.
func (s *CSVStore) Replace(rows []forecast.Row) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating dataset directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp dataset file: %w", err)
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	writeErr := w.Write(header)
	for _, row := range rows {
		if writeErr != nil {
			break
		}
		writeErr = w.Write(formatRow(row))
	}
	if writeErr == nil {
		w.Flush()
		writeErr = w.Error()
	}
	if closeErr := tmp.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing dataset %s: %w", s.path, writeErr)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing dataset %s: %w", s.path, err)
	}
	return nil
}

func equalHeader(rec []string) bool {
	if len(rec) != len(header) {
		return false
	}
	for i := range header {
		if rec[i] != header[i] {
			return false
		}
	}
	return true
}

func formatRow(r forecast.Row) []string {
	return []string{
		r.City,
		r.ForecastTime.UTC().Format(time.RFC3339),
		strconv.FormatFloat(r.TemperatureC, 'f', -1, 64),
		strconv.FormatFloat(r.Humidity, 'f', -1, 64),
		r.Condition,
		r.IngestedAt.UTC().Format(time.RFC3339),
	}
}

func parseRow(rec []string) (forecast.Row, error) {
	if len(rec) != len(header) {
		return forecast.Row{}, fmt.Errorf("expected %d columns, got %d", len(header), len(rec))
	}

	ft, err := time.Parse(time.RFC3339, rec[1])
	if err != nil {
		return forecast.Row{}, fmt.Errorf("invalid forecast_timestamp %q: %v", rec[1], err)
	}
	temp, err := strconv.ParseFloat(rec[2], 64)
	if err != nil {
		return forecast.Row{}, fmt.Errorf("invalid temperature_celsius %q: %v", rec[2], err)
	}
	hum, err := strconv.ParseFloat(rec[3], 64)
	if err != nil {
		return forecast.Row{}, fmt.Errorf("invalid humidity %q: %v", rec[3], err)
	}
	ing, err := time.Parse(time.RFC3339, rec[5])
	if err != nil {
		return forecast.Row{}, fmt.Errorf("invalid ingested_at %q: %v", rec[5], err)
	}

	return forecast.Row{
		City:         rec[0],
		ForecastTime: ft.UTC(),
		TemperatureC: temp,
		Humidity:     hum,
		Condition:    rec[4],
		IngestedAt:   ing.UTC(),
	}, nil
}
