package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"weather-forecast-etl/internal/etl"
	"weather-forecast-etl/internal/status"
)

var validate = validator.New()

// RegisterRoutes wires the status HTTP handlers into the Fiber app.
// The API is read-only: it reports on recent pipeline runs and the
// persisted dataset, it never triggers ingestion.
func RegisterRoutes(app *fiber.App, reports *status.MemoryStore, dataset etl.Store) {
	v1 := app.Group("/api/v1")

	v1.Get("/runs/latest", func(c *fiber.Ctx) error {
		report, err := reports.Latest()
		if err != nil {
			if errors.Is(err, status.ErrNoRuns) {
				return fiber.NewError(fiber.StatusNotFound, "no pipeline runs recorded yet")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch run report")
		}
		return c.JSON(report)
	})

	v1.Get("/runs", func(c *fiber.Ctx) error {
		var req runsQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		history := reports.History()
		if req.Limit > 0 && len(history) > req.Limit {
			history = history[len(history)-req.Limit:]
		}
		return c.JSON(fiber.Map{
			"count": len(history),
			"runs":  history,
		})
	})

	v1.Get("/dataset/summary", func(c *fiber.Ctx) error {
		rows, err := dataset.Load()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read dataset")
		}

		perCity := make(map[string]int)
		var lastIngested time.Time
		for _, row := range rows {
			perCity[row.City]++
			if row.IngestedAt.After(lastIngested) {
				lastIngested = row.IngestedAt
			}
		}

		resp := fiber.Map{
			"rows":    len(rows),
			"perCity": perCity,
		}
		if !lastIngested.IsZero() {
			resp["lastIngestedAt"] = lastIngested
		}
		return c.JSON(resp)
	})
}

// runsQuery holds query parameters for the run history endpoint.
type runsQuery struct {
	Limit int `validate:"gte=0,lte=1000"`
}

func (r *runsQuery) bind(c *fiber.Ctx) error {
	limitStr := c.Query("limit")
	if limitStr == "" {
		return nil
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return errors.New("limit must be an integer")
	}
	r.Limit = limit
	return nil
}
