package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "weather-forecast-etl/internal/api/http"
	"weather-forecast-etl/internal/config"
	"weather-forecast-etl/internal/etl"
	"weather-forecast-etl/internal/forecast/openweather"
	"weather-forecast-etl/internal/scheduler"
	"weather-forecast-etl/internal/status"
	"weather-forecast-etl/internal/store"
)

func main() {
	// Load configuration. A missing API credential aborts here, before any
	// network call.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound forecast calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	fetcher := openweather.NewClient(httpClient, cfg.OpenWeatherAPIKey)
	dataset := store.NewCSVStore(cfg.DataFilePath)
	pipeline := etl.New(fetcher, dataset, cfg.Cities)

	if cfg.RunMode == config.RunModeOnce {
		runOnce(pipeline, cfg)
		return
	}

	serve(pipeline, dataset, cfg)
}

// runOnce executes a single ETL pass, the default invocation surface for an
// external job runner. Exit status is zero for any completed run, including
// a partially degraded one; only fatal errors exit non-zero.
func runOnce(pipeline *etl.Pipeline, cfg *config.AppConfig) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	report, err := pipeline.Run(ctx)
	if err != nil {
		log.Fatalf("pipeline run failed: %v", err)
	}
	if report.Failed > 0 {
		log.Printf("run degraded: %d of %d cities failed", report.Failed, len(cfg.Cities))
	}
}

// serve keeps the process alive: the pipeline runs on a fixed interval and a
// small read-only status API exposes recent run reports and dataset stats.
func serve(pipeline *etl.Pipeline, dataset etl.Store, cfg *config.AppConfig) {
	reports := status.NewMemoryStore(cfg.StatusMaxHistory)

	sched := scheduler.New(pipeline, reports, cfg.FetchInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-forecast-etl",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-forecast-etl",
		})
	})

	// Status API routes.
	httpapi.RegisterRoutes(app, reports, dataset)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
