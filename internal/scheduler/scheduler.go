package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"weather-forecast-etl/internal/etl"
	"weather-forecast-etl/internal/status"
)

// Scheduler periodically executes the ETL pipeline in serve mode and records
// the resulting run reports.
type Scheduler struct {
	scheduler *gocron.Scheduler
	pipeline  *etl.Pipeline
	reports   *status.MemoryStore
	interval  time.Duration
}

// New creates a new Scheduler.
func New(pipeline *etl.Pipeline, reports *status.MemoryStore, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		pipeline:  pipeline,
		reports:   reports,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 180
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		log.Println("scheduler: running forecast ingestion job")

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		report, err := s.pipeline.Run(ctx)
		if err != nil {
			// A fatal pipeline error in serve mode is logged and the next
			// tick retried; the dataset on disk is untouched.
			log.Printf("scheduler: pipeline run failed: %v", err)
			return
		}
		s.reports.SaveReport(*report)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
