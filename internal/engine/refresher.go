package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Refresher drives the two refresh cycles on their configured cadence.
type Refresher struct {
	scheduler        *gocron.Scheduler
	engine           *Engine
	logger           *slog.Logger
	forecastInterval time.Duration
	nowcastInterval  time.Duration
}

// NewRefresher creates a Refresher around an engine.
func NewRefresher(e *Engine, forecastInterval, nowcastInterval time.Duration, logger *slog.Logger) *Refresher {
	return &Refresher{
		scheduler:        gocron.NewScheduler(time.UTC),
		engine:           e,
		logger:           logger,
		forecastInterval: forecastInterval,
		nowcastInterval:  nowcastInterval,
	}
}

// Start schedules both cycles and starts the scheduler. The forecast job
// also runs immediately so the service becomes ready without waiting a
// full interval.
func (r *Refresher) Start() error {
	_, err := r.scheduler.Every(r.forecastInterval).StartImmediately().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.forecastInterval)
		defer cancel()
		if err := r.engine.RefreshForecast(ctx); err != nil {
			r.logger.Error("forecast refresh failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	_, err = r.scheduler.Every(r.nowcastInterval).WaitForSchedule().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.nowcastInterval)
		defer cancel()
		if err := r.engine.RefreshNowcast(ctx); err != nil {
			r.logger.Error("nowcast refresh failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	r.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (r *Refresher) Stop() {
	if r.scheduler != nil {
		r.scheduler.Stop()
	}
}
