// Package engine owns the refresh cycles and the single mutable snapshot
// the HTTP API serves. All forecast math lives in the domain package; the
// engine wires feeds, state, and notifications around it.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/forecast-fusion/internal/config"
	"github.com/couchcryptid/forecast-fusion/internal/domain"
	"github.com/couchcryptid/forecast-fusion/internal/observability"
)

// ForecastSource fetches the two upstream feeds.
type ForecastSource interface {
	FetchOneCall(ctx context.Context, lat, lon float64) (domain.HighResForecast, error)
	FetchForecast(ctx context.Context, lat, lon float64) ([]domain.RawSample, error)
}

// Notifier publishes outbound notifications. A nil Notifier disables them.
type Notifier interface {
	Publish(ctx context.Context, n domain.Notification) error
}

// Snapshot is the complete read model served to consumers. Slices are
// replaced wholesale on refresh, never mutated in place, so a returned
// Snapshot stays consistent after the engine moves on.
type Snapshot struct {
	UpdatedAt int64                `json:"updated_at"`
	Place     domain.Place         `json:"place"`
	Current   domain.RawSample     `json:"current"`
	Hourly    []domain.HourlyFrame `json:"hourly"`
	Daily     []domain.DailyFrame  `json:"daily"`
	Alerts    []domain.Alert       `json:"alerts"`
	Nowcast   domain.Nowcast       `json:"nowcast"`
	Satellite string               `json:"satellite"`
}

// Engine coordinates refresh cycles against the upstream feeds and holds
// the latest snapshot.
type Engine struct {
	source   ForecastSource
	resolver domain.PlaceResolver
	notifier Notifier
	logger   *slog.Logger
	metrics  *observability.Metrics
	clock    clockwork.Clock

	lat, lon  float64
	loc       *time.Location
	satSource string
	satAuto   bool

	mu           sync.Mutex
	snapshot     Snapshot
	alertState   domain.AlertingState
	rainAlerting bool
	ready        atomic.Bool
}

// New creates an Engine. resolver and notifier may be nil; the engine then
// skips place resolution and notification publishing respectively.
func New(cfg *config.Config, source ForecastSource, resolver domain.PlaceResolver, notifier Notifier, logger *slog.Logger, metrics *observability.Metrics) *Engine {
	return &Engine{
		source:    source,
		resolver:  resolver,
		notifier:  notifier,
		logger:    logger,
		metrics:   metrics,
		clock:     clockwork.NewRealClock(),
		lat:       cfg.Latitude,
		lon:       cfg.Longitude,
		loc:       cfg.Location(),
		satSource: cfg.SatelliteSource,
		satAuto:   cfg.SatelliteAuto,
	}
}

// Snapshot returns the latest read model.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot
}

// CheckReadiness returns nil once the engine holds a complete forecast
// snapshot, or an error describing why the service is not yet ready.
func (e *Engine) CheckReadiness(_ context.Context) error {
	if !e.ready.Load() {
		return errors.New("engine has not completed a forecast refresh yet")
	}
	return nil
}

// RefreshForecast runs one full forecast cycle: both feeds, merge, daily
// synthesis, alert reconciliation, and satellite source selection.
func (e *Engine) RefreshForecast(ctx context.Context) error {
	start := e.clock.Now()

	highRes, err := e.source.FetchOneCall(ctx, e.lat, e.lon)
	if err != nil {
		e.metrics.RefreshRuns.WithLabelValues("forecast", "error").Inc()
		return fmt.Errorf("fetch high-resolution feed: %w", err)
	}

	// A coarse-feed failure degrades days 2-4 instead of failing the cycle.
	coarse, err := e.source.FetchForecast(ctx, e.lat, e.lon)
	if err != nil {
		e.logger.Warn("coarse feed unavailable, serving high-resolution data only", "error", err)
		coarse = nil
	}

	now := start.Unix()
	hourly := domain.MergeHourly(highRes.Hourly, coarse, now, e.loc)
	daily := domain.BuildDaily(highRes.Daily, coarse, now, e.loc)

	place := e.resolvePlace(ctx)
	satellite := domain.SelectSource(place.Country, e.satSource, e.satAuto)

	e.mu.Lock()
	reconciled, nextState := domain.Reconcile(highRes.Alerts, e.alertState, now)
	e.alertState = nextState

	// A slower concurrent cycle must not clobber fresher data.
	if now >= e.snapshot.UpdatedAt {
		e.snapshot.UpdatedAt = now
		e.snapshot.Place = place
		e.snapshot.Current = highRes.Current
		e.snapshot.Hourly = hourly
		e.snapshot.Daily = daily
		e.snapshot.Alerts = reconciled.Active
		e.snapshot.Satellite = satellite
	}
	e.mu.Unlock()

	if reconciled.ToPopup != nil {
		e.publishAdvisory(ctx, *reconciled.ToPopup, now)
	}

	e.ready.Store(true)
	e.metrics.EngineReady.Set(1)
	e.metrics.ActiveAlerts.Set(float64(len(reconciled.Active)))
	e.metrics.HourlyFrames.Observe(float64(len(hourly)))
	e.metrics.DailyFrames.Observe(float64(len(daily)))
	e.metrics.RefreshRuns.WithLabelValues("forecast", "success").Inc()
	e.metrics.RefreshDuration.WithLabelValues("forecast").Observe(e.clock.Since(start).Seconds())

	e.logger.Info("forecast refreshed",
		"hourly_frames", len(hourly),
		"daily_frames", len(daily),
		"active_alerts", len(reconciled.Active),
		"satellite", satellite,
	)
	return nil
}

// RefreshNowcast runs one short cycle: current conditions, minute-level
// precipitation, and alert reconciliation.
func (e *Engine) RefreshNowcast(ctx context.Context) error {
	start := e.clock.Now()

	highRes, err := e.source.FetchOneCall(ctx, e.lat, e.lon)
	if err != nil {
		e.metrics.RefreshRuns.WithLabelValues("nowcast", "error").Inc()
		return fmt.Errorf("fetch high-resolution feed: %w", err)
	}

	now := start.Unix()

	e.mu.Lock()
	nowcast := domain.DetectImminent(highRes.Minutely, now, e.rainAlerting)
	e.rainAlerting = nowcast.Imminent

	reconciled, nextState := domain.Reconcile(highRes.Alerts, e.alertState, now)
	e.alertState = nextState

	e.snapshot.Current = highRes.Current
	e.snapshot.Nowcast = nowcast
	e.snapshot.Alerts = reconciled.Active
	e.mu.Unlock()

	if nowcast.ShouldNotify {
		e.publishRain(ctx, nowcast, now)
	}
	if reconciled.ToPopup != nil {
		e.publishAdvisory(ctx, *reconciled.ToPopup, now)
	}

	if nowcast.Imminent {
		e.metrics.RainImminent.Set(1)
	} else {
		e.metrics.RainImminent.Set(0)
	}
	e.metrics.ActiveAlerts.Set(float64(len(reconciled.Active)))
	e.metrics.RefreshRuns.WithLabelValues("nowcast", "success").Inc()
	e.metrics.RefreshDuration.WithLabelValues("nowcast").Observe(e.clock.Since(start).Seconds())
	return nil
}

func (e *Engine) resolvePlace(ctx context.Context) domain.Place {
	if e.resolver == nil {
		return e.snapshotPlace()
	}
	place, err := e.resolver.ResolvePlace(ctx, e.lat, e.lon)
	if err != nil {
		e.logger.Warn("place resolution failed, keeping previous place", "error", err)
		return e.snapshotPlace()
	}
	return place
}

func (e *Engine) snapshotPlace() domain.Place {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot.Place
}

func (e *Engine) publishRain(ctx context.Context, nowcast domain.Nowcast, now int64) {
	if e.notifier == nil {
		return
	}
	var message string
	if nowcast.MinutesUntil <= 0 {
		message = fmt.Sprintf("Rain starting now (peak %.1f mm/hr)", nowcast.MaxRate)
	} else {
		message = fmt.Sprintf("Rain starting in %d minutes (peak %.1f mm/hr)", nowcast.MinutesUntil, nowcast.MaxRate)
	}
	n := domain.NewNotification(domain.NotificationRain, "Rain expected", message, now)
	if err := e.notifier.Publish(ctx, n); err != nil {
		e.logger.Error("rain notification failed", "error", err)
	}
}

func (e *Engine) publishAdvisory(ctx context.Context, alert domain.Alert, now int64) {
	if e.notifier == nil {
		return
	}
	n := domain.NewNotification(domain.NotificationAdvisory, alert.Event, alert.Description, now)
	if err := e.notifier.Publish(ctx, n); err != nil {
		e.logger.Error("advisory notification failed", "error", err)
	}
}
