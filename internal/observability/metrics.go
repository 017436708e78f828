package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// forecast fusion engine.
type Metrics struct {
	EngineReady prometheus.Gauge

	// Refresh cycle metrics.
	RefreshRuns      *prometheus.CounterVec   // labels: cycle={forecast,nowcast}, outcome={success,error}
	RefreshDuration  *prometheus.HistogramVec // labels: cycle={forecast,nowcast}
	HourlyFrames     prometheus.Histogram
	DailyFrames      prometheus.Histogram
	MalformedSamples prometheus.Counter

	// Upstream API metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: endpoint={onecall,forecast,reverse}, outcome={success,error,open}
	UpstreamDuration *prometheus.HistogramVec // labels: endpoint={onecall,forecast,reverse}
	GeocodeCache     *prometheus.CounterVec   // labels: result={hit,miss}

	// Notification metrics.
	NotificationsPublished *prometheus.CounterVec // labels: kind={rain,advisory}
	NotificationErrors     prometheus.Counter

	// Alerting metrics.
	ActiveAlerts prometheus.Gauge
	RainImminent prometheus.Gauge
}

// NewMetrics creates and registers all engine metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		EngineReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "forecast_fusion",
			Name:      "engine_ready",
			Help:      "1 when the engine holds at least one complete forecast snapshot.",
		}),
		RefreshRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "forecast_fusion",
			Name:      "refresh_runs_total",
			Help:      "Refresh cycles by cycle type and outcome.",
		}, []string{"cycle", "outcome"}),
		RefreshDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "forecast_fusion",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a complete refresh cycle, upstream fetches included.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"cycle"}),
		HourlyFrames: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "forecast_fusion",
			Name:      "hourly_frames",
			Help:      "Merged hourly frames per forecast refresh. Full coverage is 120 minus elapsed hours.",
			Buckets:   []float64{0, 24, 48, 72, 96, 100, 110, 120},
		}),
		DailyFrames: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "forecast_fusion",
			Name:      "daily_frames",
			Help:      "Daily summaries per forecast refresh. Full coverage is 5.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5},
		}),
		MalformedSamples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "forecast_fusion",
			Name:      "malformed_samples_total",
			Help:      "Upstream records skipped during normalization.",
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "forecast_fusion",
			Name:      "upstream_requests_total",
			Help:      "Upstream weather API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "forecast_fusion",
			Name:      "upstream_duration_seconds",
			Help:      "Upstream weather API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"endpoint"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "forecast_fusion",
			Name:      "geocode_cache_total",
			Help:      "Reverse-geocode cache lookups by result.",
		}, []string{"result"}),
		NotificationsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "forecast_fusion",
			Name:      "notifications_published_total",
			Help:      "Notifications written to the sink topic by kind.",
		}, []string{"kind"}),
		NotificationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "forecast_fusion",
			Name:      "notification_errors_total",
			Help:      "Failed notification publishes.",
		}),
		ActiveAlerts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "forecast_fusion",
			Name:      "active_alerts",
			Help:      "Advisories currently inside their active window.",
		}),
		RainImminent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "forecast_fusion",
			Name:      "rain_imminent",
			Help:      "1 while precipitation is expected within ten minutes.",
		}),
	}

	prometheus.MustRegister(
		m.EngineReady,
		m.RefreshRuns,
		m.RefreshDuration,
		m.HourlyFrames,
		m.DailyFrames,
		m.MalformedSamples,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.GeocodeCache,
		m.NotificationsPublished,
		m.NotificationErrors,
		m.ActiveAlerts,
		m.RainImminent,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		EngineReady:            prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "forecast_fusion", Name: "engine_ready"}),
		RefreshRuns:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "forecast_fusion", Name: "refresh_runs_total"}, []string{"cycle", "outcome"}),
		RefreshDuration:        prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "forecast_fusion", Name: "refresh_duration_seconds"}, []string{"cycle"}),
		HourlyFrames:           prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "forecast_fusion", Name: "hourly_frames"}),
		DailyFrames:            prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "forecast_fusion", Name: "daily_frames"}),
		MalformedSamples:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "forecast_fusion", Name: "malformed_samples_total"}),
		UpstreamRequests:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "forecast_fusion", Name: "upstream_requests_total"}, []string{"endpoint", "outcome"}),
		UpstreamDuration:       prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "forecast_fusion", Name: "upstream_duration_seconds"}, []string{"endpoint"}),
		GeocodeCache:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "forecast_fusion", Name: "geocode_cache_total"}, []string{"result"}),
		NotificationsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "forecast_fusion", Name: "notifications_published_total"}, []string{"kind"}),
		NotificationErrors:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "forecast_fusion", Name: "notification_errors_total"}),
		ActiveAlerts:           prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "forecast_fusion", Name: "active_alerts"}),
		RainImminent:           prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "forecast_fusion", Name: "rain_imminent"}),
	}
}
