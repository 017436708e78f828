// Command fusiond serves a continuously refreshed, normalized forecast for
// one tracked coordinate: merged hourly frames, five daily summaries, an
// imminent-rain nowcast, active advisories, and a satellite source hint.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/couchcryptid/forecast-fusion/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/forecast-fusion/internal/adapter/kafka"
	"github.com/couchcryptid/forecast-fusion/internal/adapter/openweather"
	"github.com/couchcryptid/forecast-fusion/internal/config"
	"github.com/couchcryptid/forecast-fusion/internal/domain"
	"github.com/couchcryptid/forecast-fusion/internal/engine"
	"github.com/couchcryptid/forecast-fusion/internal/observability"
)

func main() {
	// Local development convenience; the file is absent in production.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := openweather.NewClient(
		cfg.WeatherAPIKey, cfg.WeatherUnits,
		cfg.WeatherBaseURL, cfg.WeatherGeoURL,
		cfg.WeatherTimeout, logger, metrics,
	)
	var resolver domain.PlaceResolver = openweather.NewCachedResolver(client, cfg.GeocodeCacheSize, metrics)

	var notifier engine.Notifier
	var publisher *kafkaadapter.Publisher
	if cfg.NotificationsEnabled() {
		publisher = kafkaadapter.NewPublisher(cfg, logger, metrics)
		notifier = publisher
		logger.Info("notifications enabled", "topic", cfg.KafkaSinkTopic)
	} else {
		logger.Info("notifications disabled")
	}

	eng := engine.New(cfg, client, resolver, notifier, logger, metrics)
	refresher := engine.NewRefresher(eng, cfg.ForecastInterval, cfg.NowcastInterval, logger)

	srv := httpadapter.NewServer(cfg.HTTPAddr, eng, eng, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start refresh cycles.
	if err := refresher.Start(); err != nil {
		logger.Error("failed to start refresher", "error", err)
		os.Exit(1)
	}

	logger.Info("forecast fusion started",
		"lat", cfg.Latitude, "lon", cfg.Longitude,
		"forecast_interval", cfg.ForecastInterval,
		"nowcast_interval", cfg.NowcastInterval,
	)

	<-ctx.Done()
	logger.Info("shutting down")

	refresher.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
