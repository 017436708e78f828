package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/go-playground/validator/v10"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string `validate:"required"`
	LogLevel        string `validate:"oneof=debug info warn error"`
	LogFormat       string `validate:"oneof=json text"`
	ShutdownTimeout time.Duration

	// Tracked coordinate. One engine instance serves one location.
	Latitude  float64 `validate:"gte=-90,lte=90"`
	Longitude float64 `validate:"gte=-180,lte=180"`
	Timezone  string  `validate:"required"`

	// Upstream weather API.
	WeatherAPIKey  string        `validate:"required"`
	WeatherBaseURL string        `validate:"url"`
	WeatherGeoURL  string        `validate:"url"`
	WeatherTimeout time.Duration `validate:"gt=0"`
	WeatherUnits   string        `validate:"oneof=standard metric imperial"`

	// Refresh cadence.
	ForecastInterval time.Duration `validate:"gte=1m"`
	NowcastInterval  time.Duration `validate:"gte=10s"`

	// Kafka notification sink. Notifications are disabled when the topic
	// is empty.
	KafkaBrokers   []string
	KafkaSinkTopic string

	// Satellite imagery source selection.
	SatelliteSource string `validate:"oneof=conus mexico canada china europe"`
	SatelliteAuto   bool

	GeocodeCacheSize int `validate:"gt=0"`
}

// Load reads configuration from environment variables, applying defaults
// where unset, then validates the result.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	lat, err := parseFloat("LATITUDE", "38.8894")
	if err != nil {
		return nil, err
	}
	lon, err := parseFloat("LONGITUDE", "-77.0352")
	if err != nil {
		return nil, err
	}

	weatherTimeout, err := parseDuration("WEATHER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	forecastInterval, err := parseDuration("FORECAST_INTERVAL", "10m")
	if err != nil {
		return nil, err
	}
	nowcastInterval, err := parseDuration("NOWCAST_INTERVAL", "30s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		Latitude:  lat,
		Longitude: lon,
		Timezone:  sharedcfg.EnvOrDefault("TIMEZONE", "UTC"),

		WeatherAPIKey:  os.Getenv("WEATHER_API_KEY"),
		WeatherBaseURL: sharedcfg.EnvOrDefault("WEATHER_BASE_URL", "https://api.openweathermap.org/data/3.0"),
		WeatherGeoURL:  sharedcfg.EnvOrDefault("WEATHER_GEO_URL", "https://api.openweathermap.org/geo/1.0"),
		WeatherTimeout: weatherTimeout,
		WeatherUnits:   sharedcfg.EnvOrDefault("WEATHER_UNITS", "metric"),

		ForecastInterval: forecastInterval,
		NowcastInterval:  nowcastInterval,

		KafkaBrokers:   sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: os.Getenv("KAFKA_SINK_TOPIC"),

		SatelliteSource: sharedcfg.EnvOrDefault("SATELLITE_SOURCE", "conus"),
		SatelliteAuto:   sharedcfg.EnvOrDefault("SATELLITE_AUTO", "true") == "true",

		GeocodeCacheSize: parseGeocodeCacheSize(),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	if cfg.KafkaSinkTopic != "" && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_SINK_TOPIC is set but KAFKA_BROKERS is empty")
	}

	return cfg, nil
}

// Location resolves the configured IANA timezone. Load already validated it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// NotificationsEnabled reports whether a Kafka sink is configured.
func (c *Config) NotificationsEnabled() bool {
	return c.KafkaSinkTopic != ""
}

func parseFloat(key, fallback string) (float64, error) {
	s := sharedcfg.EnvOrDefault(key, fallback)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return f, nil
}

func parseDuration(key, fallback string) (time.Duration, error) {
	s := sharedcfg.EnvOrDefault(key, fallback)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return d, nil
}

func parseGeocodeCacheSize() int {
	if s := os.Getenv("GEOCODE_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 100
}
