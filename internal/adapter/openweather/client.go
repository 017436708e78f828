// Package openweather fetches and normalizes the two upstream forecast
// feeds plus reverse geocoding. All payload shapes are flattened into
// domain types at this boundary; nothing upstream-specific leaks past it.
package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/couchcryptid/forecast-fusion/internal/domain"
	"github.com/couchcryptid/forecast-fusion/internal/observability"
)

// Client talks to the upstream weather API. It implements
// domain.PlaceResolver for the reverse-geocoding endpoint.
type Client struct {
	apiKey     string
	units      string
	httpClient *http.Client
	baseURL    string
	geoURL     string
	logger     *slog.Logger
	metrics    *observability.Metrics

	weatherBreaker *gobreaker.CircuitBreaker
	geoBreaker     *gobreaker.CircuitBreaker
}

// NewClient creates an upstream weather API client. baseURL serves the
// forecast endpoints, geoURL the reverse geocoder; tests point both at a
// local server.
func NewClient(apiKey, units, baseURL, geoURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		apiKey:     apiKey,
		units:      units,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		geoURL:     geoURL,
		logger:     logger,
		metrics:    metrics,
		weatherBreaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "openweather-forecast",
			MaxRequests: 2,
			Interval:    time.Minute,
			Timeout:     2 * time.Minute,
		}),
		geoBreaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "openweather-geo",
			MaxRequests: 2,
			Interval:    time.Minute,
			Timeout:     2 * time.Minute,
		}),
	}
}

// FetchOneCall retrieves and normalizes the high-resolution feed.
func (c *Client) FetchOneCall(ctx context.Context, lat, lon float64) (domain.HighResForecast, error) {
	params := url.Values{
		"lat":   {formatCoord(lat)},
		"lon":   {formatCoord(lon)},
		"appid": {c.apiKey},
		"units": {c.units},
	}
	body, err := c.doRequest(ctx, c.weatherBreaker, "onecall", c.baseURL+"/onecall?"+params.Encode())
	if err != nil {
		return domain.HighResForecast{}, err
	}

	var payload oneCallPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.HighResForecast{}, fmt.Errorf("decode onecall response: %w", err)
	}
	return c.normalizeOneCall(payload), nil
}

// FetchForecast retrieves and normalizes the coarse 5-day/3-hour feed.
func (c *Client) FetchForecast(ctx context.Context, lat, lon float64) ([]domain.RawSample, error) {
	params := url.Values{
		"lat":   {formatCoord(lat)},
		"lon":   {formatCoord(lon)},
		"appid": {c.apiKey},
		"units": {c.units},
	}
	body, err := c.doRequest(ctx, c.weatherBreaker, "forecast", c.baseURL+"/forecast?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var payload forecastPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode forecast response: %w", err)
	}
	return c.normalizeForecast(payload), nil
}

// ResolvePlace reverse-geocodes the coordinate to a named place.
func (c *Client) ResolvePlace(ctx context.Context, lat, lon float64) (domain.Place, error) {
	params := url.Values{
		"lat":   {formatCoord(lat)},
		"lon":   {formatCoord(lon)},
		"appid": {c.apiKey},
		"limit": {"1"},
	}
	body, err := c.doRequest(ctx, c.geoBreaker, "reverse", c.geoURL+"/reverse?"+params.Encode())
	if err != nil {
		return domain.Place{}, err
	}

	var places []placePayload
	if err := json.Unmarshal(body, &places); err != nil {
		return domain.Place{}, fmt.Errorf("decode reverse geocode response: %w", err)
	}
	if len(places) == 0 {
		return domain.Place{}, nil
	}
	return domain.Place{
		City:    places[0].Name,
		State:   places[0].State,
		Country: places[0].Country,
	}, nil
}

func (c *Client) doRequest(ctx context.Context, cb *gobreaker.CircuitBreaker, endpoint, fullURL string) ([]byte, error) {
	start := time.Now()
	result, err := cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%s request: %w", endpoint, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return nil, fmt.Errorf("weather API error: status %d: %s", resp.StatusCode, body)
		}
		return io.ReadAll(resp.Body)
	})
	c.metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		outcome := "error"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			outcome = "open"
		}
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, outcome).Inc()
		return nil, err
	}
	c.metrics.UpstreamRequests.WithLabelValues(endpoint, "success").Inc()
	return result.([]byte), nil
}

func (c *Client) normalizeOneCall(payload oneCallPayload) domain.HighResForecast {
	out := domain.HighResForecast{
		Timezone: payload.Timezone,
		Current:  sampleFromOneCall(payload.Current),
	}

	for _, m := range payload.Minutely {
		if m.Dt <= 0 {
			c.skipMalformed("minutely")
			continue
		}
		out.Minutely = append(out.Minutely, domain.MinutePoint{
			Timestamp:     m.Dt,
			Precipitation: m.Precipitation,
		})
	}

	for _, h := range payload.Hourly {
		if h.Dt <= 0 {
			c.skipMalformed("hourly")
			continue
		}
		out.Hourly = append(out.Hourly, sampleFromOneCall(h))
	}

	for _, d := range payload.Daily {
		if d.Dt <= 0 {
			c.skipMalformed("daily")
			continue
		}
		out.Daily = append(out.Daily, domain.DailyFrame{
			Date:      d.Dt,
			TempMin:   d.Temp.Min,
			TempMax:   d.Temp.Max,
			Temp:      d.Temp.Day,
			Humidity:  d.Humidity,
			Pressure:  d.Pressure,
			POP:       d.POP,
			Weather:   firstWeather(d.Weather),
			Sunrise:   d.Sunrise,
			Sunset:    d.Sunset,
			MoonPhase: d.MoonPhase,
		})
	}

	for _, a := range payload.Alerts {
		if a.Event == "" {
			c.skipMalformed("alert")
			continue
		}
		out.Alerts = append(out.Alerts, domain.Alert{
			Sender:      a.SenderName,
			Event:       a.Event,
			Start:       a.Start,
			End:         a.End,
			Description: a.Description,
			Tags:        a.Tags,
		})
	}

	return out
}

func (c *Client) normalizeForecast(payload forecastPayload) []domain.RawSample {
	samples := make([]domain.RawSample, 0, len(payload.List))
	for _, item := range payload.List {
		if item.Dt <= 0 {
			c.skipMalformed("forecast")
			continue
		}
		samples = append(samples, domain.RawSample{
			Timestamp:  item.Dt,
			Temp:       item.Main.Temp,
			FeelsLike:  item.Main.FeelsLike,
			Humidity:   item.Main.Humidity,
			Pressure:   item.Main.Pressure,
			WindSpeed:  item.Wind.Speed,
			WindDeg:    item.Wind.Deg,
			WindGust:   item.Wind.Gust,
			Clouds:     item.Clouds.All,
			Visibility: item.Visibility,
			POP:        item.POP,
			Weather:    firstWeather(item.Weather),
		})
	}
	return samples
}

func (c *Client) skipMalformed(kind string) {
	c.metrics.MalformedSamples.Inc()
	c.logger.Warn("skipping malformed upstream record", "kind", kind)
}

func sampleFromOneCall(h oneCallSample) domain.RawSample {
	return domain.RawSample{
		Timestamp:  h.Dt,
		Temp:       h.Temp,
		FeelsLike:  h.FeelsLike,
		DewPoint:   h.DewPoint,
		Humidity:   h.Humidity,
		Pressure:   h.Pressure,
		WindSpeed:  h.WindSpeed,
		WindDeg:    h.WindDeg,
		WindGust:   h.WindGust,
		Clouds:     h.Clouds,
		Visibility: h.Visibility,
		POP:        h.POP,
		Weather:    firstWeather(h.Weather),
	}
}

func firstWeather(items []weatherPayload) domain.WeatherDesc {
	if len(items) == 0 {
		return domain.WeatherDesc{}
	}
	return domain.WeatherDesc{
		Main:        items[0].Main,
		Description: items[0].Description,
		Icon:        items[0].Icon,
	}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// Upstream API payload types.

type weatherPayload struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type oneCallSample struct {
	Dt         int64            `json:"dt"`
	Temp       float64          `json:"temp"`
	FeelsLike  float64          `json:"feels_like"`
	DewPoint   float64          `json:"dew_point"`
	Humidity   float64          `json:"humidity"`
	Pressure   float64          `json:"pressure"`
	WindSpeed  float64          `json:"wind_speed"`
	WindDeg    float64          `json:"wind_deg"`
	WindGust   float64          `json:"wind_gust"`
	Clouds     float64          `json:"clouds"`
	Visibility float64          `json:"visibility"`
	POP        float64          `json:"pop"`
	Weather    []weatherPayload `json:"weather"`
}

type oneCallPayload struct {
	Timezone string        `json:"timezone"`
	Current  oneCallSample `json:"current"`
	Minutely []struct {
		Dt            int64   `json:"dt"`
		Precipitation float64 `json:"precipitation"`
	} `json:"minutely"`
	Hourly []oneCallSample `json:"hourly"`
	Daily  []struct {
		Dt   int64 `json:"dt"`
		Temp struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
			Day float64 `json:"day"`
		} `json:"temp"`
		Humidity  float64          `json:"humidity"`
		Pressure  float64          `json:"pressure"`
		POP       float64          `json:"pop"`
		Sunrise   int64            `json:"sunrise"`
		Sunset    int64            `json:"sunset"`
		MoonPhase float64          `json:"moon_phase"`
		Weather   []weatherPayload `json:"weather"`
	} `json:"daily"`
	Alerts []struct {
		SenderName  string   `json:"sender_name"`
		Event       string   `json:"event"`
		Start       int64    `json:"start"`
		End         int64    `json:"end"`
		Description string   `json:"description"`
		Tags        []string `json:"tags"`
	} `json:"alerts"`
}

type forecastPayload struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  float64 `json:"humidity"`
			Pressure  float64 `json:"pressure"`
		} `json:"main"`
		Weather []weatherPayload `json:"weather"`
		Clouds  struct {
			All float64 `json:"all"`
		} `json:"clouds"`
		Wind struct {
			Speed float64 `json:"speed"`
			Deg   float64 `json:"deg"`
			Gust  float64 `json:"gust"`
		} `json:"wind"`
		Visibility float64 `json:"visibility"`
		POP        float64 `json:"pop"`
	} `json:"list"`
}

type placePayload struct {
	Name    string `json:"name"`
	State   string `json:"state"`
	Country string `json:"country"`
}
