// Command genmock generates deterministic mock feed fixtures plus the
// expected merged output for them. It runs the actual merge and synthesis
// code so the expected fixtures always match real engine behavior.
//
// Usage:
//
//	go run ./cmd/genmock -out-dir data/mock
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/forecast-fusion/internal/domain"
)

// Fixed reference time: 2024-05-01 08:30:00 UTC. Everything downstream is
// derived from it so regenerated fixtures are byte-identical.
const baseEpoch = int64(1714552200)

const (
	highResHours  = 48
	coarseSamples = 40
	minutePoints  = 60
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "", "output directory for fixture files")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out-dir")
	}

	highRes := buildHighRes()
	coarse := buildCoarse()

	hourly := domain.MergeHourly(highRes.Hourly, coarse, baseEpoch, time.UTC)
	daily := domain.BuildDaily(highRes.Daily, coarse, baseEpoch, time.UTC)
	nowcast := domain.DetectImminent(highRes.Minutely, baseEpoch, false)

	fixtures := map[string]any{
		"highres.json": highRes,
		"coarse.json":  coarse,
		"hourly.json":  hourly,
		"daily.json":   daily,
		"nowcast.json": nowcast,
	}
	for name, v := range fixtures {
		path := filepath.Join(*outDir, name)
		if err := writeJSON(path, v); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		log.Printf("wrote %s", path)
	}

	printStats(hourly, daily, nowcast)
	return nil
}

// buildHighRes constructs the high-resolution feed: hourly samples on the
// half hour (so authentic matching is exercised off the slot boundary),
// minute-level rain starting 6 minutes out, and two daily summaries.
func buildHighRes() domain.HighResForecast {
	f := domain.HighResForecast{Timezone: "UTC"}

	for i := 0; i < highResHours; i++ {
		ts := baseEpoch + int64(i)*3600
		f.Hourly = append(f.Hourly, sampleAt(ts, float64(i)))
	}
	f.Current = f.Hourly[0]

	for i := 0; i < minutePoints; i++ {
		var rate float64
		if i >= 6 && i <= 20 {
			rate = 0.4 + 0.2*float64(i-6)
		}
		f.Minutely = append(f.Minutely, domain.MinutePoint{
			Timestamp:     baseEpoch + int64(i)*60,
			Precipitation: rate,
		})
	}

	dayStart := domain.DayStart(baseEpoch, time.UTC, 0)
	for day := 0; day < 2; day++ {
		ds := dayStart + int64(day)*86400
		f.Daily = append(f.Daily, domain.DailyFrame{
			Date:      ds,
			TempMin:   10 + float64(day),
			TempMax:   22 + float64(day),
			Temp:      16 + float64(day),
			Humidity:  60,
			Pressure:  1014,
			POP:       0.2 * float64(day),
			Weather:   weatherFor(day),
			Sunrise:   ds + 5*3600 + 1234,
			Sunset:    ds + 19*3600 + 567,
			MoonPhase: 0.25 * float64(day+1),
		})
	}

	f.Alerts = []domain.Alert{{
		Sender:      "NWS Mock Office",
		Event:       "Flood Watch",
		Start:       baseEpoch - 3600,
		End:         baseEpoch + 6*3600,
		Description: "Mock flood watch for fixture data.",
		Tags:        []string{"Flood"},
	}}

	return f
}

// buildCoarse constructs the 3-hour feed across the full 5-day window with
// a gentle diurnal temperature curve.
func buildCoarse() []domain.RawSample {
	dayStart := domain.DayStart(baseEpoch, time.UTC, 0)
	samples := make([]domain.RawSample, 0, coarseSamples)
	for i := 0; i < coarseSamples; i++ {
		ts := dayStart + int64(i)*3*3600
		hourOfDay := float64((ts / 3600) % 24)
		s := domain.RawSample{
			Timestamp: ts,
			Temp:      15 + 6*math.Sin((hourOfDay-9)*math.Pi/12),
			Humidity:  55 + 10*math.Cos(hourOfDay*math.Pi/12),
			Pressure:  1013 + float64(i%5),
			WindSpeed: 3 + float64(i%7)*0.5,
			POP:       float64(i%10) / 10,
			Weather:   weatherFor(i / 8),
		}
		samples = append(samples, s)
	}
	return samples
}

func sampleAt(ts int64, i float64) domain.RawSample {
	return domain.RawSample{
		Timestamp: ts,
		Temp:      18 + 4*math.Sin(i*math.Pi/12),
		FeelsLike: 17 + 4*math.Sin(i*math.Pi/12),
		DewPoint:  11,
		Humidity:  60,
		Pressure:  1014,
		WindSpeed: 4.2,
		Clouds:    40,
		POP:       0.1,
		Weather:   domain.WeatherDesc{Main: "Clouds", Description: "scattered clouds", Icon: "03d"},
	}
}

// weatherFor cycles descriptors per day so both hazardous and clear days
// appear in the fixtures.
func weatherFor(day int) domain.WeatherDesc {
	switch day % 3 {
	case 1:
		return domain.WeatherDesc{Main: "Rain", Description: "light rain", Icon: "10d"}
	case 2:
		return domain.WeatherDesc{Main: "Clear", Description: "clear sky", Icon: "01d"}
	default:
		return domain.WeatherDesc{Main: "Clouds", Description: "scattered clouds", Icon: "03d"}
	}
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(hourly []domain.HourlyFrame, daily []domain.DailyFrame, nowcast domain.Nowcast) {
	var authentic, derived int
	for _, f := range hourly {
		if f.Provenance == domain.ProvenanceAuthentic {
			authentic++
		} else {
			derived++
		}
	}

	var hazardDays int
	for _, d := range daily {
		if d.HasHazard {
			hazardDays++
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Hourly frames: %d (authentic=%d, derived=%d)\n", len(hourly), authentic, derived)
	fmt.Printf("Daily frames: %d (hazardous=%d)\n", len(daily), hazardDays)
	fmt.Printf("Nowcast: imminent=%v, minutes_until=%d, max_rate=%.2f\n",
		nowcast.Imminent, nowcast.MinutesUntil, nowcast.MaxRate)
}
