// Command validate performs end-to-end integrity checks across the mock
// fixture files: feed shape, hourly merge correctness, daily synthesis, and
// nowcast behavior. It re-runs the actual engine transforms against the
// feed fixtures and compares the results with the expected output fixtures.
//
// Usage:
//
//	go run ./cmd/validate -fixture-dir data/mock
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/couchcryptid/forecast-fusion/internal/domain"
)

// Fixed reference time matching genmock: 2024-05-01 08:30:00 UTC.
const baseEpoch = int64(1714552200)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	fixtureDir := flag.String("fixture-dir", "", "directory containing fixture files from genmock")
	flag.Parse()

	if *fixtureDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*fixtureDir); code != 0 {
		os.Exit(code)
	}
}

func run(dir string) int {
	fmt.Println("=== Forecast Fusion Integrity Validation ===")
	fmt.Println()

	highRes, err := loadJSON[domain.HighResForecast](filepath.Join(dir, "highres.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load high-resolution fixture: %v\n", err)
		return 1
	}
	coarse, err := loadJSON[[]domain.RawSample](filepath.Join(dir, "coarse.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load coarse fixture: %v\n", err)
		return 1
	}
	expectedHourly, err := loadJSON[[]domain.HourlyFrame](filepath.Join(dir, "hourly.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load hourly fixture: %v\n", err)
		return 1
	}
	expectedDaily, err := loadJSON[[]domain.DailyFrame](filepath.Join(dir, "daily.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load daily fixture: %v\n", err)
		return 1
	}
	expectedNowcast, err := loadJSON[domain.Nowcast](filepath.Join(dir, "nowcast.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load nowcast fixture: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateFeedShape(highRes, coarse),
		validateHourlyMerge(highRes, coarse, expectedHourly),
		validateDailySynthesis(highRes, coarse, expectedDaily),
		validateNowcast(highRes, expectedNowcast),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadJSON[T any](path string) (T, error) {
	var v T
	data, err := os.ReadFile(path)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, err
	}
	return v, nil
}

// ── Phase 1: Feed Shape ──
// Validates structural invariants of the two feed fixtures.

func validateFeedShape(highRes domain.HighResForecast, coarse []domain.RawSample) *phase {
	p := &phase{name: "Phase 1: Feed Shape"}

	for i, s := range highRes.Hourly {
		if s.Timestamp <= 0 {
			p.errorf("hourly sample %d: non-positive timestamp %d", i, s.Timestamp)
		}
		if i > 0 && s.Timestamp != highRes.Hourly[i-1].Timestamp+3600 {
			p.errorf("hourly sample %d: expected 1-hour cadence, got gap of %ds",
				i, s.Timestamp-highRes.Hourly[i-1].Timestamp)
		}
	}

	for i, s := range coarse {
		if s.Timestamp <= 0 {
			p.errorf("coarse sample %d: non-positive timestamp %d", i, s.Timestamp)
		}
		if i > 0 && s.Timestamp != coarse[i-1].Timestamp+3*3600 {
			p.errorf("coarse sample %d: expected 3-hour cadence, got gap of %ds",
				i, s.Timestamp-coarse[i-1].Timestamp)
		}
		if s.Humidity < 0 || s.Humidity > 100 {
			p.errorf("coarse sample %d: humidity %g out of range", i, s.Humidity)
		}
	}

	for i, m := range highRes.Minutely {
		if m.Precipitation < 0 {
			p.errorf("minute point %d: negative precipitation %g", i, m.Precipitation)
		}
	}

	return p
}

// ── Phase 2: Hourly Merge ──
// Re-runs the merge and checks both the expected fixture and the merge's
// own invariants.

func validateHourlyMerge(highRes domain.HighResForecast, coarse []domain.RawSample, expected []domain.HourlyFrame) *phase {
	p := &phase{name: "Phase 2: Hourly Merge"}

	actual := domain.MergeHourly(highRes.Hourly, coarse, baseEpoch, time.UTC)
	if diff := cmp.Diff(expected, actual); diff != "" {
		p.errorf("merged output differs from fixture:\n%s", diff)
	}

	for i, f := range actual {
		if i > 0 && f.SlotTime != actual[i-1].SlotTime+3600 {
			p.errorf("frame %d: slot gap of %ds", i, f.SlotTime-actual[i-1].SlotTime)
		}
		if f.SlotTime+3600 <= baseEpoch {
			p.errorf("frame %d: elapsed hour slot %d survived the merge", i, f.SlotTime)
		}
		if f.Provenance != domain.ProvenanceAuthentic && f.Provenance != domain.ProvenanceDerived {
			p.errorf("frame %d: unknown provenance %q", i, f.Provenance)
		}
		if f.Provenance == domain.ProvenanceDerived {
			want := f.Sample.Temp - (100-f.Sample.Humidity)/5
			if !floatEq(f.Sample.DewPoint, want) {
				p.errorf("frame %d: derived dew point %g, expected %g", i, f.Sample.DewPoint, want)
			}
		}
	}

	return p
}

// ── Phase 3: Daily Synthesis ──

func validateDailySynthesis(highRes domain.HighResForecast, coarse []domain.RawSample, expected []domain.DailyFrame) *phase {
	p := &phase{name: "Phase 3: Daily Synthesis"}

	actual := domain.BuildDaily(highRes.Daily, coarse, baseEpoch, time.UTC)
	if diff := cmp.Diff(expected, actual); diff != "" {
		p.errorf("daily output differs from fixture:\n%s", diff)
	}

	if len(actual) != 5 {
		p.errorf("expected 5 daily frames, got %d", len(actual))
	}

	for i, d := range actual {
		if d.TempMin > d.TempMax {
			p.errorf("day %d: temp_min %g exceeds temp_max %g", i, d.TempMin, d.TempMax)
		}
		if i >= 2 {
			if d.Sunrise != d.Date+6*3600 {
				p.errorf("day %d: synthesized sunrise %d, expected %d", i, d.Sunrise, d.Date+6*3600)
			}
			if d.Sunset != d.Date+12*3600 {
				p.errorf("day %d: synthesized sunset %d, expected %d", i, d.Sunset, d.Date+12*3600)
			}
			if !floatEq(d.MoonPhase, 0.5) {
				p.errorf("day %d: synthesized moon phase %g, expected 0.5", i, d.MoonPhase)
			}
		}
	}

	return p
}

// ── Phase 4: Nowcast ──

func validateNowcast(highRes domain.HighResForecast, expected domain.Nowcast) *phase {
	p := &phase{name: "Phase 4: Nowcast"}

	actual := domain.DetectImminent(highRes.Minutely, baseEpoch, false)
	if diff := cmp.Diff(expected, actual); diff != "" {
		p.errorf("nowcast differs from fixture:\n%s", diff)
	}

	// Rising edge: a second pass while already alerting must not re-notify.
	repeat := domain.DetectImminent(highRes.Minutely, baseEpoch, actual.Imminent)
	if actual.Imminent && repeat.ShouldNotify {
		p.errorf("repeat detection re-notified while already alerting")
	}

	if actual.Imminent && (actual.MinutesUntil < 0 || actual.MinutesUntil > 10) {
		p.errorf("minutes_until %d outside the 10-minute window", actual.MinutesUntil)
	}

	return p
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
