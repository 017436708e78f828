package domain

import "time"

const (
	secondsPerHour = 3600
	hoursPerDay    = 24
	forecastDays   = 5

	// authenticWindow is the symmetric match window around an hour slot
	// within which a high-resolution sample is used verbatim.
	authenticWindow = 1800
)

// DayStart returns the Unix timestamp of local midnight for the calendar day
// containing epoch, shifted by dayOffset days.
func DayStart(epoch int64, loc *time.Location, dayOffset int) int64 {
	t := time.Unix(epoch, 0).In(loc)
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return midnight.AddDate(0, 0, dayOffset).Unix()
}

// sameLocalDay reports whether two timestamps fall on the same calendar day
// in the given location.
func sameLocalDay(a, b int64, loc *time.Location) bool {
	ta := time.Unix(a, 0).In(loc)
	tb := time.Unix(b, 0).In(loc)
	return ta.Year() == tb.Year() && ta.YearDay() == tb.YearDay()
}

// nearestSample scans samples for the entry with minimum absolute time
// difference to target. Ties resolve to the first-encountered sample.
// Inputs are not assumed sorted.
func nearestSample(samples []RawSample, target int64) (RawSample, bool) {
	if len(samples) == 0 {
		return RawSample{}, false
	}

	best := samples[0]
	bestDiff := absDiff(samples[0].Timestamp, target)
	for _, s := range samples[1:] {
		if d := absDiff(s.Timestamp, target); d < bestDiff {
			best = s
			bestDiff = d
		}
	}
	return best, true
}

// nearestWithin is nearestSample restricted to a symmetric window around
// target. Returns false when no sample falls inside the window.
func nearestWithin(samples []RawSample, target, window int64) (RawSample, bool) {
	best, ok := nearestSample(samples, target)
	if !ok || absDiff(best.Timestamp, target) > window {
		return RawSample{}, false
	}
	return best, true
}

func absDiff(a, b int64) int64 {
	if a > b {
		return a - b
	}
	return b - a
}
