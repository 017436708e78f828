package domain

import (
	"strings"
	"time"
)

// hazardVocabulary is the fixed set of weather descriptors that mark a day
// as hazardous. Matched case-insensitively as substrings against both the
// main and description fields.
var hazardVocabulary = []string{
	"Rain", "Snow", "Sleet", "Hail", "Thunderstorm", "Storm", "Drizzle",
}

const (
	// Sunrise/sunset approximations for days the high-resolution feed does
	// not cover. The coarse feed has no astronomical data, and downstream
	// consumers always expect a value, so these are approximate rather than
	// absent. Changing them changes observable output.
	approxSunriseOffset = 6 * secondsPerHour
	approxSunsetOffset  = 12 * secondsPerHour
	approxMoonPhase     = 0.5
)

// BuildDaily derives the five daily summaries. Days 0–1 pass through the
// high-resolution feed's own daily summaries; days 2–4 are synthesized by
// grouping the coarse feed per local calendar day.
//
// Days with no data in either feed are omitted, so the result can fall
// short of five entries only when the feeds themselves do; callers treat a
// short or empty result as degraded data, not an error.
func BuildDaily(highResDaily []DailyFrame, coarse []RawSample, nowEpoch int64, loc *time.Location) []DailyFrame {
	var days []DailyFrame

	for day := 0; day < forecastDays; day++ {
		dayStart := DayStart(nowEpoch, loc, day)

		if day <= 1 && day < len(highResDaily) {
			frame := highResDaily[day]
			frame.HasHazard = hasHazard(frame.Weather)
			days = append(days, frame)
			continue
		}

		if frame, ok := synthesizeDay(coarse, dayStart, loc); ok {
			days = append(days, frame)
		}
	}

	return days
}

// synthesizeDay aggregates the coarse samples falling on the local calendar
// day starting at dayStart. The representative weather is the first
// sample's descriptor, and the precipitation chance is the worst case seen
// across the day.
func synthesizeDay(coarse []RawSample, dayStart int64, loc *time.Location) (DailyFrame, bool) {
	var group []RawSample
	for _, s := range coarse {
		if sameLocalDay(s.Timestamp, dayStart, loc) {
			group = append(group, s)
		}
	}
	if len(group) == 0 {
		return DailyFrame{}, false
	}

	frame := DailyFrame{
		Date:      dayStart,
		TempMin:   group[0].Temp,
		TempMax:   group[0].Temp,
		Weather:   group[0].Weather,
		Sunrise:   dayStart + approxSunriseOffset,
		Sunset:    dayStart + approxSunsetOffset,
		MoonPhase: approxMoonPhase,
	}

	var tempSum, humiditySum, pressureSum float64
	for _, s := range group {
		if s.Temp < frame.TempMin {
			frame.TempMin = s.Temp
		}
		if s.Temp > frame.TempMax {
			frame.TempMax = s.Temp
		}
		if s.POP > frame.POP {
			frame.POP = s.POP
		}
		if hasHazard(s.Weather) {
			frame.HasHazard = true
		}
		tempSum += s.Temp
		humiditySum += s.Humidity
		pressureSum += s.Pressure
	}

	n := float64(len(group))
	frame.Temp = tempSum / n
	frame.Humidity = humiditySum / n
	frame.Pressure = pressureSum / n

	return frame, true
}

// hasHazard reports whether a weather descriptor matches the hazard
// vocabulary on either its main or description field.
func hasHazard(w WeatherDesc) bool {
	main := strings.ToLower(w.Main)
	desc := strings.ToLower(w.Description)
	for _, h := range hazardVocabulary {
		needle := strings.ToLower(h)
		if strings.Contains(main, needle) || strings.Contains(desc, needle) {
			return true
		}
	}
	return false
}
