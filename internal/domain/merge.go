package domain

import "time"

// MergeHourly builds one continuous hourly series spanning five local
// calendar days from the two upstream feeds. Hour slots that already elapsed
// are skipped for day 0 only; every slot of future days is considered.
//
// Matching per slot:
//   - days 0–1: a high-resolution sample within ±30 minutes of the slot is
//     used verbatim and tagged authentic;
//   - otherwise the nearest coarse sample (full linear scan) is converted
//     into the common shape and tagged derived;
//   - slots with no data in either feed are omitted. Under normal operation
//     such gaps appear only at the tail, when both feeds run out.
//
// With an empty high-resolution feed the whole window degrades to derived
// frames; with both feeds empty the result is empty, which callers treat as
// "no forecast available" rather than an error.
func MergeHourly(highRes, coarse []RawSample, nowEpoch int64, loc *time.Location) []HourlyFrame {
	var frames []HourlyFrame

	for day := 0; day < forecastDays; day++ {
		dayStart := DayStart(nowEpoch, loc, day)

		for hour := 0; hour < hoursPerDay; hour++ {
			slot := dayStart + int64(hour)*secondsPerHour

			// Skip slots whose hour has fully elapsed, today only.
			if day == 0 && slot+secondsPerHour <= nowEpoch {
				continue
			}

			if frame, ok := matchSlot(highRes, coarse, slot, day); ok {
				frames = append(frames, frame)
			}
		}
	}

	return frames
}

// matchSlot resolves one hour slot against the two feeds.
func matchSlot(highRes, coarse []RawSample, slot int64, day int) (HourlyFrame, bool) {
	if day <= 1 {
		if s, ok := nearestWithin(highRes, slot, authenticWindow); ok {
			return HourlyFrame{SlotTime: slot, Sample: s, Provenance: ProvenanceAuthentic}, true
		}
	}

	s, ok := nearestSample(coarse, slot)
	if !ok {
		return HourlyFrame{}, false
	}
	return HourlyFrame{SlotTime: slot, Sample: deriveFromCoarse(s), Provenance: ProvenanceDerived}, true
}

// deriveFromCoarse fills the fields the 3-hour feed lacks. Dew point is
// approximated from temperature and humidity, not measured.
func deriveFromCoarse(s RawSample) RawSample {
	s.DewPoint = s.Temp - (100-s.Humidity)/5
	return s
}
