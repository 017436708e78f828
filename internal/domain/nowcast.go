package domain

// Imminent-precipitation detection parameters.
const (
	// nowcastWindow bounds how far ahead the detector looks.
	nowcastWindow = 10 * 60 // seconds

	// precipThreshold filters trace amounts the upstream feed reports
	// even on dry minutes.
	precipThreshold = 0.1 // mm/hr
)

// DetectImminent scans the minute-level series for precipitation inside the
// next ten minutes. ShouldNotify fires on the rising edge only: imminent now
// while previouslyAlerting was false. The caller owns the previouslyAlerting
// flag and must reset it when Imminent goes false again.
//
// With no minute data the result is all-clear; callers should also drop any
// lingering imminent indication in that case.
func DetectImminent(points []MinutePoint, nowEpoch int64, previouslyAlerting bool) Nowcast {
	var result Nowcast

	firstQualifying := int64(-1)
	for _, p := range points {
		if p.Timestamp < nowEpoch || p.Timestamp > nowEpoch+nowcastWindow {
			continue
		}
		if p.Precipitation > result.MaxRate {
			result.MaxRate = p.Precipitation
		}
		if p.Precipitation > precipThreshold && (firstQualifying < 0 || p.Timestamp < firstQualifying) {
			firstQualifying = p.Timestamp
		}
	}

	if firstQualifying < 0 {
		return Nowcast{}
	}

	result.Imminent = true
	result.MinutesUntil = int((firstQualifying - nowEpoch + 30) / 60)
	result.ShouldNotify = !previouslyAlerting
	return result
}
