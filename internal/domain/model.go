package domain

import "github.com/google/uuid"

// WeatherDesc is the upstream weather descriptor carried on every sample.
type WeatherDesc struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// RawSample is one normalized upstream data point. Both upstream feeds use
// different field layouts; the openweather adapter flattens them into this
// shape before the merger sees them.
type RawSample struct {
	Timestamp  int64       `json:"dt"` // Unix seconds, UTC
	Temp       float64     `json:"temp"`
	FeelsLike  float64     `json:"feels_like"`
	DewPoint   float64     `json:"dew_point"`
	Humidity   float64     `json:"humidity"`
	Pressure   float64     `json:"pressure"`
	WindSpeed  float64     `json:"wind_speed"`
	WindDeg    float64     `json:"wind_deg"`
	WindGust   float64     `json:"wind_gust"`
	Clouds     float64     `json:"clouds"`
	Visibility float64     `json:"visibility"`
	POP        float64     `json:"pop"` // probability of precipitation, 0..1
	Weather    WeatherDesc `json:"weather"`
}

// Provenance tags where a merged hourly frame came from.
type Provenance string

const (
	// ProvenanceAuthentic marks frames taken directly from the
	// high-resolution feed within ±30 minutes of the slot.
	ProvenanceAuthentic Provenance = "authentic"
	// ProvenanceDerived marks frames nearest-matched from the coarse
	// 3-hour feed and converted into the common shape.
	ProvenanceDerived Provenance = "derived"
)

// HourlyFrame is a RawSample aligned to a whole hour slot of the 5-day
// output window. SlotTime is always the hour boundary; Sample.Timestamp
// keeps the matched record's own time.
type HourlyFrame struct {
	SlotTime   int64      `json:"slot_dt"`
	Sample     RawSample  `json:"sample"`
	Provenance Provenance `json:"provenance"`
}

// DailyFrame summarizes one calendar day. For days beyond the
// high-resolution horizon, sunrise/sunset/moon phase are approximated, not
// absent: downstream consumers always expect a value.
type DailyFrame struct {
	Date      int64       `json:"dt"` // local day start, Unix seconds
	TempMin   float64     `json:"temp_min"`
	TempMax   float64     `json:"temp_max"`
	Temp      float64     `json:"temp"`
	Humidity  float64     `json:"humidity"`
	Pressure  float64     `json:"pressure"`
	POP       float64     `json:"pop"`
	Weather   WeatherDesc `json:"weather"`
	Sunrise   int64       `json:"sunrise"`
	Sunset    int64       `json:"sunset"`
	MoonPhase float64     `json:"moon_phase"`
	HasHazard bool        `json:"has_hazard"`
}

// MinutePoint is one minute of the short-horizon precipitation nowcast.
type MinutePoint struct {
	Timestamp     int64   `json:"dt"`
	Precipitation float64 `json:"precipitation"` // mm/hr
}

// Nowcast is the imminent-precipitation signal for the next ten minutes.
type Nowcast struct {
	Imminent     bool    `json:"imminent"`
	MinutesUntil int     `json:"minutes_until"`
	MaxRate      float64 `json:"max_rate"` // peak mm/hr inside the window
	ShouldNotify bool    `json:"should_notify"`
}

// Alert is one hazard advisory from the upstream feed.
type Alert struct {
	Sender      string   `json:"sender_name"`
	Event       string   `json:"event"`
	Start       int64    `json:"start"`
	End         int64    `json:"end"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
}

// HighResForecast is the normalized high-resolution feed: everything the
// detailed upstream endpoint returns in one round trip.
type HighResForecast struct {
	Timezone string        `json:"timezone"`
	Current  RawSample     `json:"current"`
	Minutely []MinutePoint `json:"minutely"`
	Hourly   []RawSample   `json:"hourly"`
	Daily    []DailyFrame  `json:"daily"`
	Alerts   []Alert       `json:"alerts"`
}

// Notification kinds.
const (
	NotificationRain     = "rain"
	NotificationAdvisory = "advisory"
)

// Notification is one outbound push message: imminent rain or a newly
// issued significant advisory.
type Notification struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Epoch   int64  `json:"epoch"`
}

// NewNotification creates a notification with a fresh random ID.
func NewNotification(kind, title, message string, epoch int64) Notification {
	return Notification{
		ID:      uuid.NewString(),
		Kind:    kind,
		Title:   title,
		Message: message,
		Epoch:   epoch,
	}
}

// AlertingState is the only state the engine carries between calls. It is
// owned by exactly one engine instance; consumers read snapshots only.
type AlertingState struct {
	ActiveAlerts   []Alert `json:"active_alerts"`
	LastPopupEpoch int64   `json:"last_popup_epoch"`
}

// ReconcileResult is the outcome of one alert-lifecycle pass.
type ReconcileResult struct {
	Active  []Alert `json:"active"`
	ToPopup *Alert  `json:"to_popup,omitempty"`
}
