// Package domain implements the forecast-normalization and hazard-alerting
// engine: pure transformations from two differently-shaped upstream weather
// feeds into one consistent forecast model.
//
// # Upstream Feeds
//
// High-resolution feed (One Call-shaped):
//
//	Current conditions, hourly samples out to ~48 hours, minute-level
//	precipitation for the next hour, up to 8 daily summaries with authentic
//	sunrise/sunset/moon data, and government weather advisories.
//
// Coarse feed (5-day/3-hour forecast):
//
//	~40 samples in 3-hour buckets across 5 days. No minute-level data, no
//	astronomical data, no measured dew point.
//
// Both feeds are normalized into [RawSample] by the openweather adapter
// before the engine sees them.
//
// # Merge Conventions
//
// The hourly merger produces one frame per non-elapsed hour slot across five
// local calendar days. Slots matched from the high-resolution feed within
// ±30 minutes are tagged authentic; slots filled from the nearest coarse
// sample are tagged derived. Derived frames approximate dew point as
//
//	dewPoint ≈ temp − (100 − humidity) / 5
//
// Nearest matching is a plain linear scan: both feeds are tiny and the scan
// has no ordering precondition on its input.
//
// # Approximations
//
// Daily summaries beyond day 1 are synthesized from the coarse feed. Sunrise
// and sunset are fixed offsets from local midnight (06:00 and 18:00) and
// moon phase is pinned to 0.5, because the coarse feed carries no
// astronomical data and downstream consumers always expect a value. These
// values are observable output, not internal placeholders.
//
// # Hazards and Advisories
//
// A day is hazardous when any of its weather descriptors contains one of
// Rain, Snow, Sleet, Hail, Thunderstorm, Storm, or Drizzle, matched
// case-insensitively against both the main and description fields. Advisory
// significance uses a separate vocabulary of warning/watch event families;
// see [IsSignificant].
//
// # Time
//
// Every operation takes nowEpoch and, where day bucketing matters, an
// explicit *time.Location. No function in this package reads the wall clock,
// so tests are deterministic without any time mocking.
package domain
