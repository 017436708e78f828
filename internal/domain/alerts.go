package domain

import "strings"

// popupCooldown is the global minimum spacing between popups, across all
// advisories. Several distinct significant advisories arriving at once still
// produce at most one popup per cooldown window.
const popupCooldown = 300 // seconds

// significantEvents are the high-severity event families that warrant a
// one-shot popup. Each is matched as "<family> warning" or "<family> watch",
// case-insensitively, inside the advisory's event string.
var significantEvents = []string{
	"tornado",
	"severe thunderstorm",
	"flash flood",
	"flood",
	"winter storm",
	"blizzard",
	"ice storm",
	"high wind",
	"hurricane",
	"tropical storm",
}

// Reconcile filters the advisory feed to the currently active set and
// selects at most one advisory to pop up. It returns the updated alerting
// state alongside the result; the caller replaces its state with the
// returned value unconditionally. LastPopupEpoch advances only when a popup
// was actually emitted.
//
// An advisory is popup-eligible when it is active, significant, and new,
// meaning no entry of the previous active set shares its {event, start} pair.
// Alerts have no acknowledged status; they age out once now passes their
// end time or the feed stops returning them.
func Reconcile(advisories []Alert, state AlertingState, nowEpoch int64) (ReconcileResult, AlertingState) {
	var active []Alert
	for _, a := range advisories {
		if a.Start <= nowEpoch && nowEpoch <= a.End {
			active = append(active, a)
		}
	}

	result := ReconcileResult{Active: active}

	cooldownOver := nowEpoch-state.LastPopupEpoch >= popupCooldown
	if cooldownOver {
		for i := range active {
			if !IsSignificant(active[i].Event) {
				continue
			}
			if knownAlert(state.ActiveAlerts, active[i]) {
				continue
			}
			result.ToPopup = &active[i]
			break
		}
	}

	next := AlertingState{ActiveAlerts: active, LastPopupEpoch: state.LastPopupEpoch}
	if result.ToPopup != nil {
		next.LastPopupEpoch = nowEpoch
	}
	return result, next
}

// IsSignificant reports whether an advisory event string names one of the
// high-severity warning or watch types.
func IsSignificant(event string) bool {
	e := strings.ToLower(event)
	for _, name := range significantEvents {
		if strings.Contains(e, name+" warning") || strings.Contains(e, name+" watch") {
			return true
		}
	}
	return false
}

// knownAlert reports whether the previous active set already contains an
// advisory with the same event and start time.
func knownAlert(previous []Alert, a Alert) bool {
	for _, p := range previous {
		if p.Event == a.Event && p.Start == a.Start {
			return true
		}
	}
	return false
}
