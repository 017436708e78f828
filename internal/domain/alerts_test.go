package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAdvisory(event string, start, end int64) Alert {
	return Alert{
		Sender: "NWS Test Office",
		Event:  event,
		Start:  start,
		End:    end,
	}
}

func TestReconcile(t *testing.T) {
	t.Run("filters to the active window inclusively", func(t *testing.T) {
		advisories := []Alert{
			testAdvisory("Wind Advisory", testNow-3600, testNow-1),     // expired
			testAdvisory("Heat Advisory", testNow, testNow+3600),       // starts now
			testAdvisory("Dense Fog Advisory", testNow-3600, testNow),  // ends now
			testAdvisory("Flood Watch", testNow+3600, testNow+7200),    // future
			testAdvisory("Frost Advisory", testNow-7200, testNow+7200), // mid-window
		}

		result, next := Reconcile(advisories, AlertingState{}, testNow)

		require.Len(t, result.Active, 3)
		assert.Equal(t, "Heat Advisory", result.Active[0].Event)
		assert.Equal(t, "Dense Fog Advisory", result.Active[1].Event)
		assert.Equal(t, "Frost Advisory", result.Active[2].Event)
		assert.Equal(t, result.Active, next.ActiveAlerts)
	})

	t.Run("pops up a new significant advisory", func(t *testing.T) {
		advisories := []Alert{testAdvisory("Tornado Warning", testNow-60, testNow+3600)}

		result, next := Reconcile(advisories, AlertingState{}, testNow)

		require.NotNil(t, result.ToPopup)
		assert.Equal(t, "Tornado Warning", result.ToPopup.Event)
		assert.Equal(t, testNow, next.LastPopupEpoch)
	})

	t.Run("known advisory does not pop up again", func(t *testing.T) {
		advisories := []Alert{testAdvisory("Tornado Warning", testNow-60, testNow+3600)}

		_, state := Reconcile(advisories, AlertingState{}, testNow)
		result, _ := Reconcile(advisories, state, testNow+popupCooldown)

		assert.Nil(t, result.ToPopup)
	})

	t.Run("same event with a new start time pops up again", func(t *testing.T) {
		first := []Alert{testAdvisory("Tornado Warning", testNow-60, testNow+3600)}
		_, state := Reconcile(first, AlertingState{}, testNow)

		reissued := []Alert{testAdvisory("Tornado Warning", testNow+100, testNow+7200)}
		later := testNow + popupCooldown
		result, _ := Reconcile(reissued, state, later)

		require.NotNil(t, result.ToPopup)
		assert.Equal(t, testNow+100, result.ToPopup.Start)
	})

	t.Run("cooldown suppresses the popup", func(t *testing.T) {
		first := []Alert{testAdvisory("Tornado Warning", testNow-60, testNow+3600)}
		_, state := Reconcile(first, AlertingState{}, testNow)

		both := append(first, testAdvisory("Flash Flood Warning", testNow-30, testNow+3600))
		result, next := Reconcile(both, state, testNow+popupCooldown-1)

		assert.Nil(t, result.ToPopup)
		assert.Len(t, result.Active, 2)
		// LastPopupEpoch holds until a popup actually fires.
		assert.Equal(t, testNow, next.LastPopupEpoch)
	})

	t.Run("insignificant advisories never pop up", func(t *testing.T) {
		advisories := []Alert{
			testAdvisory("Special Weather Statement", testNow-60, testNow+3600),
			testAdvisory("Dense Fog Advisory", testNow-60, testNow+3600),
		}

		result, _ := Reconcile(advisories, AlertingState{}, testNow)

		assert.Nil(t, result.ToPopup)
		assert.Len(t, result.Active, 2)
	})

	t.Run("at most one popup per pass", func(t *testing.T) {
		advisories := []Alert{
			testAdvisory("Tornado Warning", testNow-60, testNow+3600),
			testAdvisory("Flash Flood Warning", testNow-30, testNow+3600),
		}

		result, _ := Reconcile(advisories, AlertingState{}, testNow)

		require.NotNil(t, result.ToPopup)
		assert.Equal(t, "Tornado Warning", result.ToPopup.Event)
	})

	t.Run("expired advisories fall out of the carried state", func(t *testing.T) {
		advisories := []Alert{testAdvisory("Tornado Warning", testNow-60, testNow+300)}
		_, state := Reconcile(advisories, AlertingState{}, testNow)

		result, next := Reconcile(advisories, state, testNow+600)

		assert.Empty(t, result.Active)
		assert.Empty(t, next.ActiveAlerts)
	})

	t.Run("empty feed clears state", func(t *testing.T) {
		state := AlertingState{
			ActiveAlerts:   []Alert{testAdvisory("Tornado Warning", testNow-60, testNow+3600)},
			LastPopupEpoch: testNow - 1000,
		}

		result, next := Reconcile(nil, state, testNow)

		assert.Empty(t, result.Active)
		assert.Nil(t, result.ToPopup)
		assert.Empty(t, next.ActiveAlerts)
		assert.Equal(t, testNow-1000, next.LastPopupEpoch)
	})
}

func TestIsSignificant(t *testing.T) {
	cases := []struct {
		event string
		want  bool
	}{
		{"Tornado Warning", true},
		{"Tornado Watch", true},
		{"TORNADO WARNING", true},
		{"Severe Thunderstorm Warning", true},
		{"Flash Flood Warning", true},
		{"Flood Watch", true},
		{"Winter Storm Watch", true},
		{"Blizzard Warning", true},
		{"Ice Storm Warning", true},
		{"High Wind Watch", true},
		{"Hurricane Warning", true},
		{"Tropical Storm Watch", true},
		{"Tornado", false},
		{"Wind Advisory", false},
		{"Special Weather Statement", false},
		{"", false},
	}

	for _, tc := range cases {
		t.Run(tc.event, func(t *testing.T) {
			assert.Equal(t, tc.want, IsSignificant(tc.event))
		})
	}
}
