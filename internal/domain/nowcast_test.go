package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minuteFixture returns one point per minute starting at start, all at the
// given rate.
func minuteFixture(start int64, count int, rate float64) []MinutePoint {
	points := make([]MinutePoint, 0, count)
	for i := 0; i < count; i++ {
		points = append(points, MinutePoint{Timestamp: start + int64(i)*60, Precipitation: rate})
	}
	return points
}

func TestDetectImminent(t *testing.T) {
	t.Run("rain inside the window", func(t *testing.T) {
		points := minuteFixture(testNow, 10, 0)
		points[3].Precipitation = 0.8
		points[5].Precipitation = 2.4

		result := DetectImminent(points, testNow, false)

		require.True(t, result.Imminent)
		assert.Equal(t, 3, result.MinutesUntil)
		assert.Equal(t, 2.4, result.MaxRate)
		assert.True(t, result.ShouldNotify)
	})

	t.Run("rising edge only notifies once", func(t *testing.T) {
		points := minuteFixture(testNow, 10, 1.5)

		first := DetectImminent(points, testNow, false)
		require.True(t, first.ShouldNotify)

		second := DetectImminent(points, testNow, true)
		assert.True(t, second.Imminent)
		assert.False(t, second.ShouldNotify)
	})

	t.Run("trace precipitation at the threshold is dry", func(t *testing.T) {
		points := minuteFixture(testNow, 10, precipThreshold)
		result := DetectImminent(points, testNow, false)
		assert.Equal(t, Nowcast{}, result)
	})

	t.Run("points outside the window are ignored", func(t *testing.T) {
		points := []MinutePoint{
			{Timestamp: testNow - 60, Precipitation: 5},
			{Timestamp: testNow + nowcastWindow + 60, Precipitation: 5},
		}
		result := DetectImminent(points, testNow, false)
		assert.Equal(t, Nowcast{}, result)
	})

	t.Run("window boundary is inclusive", func(t *testing.T) {
		points := []MinutePoint{{Timestamp: testNow + nowcastWindow, Precipitation: 1.0}}
		result := DetectImminent(points, testNow, false)
		require.True(t, result.Imminent)
		assert.Equal(t, 10, result.MinutesUntil)
	})

	t.Run("minutes until rounds to nearest", func(t *testing.T) {
		result := DetectImminent([]MinutePoint{{Timestamp: testNow + 150, Precipitation: 1}}, testNow, false)
		assert.Equal(t, 3, result.MinutesUntil)

		result = DetectImminent([]MinutePoint{{Timestamp: testNow + 89, Precipitation: 1}}, testNow, false)
		assert.Equal(t, 1, result.MinutesUntil)

		result = DetectImminent([]MinutePoint{{Timestamp: testNow, Precipitation: 1}}, testNow, false)
		assert.Equal(t, 0, result.MinutesUntil)
	})

	t.Run("unordered points still find the earliest", func(t *testing.T) {
		points := []MinutePoint{
			{Timestamp: testNow + 360, Precipitation: 0.9},
			{Timestamp: testNow + 120, Precipitation: 0.5},
		}
		result := DetectImminent(points, testNow, false)
		require.True(t, result.Imminent)
		assert.Equal(t, 2, result.MinutesUntil)
		assert.Equal(t, 0.9, result.MaxRate)
	})

	t.Run("no minute data is all-clear", func(t *testing.T) {
		result := DetectImminent(nil, testNow, true)
		assert.Equal(t, Nowcast{}, result)
	})
}
