package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-05-01 08:30:00 UTC
const testNow = int64(1714552200)

// 2024-05-01 00:00:00 UTC
const testDayStart = int64(1714521600)

func TestDayStart(t *testing.T) {
	t.Run("UTC midnight of same day", func(t *testing.T) {
		assert.Equal(t, testDayStart, DayStart(testNow, time.UTC, 0))
	})

	t.Run("day offsets", func(t *testing.T) {
		assert.Equal(t, testDayStart+86400, DayStart(testNow, time.UTC, 1))
		assert.Equal(t, testDayStart+4*86400, DayStart(testNow, time.UTC, 4))
		assert.Equal(t, testDayStart-86400, DayStart(testNow, time.UTC, -1))
	})

	t.Run("fixed-offset zone shifts midnight", func(t *testing.T) {
		cst := time.FixedZone("CST", -6*3600)
		// 08:30 UTC is 02:30 CST, so local midnight is 06:00 UTC.
		assert.Equal(t, testDayStart+6*3600, DayStart(testNow, cst, 0))
	})

	t.Run("late UTC evening crosses into next local day", func(t *testing.T) {
		east := time.FixedZone("EAST", 10*3600)
		// 2024-05-01 22:00 UTC is 2024-05-02 08:00 in UTC+10.
		epoch := testDayStart + 22*3600
		assert.Equal(t, testDayStart+14*3600, DayStart(epoch, east, 0))
	})
}

func TestSameLocalDay(t *testing.T) {
	assert.True(t, sameLocalDay(testDayStart, testDayStart+86399, time.UTC))
	assert.False(t, sameLocalDay(testDayStart, testDayStart+86400, time.UTC))

	cst := time.FixedZone("CST", -6*3600)
	// 02:00 UTC is still the previous local day in UTC-6.
	assert.False(t, sameLocalDay(testDayStart+2*3600, testDayStart+12*3600, cst))
}

func TestNearestSample(t *testing.T) {
	samples := []RawSample{
		{Timestamp: 100, Temp: 1},
		{Timestamp: 200, Temp: 2},
		{Timestamp: 300, Temp: 3},
	}

	t.Run("picks minimum absolute difference", func(t *testing.T) {
		got, ok := nearestSample(samples, 190)
		require.True(t, ok)
		assert.Equal(t, 2.0, got.Temp)
	})

	t.Run("exact tie resolves to first encountered", func(t *testing.T) {
		got, ok := nearestSample(samples, 150)
		require.True(t, ok)
		assert.Equal(t, 1.0, got.Temp)

		got, ok = nearestSample(samples, 250)
		require.True(t, ok)
		assert.Equal(t, 2.0, got.Temp)
	})

	t.Run("empty input", func(t *testing.T) {
		_, ok := nearestSample(nil, 100)
		assert.False(t, ok)
	})

	t.Run("unsorted input", func(t *testing.T) {
		shuffled := []RawSample{samples[2], samples[0], samples[1]}
		got, ok := nearestSample(shuffled, 310)
		require.True(t, ok)
		assert.Equal(t, 3.0, got.Temp)
	})
}

func TestNearestWithin(t *testing.T) {
	samples := []RawSample{{Timestamp: 1000, Temp: 7}}

	t.Run("window boundary is inclusive", func(t *testing.T) {
		got, ok := nearestWithin(samples, 1000+authenticWindow, authenticWindow)
		require.True(t, ok)
		assert.Equal(t, 7.0, got.Temp)
	})

	t.Run("outside the window", func(t *testing.T) {
		_, ok := nearestWithin(samples, 1000+authenticWindow+1, authenticWindow)
		assert.False(t, ok)
	})

	t.Run("empty input", func(t *testing.T) {
		_, ok := nearestWithin(nil, 1000, authenticWindow)
		assert.False(t, ok)
	})
}
