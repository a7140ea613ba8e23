package geoutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLV95RoundTrip(t *testing.T) {
	// Bern, roughly.
	easting, northing := 2600000.0, 1200000.0
	lat, lon := LV95ToWGS84(easting, northing)

	e2, n2 := WGS84ToLV95(lat, lon)

	assert.InDelta(t, easting, e2, 1.0)
	assert.InDelta(t, northing, n2, 1.0)
}

func TestHaversineZeroDistance(t *testing.T) {
	assert.InDelta(t, 0.0, Haversine(46.95, 7.45, 46.95, 7.45), 1e-9)
}

func TestHaversineKnownDistance(t *testing.T) {
	// Bern to Zurich, roughly 95km as the crow flies.
	d := Haversine(46.94809, 7.44744, 47.37689, 8.54168)
	assert.InDelta(t, 95000.0, d, 5000.0)
}

func TestWalkTimeAndDistanceAreInverses(t *testing.T) {
	d := 900.0
	seconds := WalkTime(d, WalkingSpeedKmh)
	back := WalkDistance(seconds, WalkingSpeedKmh)
	assert.InDelta(t, d, back, 1e-6)
}

func TestWallClockAddSecondsCrossesMidnight(t *testing.T) {
	w := WallClock{Seconds: 86300, DayOffset: 0}
	w2 := w.AddSeconds(200)
	assert.Equal(t, 1, w2.DayOffset)
	assert.Equal(t, int64(100), w2.Seconds)
	assert.True(t, w.Before(w2))
}

func TestGetTimePartition(t *testing.T) {
	assert.Equal(t, int64(120), GetTimePartition(125, 60, false))
	assert.Equal(t, int64(180), GetTimePartition(125, 60, true))
	assert.Equal(t, int64(120), GetTimePartition(120, 60, true))
}

func TestMinuteRange(t *testing.T) {
	r := MinuteRange(0, 180)
	assert.Equal(t, []int64{0, 60, 120, 180}, r)

	assert.Nil(t, MinuteRange(100, 0))
}
