package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	stops     []Stop
	trips     []Trip
	transfers []Transfer
}

func (f fakeSource) Stops() []Stop         { return f.stops }
func (f fakeSource) Trips() []Trip         { return f.trips }
func (f fakeSource) Transfers() []Transfer { return f.transfers }

func trip(id TripID, dep0 int64) Trip {
	return Trip{
		ID:   id,
		Mode: ModeBus,
		StopTimes: []StopTime{
			{StopID: 1, StopSequence: 0, DepartureTimeInSeconds: dep0, ArrivalTimeInSeconds: dep0},
			{StopID: 2, StopSequence: 1, DepartureTimeInSeconds: dep0 + 600, ArrivalTimeInSeconds: dep0 + 500},
			{StopID: 3, StopSequence: 2, DepartureTimeInSeconds: dep0 + 1200, ArrivalTimeInSeconds: dep0 + 1100},
		},
	}
}

func TestBuildGroupsFIFOTripsIntoOneRoute(t *testing.T) {
	src := fakeSource{
		stops: []Stop{{ID: 1}, {ID: 2}, {ID: 3}},
		trips: []Trip{trip(10, 1000), trip(11, 2000)},
	}

	tt, err := Build(src, NewExchangeTimeTable(120))
	require.NoError(t, err)
	require.Len(t, tt.Routes, 1)

	var route Route
	for _, r := range tt.Routes {
		route = r
	}
	assert.ElementsMatch(t, []TripID{10, 11}, route.TripIDs)
	assert.Equal(t, []StopID{1, 2, 3}, route.StopIDs)
}

func TestBuildRejectsOvertakingTrips(t *testing.T) {
	early := trip(10, 1000)
	late := trip(11, 1100)
	// Trip 11 departs later at stop 0 but arrives earlier at stop 2: overtakes trip 10.
	late.StopTimes[2].ArrivalTimeInSeconds = early.StopTimes[2].ArrivalTimeInSeconds - 1

	src := fakeSource{
		stops: []Stop{{ID: 1}, {ID: 2}, {ID: 3}},
		trips: []Trip{early, late},
	}

	_, err := Build(src, NewExchangeTimeTable(120))
	require.Error(t, err)
}

func TestExchangeTimeTableFallbackChain(t *testing.T) {
	e := NewExchangeTimeTable(90)
	assert.Equal(t, 90, e.MinimumSeconds(1, 10, 11))

	e.SetAdminPairDefault("", "", 60)
	assert.Equal(t, 60, e.MinimumSeconds(1, 10, 11))

	e.SetStopDefault(1, 45)
	assert.Equal(t, 45, e.MinimumSeconds(1, 10, 11))

	e.SetStopAdminPair(1, "", "", 30)
	assert.Equal(t, 30, e.MinimumSeconds(1, 10, 11))

	e.SetTripPair(10, 11, 15)
	assert.Equal(t, 15, e.MinimumSeconds(1, 10, 11))

	e.MarkThroughService(10, 11)
	assert.Equal(t, 0, e.MinimumSeconds(1, 10, 11))
}
