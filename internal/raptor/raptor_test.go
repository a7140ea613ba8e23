package raptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liammartens/isochronego/internal/geoutil"
	"github.com/liammartens/isochronego/internal/timetable"
)

type fakeSource struct {
	stops     []timetable.Stop
	trips     []timetable.Trip
	transfers []timetable.Transfer
}

func (f fakeSource) Stops() []timetable.Stop         { return f.stops }
func (f fakeSource) Trips() []timetable.Trip         { return f.trips }
func (f fakeSource) Transfers() []timetable.Transfer { return f.transfers }

// buildLineTimetable builds a three-stop, single-route, two-trip timetable
// plus one walking transfer branching off stop 2, for exercising both the
// route-scan and transfer-relaxation steps.
func buildLineTimetable(t *testing.T) *timetable.Timetable {
	t.Helper()

	mk := func(id timetable.TripID, dep0 int64) timetable.Trip {
		return timetable.Trip{
			ID: id,
			StopTimes: []timetable.StopTime{
				{StopID: 1, StopSequence: 0, DepartureTimeInSeconds: dep0, ArrivalTimeInSeconds: dep0},
				{StopID: 2, StopSequence: 1, DepartureTimeInSeconds: dep0 + 300, ArrivalTimeInSeconds: dep0 + 240},
				{StopID: 3, StopSequence: 2, DepartureTimeInSeconds: dep0 + 600, ArrivalTimeInSeconds: dep0 + 540},
			},
		}
	}

	src := fakeSource{
		stops: []timetable.Stop{
			{ID: 1, TransferEligible: true},
			{ID: 2, TransferEligible: true},
			{ID: 3, TransferEligible: true},
			{ID: 4, TransferEligible: true},
		},
		trips: []timetable.Trip{mk(100, 1000), mk(101, 2000)},
		transfers: []timetable.Transfer{
			{FromStopID: 2, ToStopID: 4, MinimumTransferTimeInSeconds: 120},
		},
	}

	tt, err := timetable.Build(src, timetable.NewExchangeTimeTable(60))
	require.NoError(t, err)
	return tt
}

func TestRunDepartAtReachesDownstreamStops(t *testing.T) {
	tt := buildLineTimetable(t)

	result, _ := Run(tt, Input{
		Mode:               ModeDepartAt,
		FromStopID:         1,
		DepartureOrArrival: geoutil.WallClock{Seconds: 950},
		MaxTransfers:       2,
	})

	arr3, ok := result.ArrivalByStop[3]
	require.True(t, ok)
	assert.Equal(t, int64(1540), arr3.Absolute())

	arr4, ok := result.ArrivalByStop[4]
	require.True(t, ok)
	assert.Equal(t, int64(1000+240+120), arr4.Absolute())
}

func TestRunDepartAtReconstructsJourney(t *testing.T) {
	tt := buildLineTimetable(t)

	_, journeys := Run(tt, Input{
		Mode:               ModeDepartAt,
		FromStopID:         1,
		ToStopIDs:          []timetable.StopID{3},
		DepartureOrArrival: geoutil.WallClock{Seconds: 950},
		MaxTransfers:       2,
	})

	j, ok := journeys[3]
	require.True(t, ok)
	require.NotEmpty(t, j.Legs)
	assert.Equal(t, timetable.StopID(1), j.Legs[0].FromStopID)
	assert.Equal(t, timetable.StopID(3), j.Legs[len(j.Legs)-1].ToStopID)
}

func TestRunUnreachableStopOmitted(t *testing.T) {
	tt := buildLineTimetable(t)

	result, _ := Run(tt, Input{
		Mode:               ModeDepartAt,
		FromStopID:         1,
		DepartureOrArrival: geoutil.WallClock{Seconds: 950},
		MaxTransfers:       0,
	})

	_, ok := result.ArrivalByStop[999]
	assert.False(t, ok)
}
