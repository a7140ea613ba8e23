package fanout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liammartens/isochronego/internal/geoutil"
	"github.com/liammartens/isochronego/internal/timetable"
)

type fakeSource struct {
	stops []timetable.Stop
	trips []timetable.Trip
}

func (f fakeSource) Stops() []timetable.Stop         { return f.stops }
func (f fakeSource) Trips() []timetable.Trip         { return f.trips }
func (f fakeSource) Transfers() []timetable.Transfer { return nil }

func TestRunMergesNearestSources(t *testing.T) {
	src := fakeSource{
		stops: []timetable.Stop{
			{ID: 1, Latitude: 46.0, Longitude: 7.0, TransferEligible: true},
			{ID: 2, Latitude: 46.01, Longitude: 7.0, TransferEligible: true},
		},
		trips: []timetable.Trip{
			{
				ID: 10,
				StopTimes: []timetable.StopTime{
					{StopID: 1, StopSequence: 0, DepartureTimeInSeconds: 1000, ArrivalTimeInSeconds: 1000},
					{StopID: 2, StopSequence: 1, DepartureTimeInSeconds: 1200, ArrivalTimeInSeconds: 1100},
				},
			},
		},
	}
	tt, err := timetable.Build(src, timetable.NewExchangeTimeTable(60))
	require.NoError(t, err)

	c, err := Run(context.Background(), tt, Origin{Latitude: 46.0, Longitude: 7.0}, geoutil.WallClock{Seconds: 950}, Config{
		NumStartingPoints: 2,
		TimeLimitSeconds:  3600,
		WalkingSpeedKmh:   4.5,
		MaxTransfers:      2,
		Workers:           2,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, c.Points)
}
