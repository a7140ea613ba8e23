package grid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liammartens/isochronego/internal/cloud"
)

func TestBuildMarksUnreachableCellsFarFromAnyPoint(t *testing.T) {
	pts := []cloud.Point{
		{StopID: 1, Latitude: 46.95, Longitude: 7.45, ElapsedSeconds: 0},
	}

	g, err := Build(context.Background(), pts, 46.90, 7.40, 47.00, 7.50, Config{
		CellSizeMeters:     2000,
		SearchRadiusMeters: 500,
		TimeLimitSeconds:   600,
		WalkingSpeedKmh:    4.5,
		Workers:            2,
	})
	require.NoError(t, err)
	require.NotEmpty(t, g.Value)

	farCorner := g.Value[0][0]
	assert.Equal(t, unreachable(600), farCorner)
}

func TestBuildReachesNearCell(t *testing.T) {
	pts := []cloud.Point{
		{StopID: 1, Latitude: 46.95, Longitude: 7.45, ElapsedSeconds: 0},
	}

	g, err := Build(context.Background(), pts, 46.949, 7.449, 46.951, 7.451, Config{
		CellSizeMeters:     50,
		SearchRadiusMeters: 200,
		TimeLimitSeconds:   600,
		WalkingSpeedKmh:    4.5,
		Workers:            1,
	})
	require.NoError(t, err)

	found := false
	for _, row := range g.Value {
		for _, v := range row {
			if v < unreachable(600) {
				found = true
			}
		}
	}
	assert.True(t, found)
}
