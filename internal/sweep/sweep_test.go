package sweep

import (
	"context"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liammartens/isochronego/internal/isochrone"
)

func ringOfArea(side float64) orb.Ring {
	return orb.Ring{{0, 0}, {0, side}, {side, side}, {side, 0}, {0, 0}}
}

func TestComputeRemainingWorkersMatchesOriginal(t *testing.T) {
	assert.Equal(t, 0, ComputeRemainingWorkers(0, 0))
	assert.Equal(t, 1, ComputeRemainingWorkers(4, 3))
	assert.Equal(t, 1, ComputeRemainingWorkers(4, 4))
	assert.Equal(t, 1, ComputeRemainingWorkers(1, 0))
	assert.Equal(t, 6, ComputeRemainingWorkers(8, 2))
	assert.Equal(t, 10, ComputeRemainingWorkers(10, 0))
}

func TestComputeRemainingWorkersPanicsWhenUsedExceedsTotal(t *testing.T) {
	assert.Panics(t, func() {
		ComputeRemainingWorkers(4, 5)
	})
}

func TestRunOptimalPicksLargestArea(t *testing.T) {
	sizes := map[int64]float64{0: 1, 60: 3, 120: 2}

	iso, err := Run(context.Background(), 60, 60, 2, ReductionOptimal, func(_ context.Context, minute int64, _ int) (isochrone.Isochrone, error) {
		return isochrone.Isochrone{TimeLimitSeconds: minute, Polygon: orb.Polygon{ringOfArea(sizes[minute])}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(60), iso.TimeLimitSeconds)
}

func TestRunWorstPicksSmallestArea(t *testing.T) {
	sizes := map[int64]float64{0: 1, 60: 3, 120: 2}

	iso, err := Run(context.Background(), 60, 60, 2, ReductionWorst, func(_ context.Context, minute int64, _ int) (isochrone.Isochrone, error) {
		return isochrone.Isochrone{TimeLimitSeconds: minute, Polygon: orb.Polygon{ringOfArea(sizes[minute])}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), iso.TimeLimitSeconds)
}
