package isochrone

import (
	"github.com/paulmach/orb"

	"github.com/liammartens/isochronego/internal/grid"
)

// SynthesizeContour traces the marching-squares boundary of a walking-time
// grid at the given time limit, grounded on
// original_source/src/isochrone/contour_line.rs::get_polygons (which hands
// the same kind of 0/1-at-threshold raster to the `contour` crate).
func SynthesizeContour(g *grid.Grid, timeLimitSeconds int64) orb.Ring {
	raster := &Raster{
		MinLat: g.MinLat, MinLon: g.MinLon, MaxLat: g.MaxLat, MaxLon: g.MaxLon,
		Rows: g.Rows, Cols: g.Cols, Value: g.Value,
	}
	return raster.Contour(float64(timeLimitSeconds))
}
