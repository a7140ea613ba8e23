package isochrone

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/liammartens/isochronego/internal/cloud"
	"github.com/liammartens/isochronego/internal/geoutil"
)

// DisksConfig controls disks-mode synthesis.
type DisksConfig struct {
	TimeLimitSeconds int64
	NumPoints        int // vertex count per n-gon, defaulting to 6 (see DESIGN.md's Open Question decision)
	WalkingSpeedKmh  float64
	RasterRows       int
	RasterCols       int
}

// SynthesizeDisks builds the union of n-gon approximated walking circles
// around every reachable point, grounded on
// original_source/src/isochrone/circles.rs::get_polygons. Each point within
// the time limit contributes a circle of radius equal to the remaining
// walking budget; circles are unioned via the shared raster backbone.
func SynthesizeDisks(pts []cloud.Point, bbox orb.Bound, cfg DisksConfig) orb.Ring {
	numPoints := cfg.NumPoints
	if numPoints < 3 {
		numPoints = 6
	}

	raster := NewRaster(bbox.Min[1], bbox.Min[0], bbox.Max[1], bbox.Max[0], cfg.RasterRows, cfg.RasterCols, 2)

	for _, p := range pts {
		if p.ElapsedSeconds > cfg.TimeLimitSeconds {
			continue
		}
		remaining := cfg.TimeLimitSeconds - p.ElapsedSeconds
		radiusMeters := geoutil.SecondsToDistance(remaining, cfg.WalkingSpeedKmh)

		ring := ngon(p.Latitude, p.Longitude, radiusMeters, numPoints)
		raster.MarkInsideOr(func(lat, lon float64) bool {
			return pointInRing(orb.Point{lon, lat}, ring)
		}, 0)
	}

	return raster.Contour(1)
}

// ngon generates a regular polygon of numPoints vertices approximating a
// circle of radiusMeters around (lat, lon), following
// circles.rs::generate_lv95_circle_points but working directly in WGS84
// with a local equirectangular approximation (adequate at isochrone scale).
func ngon(lat, lon, radiusMeters float64, numPoints int) orb.Ring {
	ring := make(orb.Ring, 0, numPoints+1)
	metersPerDegLat := 111320.0
	metersPerDegLon := 111320.0 * math.Cos(lat*math.Pi/180.0)

	for i := 0; i < numPoints; i++ {
		angle := 2 * math.Pi * float64(i) / float64(numPoints)
		dLat := (radiusMeters * math.Sin(angle)) / metersPerDegLat
		dLon := (radiusMeters * math.Cos(angle)) / metersPerDegLon
		ring = append(ring, orb.Point{lon + dLon, lat + dLat})
	}
	ring = append(ring, ring[0])
	return ring
}

// pointInRing is a standard ray-casting point-in-polygon test.
func pointInRing(p orb.Point, ring orb.Ring) bool {
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := ring[i], ring[j]
		if (pi[1] > p[1]) != (pj[1] > p[1]) {
			xIntersect := (pj[0]-pi[0])*(p[1]-pi[1])/(pj[1]-pi[1]) + pi[0]
			if p[0] < xIntersect {
				inside = !inside
			}
		}
	}
	return inside
}
