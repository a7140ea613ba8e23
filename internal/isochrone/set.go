package isochrone

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// DisplayMode selects which synthesizer produced an Isochrone's rings,
// grounded on original_source/src/isochrone/models.rs::DisplayMode.
type DisplayMode int

const (
	DisplayModeCircles DisplayMode = iota
	DisplayModeContourLine
)

// Isochrone is the boundary reachable within TimeLimitSeconds, with holes
// injected from the previous (smaller) time band the way
// original_source/src/isochrone/models.rs describes but leaves commented
// out — this expansion completes that nesting, since spec §4.H requires it.
type Isochrone struct {
	TimeLimitSeconds int64
	Polygon          orb.Polygon // exterior ring first, followed by any holes
}

// Area returns the isochrone's area in square meters via the planar
// shoelace formula applied after a local equirectangular projection,
// mirroring the area calculations in
// original_source/src/isochrone.rs::polygon_tests.
func (i Isochrone) Area() float64 {
	return planar.Area(projectPolygon(i.Polygon))
}

// MaxRadialDistance returns the greatest distance, in meters, from center
// to any vertex of the isochrone's exterior ring.
func (i Isochrone) MaxRadialDistance(centerLat, centerLon float64) float64 {
	if len(i.Polygon) == 0 {
		return 0
	}
	max := 0.0
	for _, pt := range i.Polygon[0] {
		d := haversineLocal(centerLat, centerLon, pt[1], pt[0])
		if d > max {
			max = d
		}
	}
	return max
}

// IsochroneMap is the full nested stack for one departure stop, grounded on
// original_source/src/isochrone/models.rs::IsochroneMap.
type IsochroneMap struct {
	Isochrones         []Isochrone // ascending by TimeLimitSeconds
	DepartureLatitude  float64
	DepartureLongitude float64
	BoundingBox        orb.Bound
}

// BuildNested takes rings ordered ascending by time limit and injects each
// smaller ring as a hole of the next larger one, per spec §4.H and the
// nesting original_source's to_polygons describes but never wires up.
func BuildNested(rings []orb.Ring, timeLimits []int64) []Isochrone {
	out := make([]Isochrone, len(rings))
	for i, ring := range rings {
		poly := orb.Polygon{ring}
		if i > 0 && len(rings[i-1]) > 0 {
			poly = append(poly, rings[i-1])
		}
		out[i] = Isochrone{TimeLimitSeconds: timeLimits[i], Polygon: poly}
	}
	return out
}

// projectPolygon converts a WGS84 polygon to a local planar approximation
// (meters) around its first vertex, since orb's planar.Area assumes
// Cartesian coordinates.
func projectPolygon(p orb.Polygon) orb.Polygon {
	if len(p) == 0 || len(p[0]) == 0 {
		return p
	}
	originLat, originLon := p[0][0][1], p[0][0][0]
	out := make(orb.Polygon, len(p))
	for i, ring := range p {
		projected := make(orb.Ring, len(ring))
		for j, pt := range ring {
			x, y := localMeters(originLat, originLon, pt[1], pt[0])
			projected[j] = orb.Point{x, y}
		}
		out[i] = projected
	}
	return out
}

func localMeters(originLat, originLon, lat, lon float64) (x, y float64) {
	const metersPerDegLat = 111320.0
	metersPerDegLon := metersPerDegLat * math.Cos(originLat*math.Pi/180.0)
	return (lon - originLon) * metersPerDegLon, (lat - originLat) * metersPerDegLat
}

func haversineLocal(lat1, lon1, lat2, lon2 float64) float64 {
	x, y := localMeters(lat1, lon1, lat2, lon2)
	return math.Sqrt(x*x + y*y)
}
