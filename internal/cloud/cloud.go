// Package cloud aggregates RAPTOR results from every fan-out source into a
// single reachability cloud: one (coordinate, minimum elapsed time) pair per
// stop, grounded on original_source/src/isochrone.rs's
// unique_coordinates_from_routes reduction.
package cloud

import (
	"github.com/liammartens/isochronego/internal/geoutil"
	"github.com/liammartens/isochronego/internal/timetable"
)

// Point is one reachable stop: its WGS84 coordinates and the minimum
// elapsed time, in seconds, at which any source reached it.
type Point struct {
	StopID          timetable.StopID
	Latitude        float64
	Longitude       float64
	ElapsedSeconds  int64
}

// Cloud is the full reachability set produced by a fan-out, keyed by stop id
// so repeated merges stay O(1) per point.
type Cloud struct {
	Points map[timetable.StopID]Point
}

// New returns an empty Cloud.
func New() *Cloud {
	return &Cloud{Points: map[timetable.StopID]Point{}}
}

// Merge folds a single source's arrival times into the cloud, keeping the
// minimum elapsed time seen for each stop, exactly as
// unique_coordinates_from_routes folds multiple sources' routes together.
func (c *Cloud) Merge(tt *timetable.Timetable, departure geoutil.WallClock, arrivals map[timetable.StopID]geoutil.WallClock) {
	for stopID, arrival := range arrivals {
		stop, ok := tt.Stops[stopID]
		if !ok {
			continue
		}
		elapsed := arrival.Absolute() - departure.Absolute()
		if elapsed < 0 {
			continue
		}
		existing, ok := c.Points[stopID]
		if !ok || elapsed < existing.ElapsedSeconds {
			c.Points[stopID] = Point{
				StopID:         stopID,
				Latitude:       stop.Latitude,
				Longitude:      stop.Longitude,
				ElapsedSeconds: elapsed,
			}
		}
	}
}

// Filter returns every point reachable within timeLimitSeconds.
func (c *Cloud) Filter(timeLimitSeconds int64) []Point {
	out := make([]Point, 0, len(c.Points))
	for _, p := range c.Points {
		if p.ElapsedSeconds <= timeLimitSeconds {
			out = append(out, p)
		}
	}
	return out
}
