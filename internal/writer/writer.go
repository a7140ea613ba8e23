// Package writer renders an IsochroneMap to the two output formats spec §6
// implies: GeoJSON for machine consumers (via github.com/paulmach/orb/geojson,
// same grounding as internal/isochrone) and SVG for quick visual inspection
// (via github.com/ajstarks/svgo, grounded on banshee-data-velocity.report's
// plotting dependency chain).
package writer

import (
	"io"
	"strconv"

	"github.com/ajstarks/svgo"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/liammartens/isochronego/internal/isochrone"
)

// GeoJSON encodes m as a GeoJSON FeatureCollection, one feature per
// isochrone layer with a "time_limit_seconds" property.
func GeoJSON(m isochrone.IsochroneMap) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, iso := range m.Isochrones {
		f := geojson.NewFeature(iso.Polygon)
		f.Properties = map[string]interface{}{
			"time_limit_seconds": iso.TimeLimitSeconds,
		}
		fc.Append(f)
	}
	return fc.MarshalJSON()
}

// SVG renders m to w as a simple filled-polygon drawing, outermost (longest
// time limit) layer first so nearer-time layers paint on top.
func SVG(w io.Writer, m isochrone.IsochroneMap, width, height int) {
	canvas := svg.New(w)
	canvas.Start(width, height)
	defer canvas.End()

	bound := m.BoundingBox
	project := func(p orb.Point) (int, int) {
		x := int((p[0] - bound.Min[0]) / (bound.Max[0] - bound.Min[0]) * float64(width))
		y := int((bound.Max[1] - p[1]) / (bound.Max[1] - bound.Min[1]) * float64(height))
		return x, y
	}

	for i := len(m.Isochrones) - 1; i >= 0; i-- {
		iso := m.Isochrones[i]
		if len(iso.Polygon) == 0 {
			continue
		}
		ring := iso.Polygon[0]
		xs := make([]int, len(ring))
		ys := make([]int, len(ring))
		for j, p := range ring {
			xs[j], ys[j] = project(p)
		}
		shade := 40 + (i * 30)
		canvas.Polygon(xs, ys, svgFill(shade))
	}

	ox, oy := project(orb.Point{m.DepartureLongitude, m.DepartureLatitude})
	canvas.Circle(ox, oy, 4, "fill:black")
}

func svgFill(shade int) string {
	if shade > 255 {
		shade = 255
	}
	return "fill-opacity:0.5;fill:rgb(30," + strconv.Itoa(shade) + ",90)"
}
