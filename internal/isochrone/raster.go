// Package isochrone synthesizes polygon geometry from a reachability cloud
// or a scalar grid (spec §4.G) and assembles the nested isochrone stack
// (spec §4.H). Both "interchangeable modes" the spec describes — disks and
// contour — are built on top of this file's shared rasterize-and-trace
// backbone: a shared scalar raster is painted by each mode's own rule, then
// a single marching-squares pass traces its boundary. No library retrieved
// in the examples performs general polygon boolean union (not even
// paulmach/orb, whose clipping only works against an axis-aligned bound),
// so the union itself is this package's one hand-rolled piece — see
// DESIGN.md for the justification. The marching-squares shape is grounded
// on original_source/src/isochrone/contour_line.rs, which reaches for the
// `contour` crate to do exactly this.
package isochrone

import "github.com/paulmach/orb"

// Raster is a uniform scalar grid over a WGS84 bounding box used as the
// shared substrate for both polygon synthesizers.
type Raster struct {
	MinLat, MinLon float64
	MaxLat, MaxLon float64
	Rows, Cols     int
	Value          [][]float64
}

// NewRaster allocates a raster of the given resolution, with every cell
// initialized to fill.
func NewRaster(minLat, minLon, maxLat, maxLon float64, rows, cols int, fill float64) *Raster {
	r := &Raster{MinLat: minLat, MinLon: minLon, MaxLat: maxLat, MaxLon: maxLon, Rows: rows, Cols: cols}
	r.Value = make([][]float64, rows)
	for i := range r.Value {
		r.Value[i] = make([]float64, cols)
		for j := range r.Value[i] {
			r.Value[i][j] = fill
		}
	}
	return r
}

func (r *Raster) latAt(row int) float64 {
	return r.MinLat + (r.MaxLat-r.MinLat)*float64(row)/float64(r.Rows-1)
}

func (r *Raster) lonAt(col int) float64 {
	return r.MinLon + (r.MaxLon-r.MinLon)*float64(col)/float64(r.Cols-1)
}

// MarkInsideOr sets every cell whose center satisfies inside(lat, lon) to
// insideValue if insideValue is smaller than the cell's current value,
// implementing a min-reduction union: once any disk covers a cell the cell
// stays covered regardless of which disk got there first, which is exactly
// the semantics geo::BooleanOps::union gives the Rust original for a set of
// possibly-overlapping circles.
func (r *Raster) MarkInsideOr(inside func(lat, lon float64) bool, insideValue float64) {
	for row := 0; row < r.Rows; row++ {
		lat := r.latAt(row)
		for col := 0; col < r.Cols; col++ {
			lon := r.lonAt(col)
			if inside(lat, lon) && insideValue < r.Value[row][col] {
				r.Value[row][col] = insideValue
			}
		}
	}
}

// segment is one edge of the marching-squares contour, in (lon, lat) space
// to match orb.Point's (x, y) = (lon, lat) convention.
type segment struct {
	a, b orb.Point
}

// Contour traces the boundary where Value crosses threshold (inside where
// Value <= threshold) via marching squares and stitches the resulting
// segments into a single closed ring (the longest one; see stitch).
func (r *Raster) Contour(threshold float64) orb.Ring {
	var segs []segment

	for row := 0; row < r.Rows-1; row++ {
		for col := 0; col < r.Cols-1; col++ {
			segs = append(segs, marchCell(r, row, col, threshold)...)
		}
	}

	return stitch(segs)
}

// marchCell classifies the four corners of the cell at (row, col) as
// inside/outside threshold and emits the 0, 1 or 2 boundary segments the
// classic marching-squares case table prescribes, with the crossing point
// on each edge placed by linear interpolation.
func marchCell(r *Raster, row, col int, threshold float64) []segment {
	tl := r.Value[row][col]
	tr := r.Value[row][col+1]
	bl := r.Value[row+1][col]
	br := r.Value[row+1][col+1]

	tlIn := tl <= threshold
	trIn := tr <= threshold
	blIn := bl <= threshold
	brIn := br <= threshold

	code := 0
	if tlIn {
		code |= 8
	}
	if trIn {
		code |= 4
	}
	if brIn {
		code |= 2
	}
	if blIn {
		code |= 1
	}
	if code == 0 || code == 15 {
		return nil
	}

	top := lerpPoint(r, row, col, row, col+1, tl, tr, threshold, true)
	right := lerpPoint(r, row, col+1, row+1, col+1, tr, br, threshold, false)
	bottom := lerpPoint(r, row+1, col, row+1, col+1, bl, br, threshold, true)
	left := lerpPoint(r, row, col, row+1, col, tl, bl, threshold, false)

	switch code {
	case 1, 14:
		return []segment{{left, bottom}}
	case 2, 13:
		return []segment{{bottom, right}}
	case 3, 12:
		return []segment{{left, right}}
	case 4, 11:
		return []segment{{top, right}}
	case 5:
		return []segment{{left, top}, {bottom, right}}
	case 6, 9:
		return []segment{{top, bottom}}
	case 7, 8:
		return []segment{{left, top}}
	case 10:
		return []segment{{top, right}, {left, bottom}}
	}
	return nil
}

func lerpPoint(r *Raster, row1, col1, row2, col2 int, v1, v2, threshold float64, horizontal bool) orb.Point {
	t := 0.5
	if v2 != v1 {
		t = (threshold - v1) / (v2 - v1)
	}
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	lat1, lon1 := r.latAt(row1), r.lonAt(col1)
	lat2, lon2 := r.latAt(row2), r.lonAt(col2)

	lat := lat1 + (lat2-lat1)*t
	lon := lon1 + (lon2-lon1)*t
	return orb.Point{lon, lat}
}

const stitchEpsilon = 1e-9

// stitch links marching-squares segments into a single ring by repeatedly
// matching endpoints, returning the longest ring found (the outer boundary
// of the union). Interior rings are dropped here and handled instead by
// set.go's hole injection, which derives holes from adjacent time bands
// rather than from stitch() directly.
func stitch(segs []segment) orb.Ring {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var best orb.Ring

	for start := range segs {
		if used[start] {
			continue
		}
		ring := orb.Ring{segs[start].a, segs[start].b}
		used[start] = true
		cur := segs[start].b

		for {
			found := false
			for i, s := range segs {
				if used[i] {
					continue
				}
				if closeEnough(s.a, cur) {
					ring = append(ring, s.b)
					cur = s.b
					used[i] = true
					found = true
					break
				}
				if closeEnough(s.b, cur) {
					ring = append(ring, s.a)
					cur = s.a
					used[i] = true
					found = true
					break
				}
			}
			if !found {
				break
			}
			if closeEnough(cur, ring[0]) {
				break
			}
		}

		if len(ring) > len(best) {
			best = ring
		}
	}

	if len(best) > 0 && !closeEnough(best[0], best[len(best)-1]) {
		best = append(best, best[0])
	}
	return best
}

func closeEnough(a, b orb.Point) bool {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return dx*dx+dy*dy < stitchEpsilon*stitchEpsilon
}
