// Package grid builds the uniform scalar raster consumed by contour-mode
// isochrone synthesis: for every cell center, the minimum walking-adjusted
// arrival time among nearby reachability-cloud points, grounded on
// original_source/src/isochrone/contour_line.rs's create_grid (kd-tree
// radius query per grid point, unreachable sentinel of twice the time
// limit). tidwall/rtree stands in for the Rust kd_tree crate — an R-tree
// supports the same radius-query contract and is the ecosystem's idiomatic
// 2-D spatial index (grounded on OneBusAway-maglev's use of the same
// package for stop/shape radius queries).
package grid

import (
	"context"
	"math"

	"github.com/tidwall/rtree"
	"golang.org/x/sync/errgroup"

	"github.com/liammartens/isochronego/internal/cloud"
	"github.com/liammartens/isochronego/internal/geoutil"
)

// Grid is a uniform raster over a WGS84 bounding box. Value[row][col] holds
// the minimum elapsed seconds reachable at that cell, or unreachable(limit).
type Grid struct {
	MinLat, MinLon float64
	MaxLat, MaxLon float64
	Rows, Cols     int
	CellSizeMeters float64
	Value          [][]float64
}

// Config controls grid construction.
type Config struct {
	CellSizeMeters   float64
	SearchRadiusMeters float64
	TimeLimitSeconds int64
	WalkingSpeedKmh  float64
	Workers          int
}

// unreachable returns the value that marks a cell with no reachability-cloud point within the
// search radius: twice the time limit, matching the original's sentinel so
// the subsequent marching-squares pass at threshold time_limit always
// treats it as outside.
func unreachable(timeLimitSeconds int64) float64 {
	return float64(timeLimitSeconds) * 2
}

// Build rasterizes pts over the bounding box implied by minLat/minLon/maxLat/maxLon,
// querying an R-tree of the cloud points for each cell's nearby candidates.
func Build(ctx context.Context, pts []cloud.Point, minLat, minLon, maxLat, maxLon float64, cfg Config) (*Grid, error) {
	var tr rtree.RTreeG[cloud.Point]
	for _, p := range pts {
		tr.Insert([2]float64{p.Longitude, p.Latitude}, [2]float64{p.Longitude, p.Latitude}, p)
	}

	widthMeters := geoutil.Haversine(minLat, minLon, minLat, maxLon)
	heightMeters := geoutil.Haversine(minLat, minLon, maxLat, minLon)

	cols := int(widthMeters/cfg.CellSizeMeters) + 1
	rows := int(heightMeters/cfg.CellSizeMeters) + 1
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	g := &Grid{
		MinLat: minLat, MinLon: minLon, MaxLat: maxLat, MaxLon: maxLon,
		Rows: rows, Cols: cols, CellSizeMeters: cfg.CellSizeMeters,
		Value: make([][]float64, rows),
	}
	for r := range g.Value {
		g.Value[r] = make([]float64, cols)
	}

	latStep := (maxLat - minLat) / float64(rows)
	lonStep := (maxLon - minLon) / float64(cols)

	// Degrees-per-meter approximations for building the search box, cheap
	// and adequate at isochrone scale (a few tens of kilometers).
	latPerMeter := 1.0 / 111320.0
	lonPerMeter := 1.0 / (111320.0 * math.Cos(minLat*math.Pi/180.0))

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	g2, gctx := errgroup.WithContext(ctx)
	g2.SetLimit(workers)

	for row := 0; row < rows; row++ {
		row := row
		g2.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			lat := minLat + (float64(row)+0.5)*latStep
			for col := 0; col < cols; col++ {
				lon := minLon + (float64(col)+0.5)*lonStep

				dLat := cfg.SearchRadiusMeters * latPerMeter
				dLon := cfg.SearchRadiusMeters * lonPerMeter

				best := unreachable(cfg.TimeLimitSeconds)
				tr.Search([2]float64{lon - dLon, lat - dLat}, [2]float64{lon + dLon, lat + dLat},
					func(_, _ [2]float64, p cloud.Point) bool {
						distance := geoutil.Haversine(lat, lon, p.Latitude, p.Longitude)
						walkSeconds := geoutil.DistanceToSeconds(distance, cfg.WalkingSpeedKmh)
						total := float64(p.ElapsedSeconds + walkSeconds)
						if total < best {
							best = total
						}
						return true
					})

				g.Value[row][col] = best
			}
			return nil
		})
	}

	if err := g2.Wait(); err != nil {
		return nil, err
	}
	return g, nil
}
