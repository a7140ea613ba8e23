// Package excludedregions fetches the lake/unreachable-area multipolygon
// used to punch holes out of the final isochrone stack (spec §8's E5
// scenario), entirely outside the routing core per spec §1. Grounded on
// original_source/src/service.rs's HTTP-collaborator shape (the excluded
// polygons are loaded once and handed down, never recomputed per request).
package excludedregions

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/liammartens/isochronego/internal/ierr"
)

// Fetch downloads a GeoJSON FeatureCollection from url and returns the
// union of every polygon/multipolygon geometry found in it.
func Fetch(ctx context.Context, client *http.Client, url string) (orb.MultiPolygon, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("excludedregions: fetching %s: %w", url, ierr.ErrTransientIO)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("excludedregions: %s returned status %d: %w", url, resp.StatusCode, ierr.ErrTransientIO)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("excludedregions: reading body: %w", ierr.ErrTransientIO)
	}

	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return nil, fmt.Errorf("excludedregions: decoding geojson: %w", err)
	}

	var out orb.MultiPolygon
	for _, feature := range fc.Features {
		switch g := feature.Geometry.(type) {
		case orb.Polygon:
			out = append(out, g)
		case orb.MultiPolygon:
			out = append(out, g...)
		}
	}
	return out, nil
}

// ExcludesPoint reports whether lat/lon falls inside any polygon of regions.
func ExcludesPoint(regions orb.MultiPolygon, lat, lon float64) bool {
	pt := orb.Point{lon, lat}
	for _, poly := range regions {
		if polygonContains(poly, pt) {
			return true
		}
	}
	return false
}

func polygonContains(poly orb.Polygon, pt orb.Point) bool {
	if len(poly) == 0 || !ringContains(poly[0], pt) {
		return false
	}
	for _, hole := range poly[1:] {
		if ringContains(hole, pt) {
			return false
		}
	}
	return true
}

func ringContains(ring orb.Ring, p orb.Point) bool {
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
