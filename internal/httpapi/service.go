// Package httpapi serves the HTTP surface from spec §6: GET /metadata and
// GET /isochrones, plus GET /metrics for the ambient observability concern.
// Routing is github.com/go-chi/chi/v5 with github.com/go-chi/cors,
// grounded on KhalidEchchahid-transit-app and xentoshi-lake.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/paulmach/orb"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/liammartens/isochronego/internal/cache"
	"github.com/liammartens/isochronego/internal/cloud"
	"github.com/liammartens/isochronego/internal/fanout"
	"github.com/liammartens/isochronego/internal/geoutil"
	"github.com/liammartens/isochronego/internal/grid"
	"github.com/liammartens/isochronego/internal/isochrone"
	"github.com/liammartens/isochronego/internal/metrics"
	"github.com/liammartens/isochronego/internal/timetable"
)

// Service bundles everything a request handler needs: the timetable, the
// cache, metrics, and a logger, mirroring the teacher's "core takes typed
// input structs, driver glue owns the collaborators" split.
type Service struct {
	Timetable  *timetable.Timetable
	Cache      *cache.Cache
	Metrics    *metrics.Registry
	Logger     *zap.SugaredLogger
	NumThreads int
	StartDate  time.Time
	EndDate    time.Time
	Excluded   orb.MultiPolygon
}

// Router builds the chi mux for the service.
func (s *Service) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))

	r.Get("/metadata", s.handleMetadata)
	r.Get("/isochrones", s.handleIsochrones)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// ComputeCloud runs the fan-out + merge for one departure instant, the
// shared first step of every isochrone computation mode. Exported so
// cmd/isochronectl's subcommands can drive the same path the HTTP handlers
// use without duplicating the fan-out wiring.
func (s *Service) ComputeCloud(ctx context.Context, lat, lon float64, departure geoutil.WallClock, timeLimitSeconds int64, numStartingPoints int) (*cloud.Cloud, error) {
	c, err := fanout.Run(ctx, s.Timetable, fanout.Origin{Latitude: lat, Longitude: lon}, departure, fanout.Config{
		NumStartingPoints: numStartingPoints,
		TimeLimitSeconds:  timeLimitSeconds,
		WalkingSpeedKmh:   geoutil.WalkingSpeedKmh,
		MaxTransfers:      6,
		Workers:           s.NumThreads,
	})
	if err != nil {
		return nil, err
	}
	if s.Metrics != nil {
		s.Metrics.ReachedStopsLast.Set(float64(len(c.Points)))
	}
	return c, nil
}

// Synthesize builds a single Isochrone for timeLimitSeconds from c, using
// the synthesizer named by mode. Exported for the same reason as
// ComputeCloud.
func (s *Service) Synthesize(ctx context.Context, c *cloud.Cloud, lat, lon float64, timeLimitSeconds int64, mode isochrone.DisplayMode) (isochrone.Isochrone, error) {
	pts := c.Filter(timeLimitSeconds)

	minLat, minLon, maxLat, maxLon := boundingBoxAround(lat, lon, timeLimitSeconds)

	switch mode {
	case isochrone.DisplayModeContourLine:
		g, err := grid.Build(ctx, pts, minLat, minLon, maxLat, maxLon, grid.Config{
			CellSizeMeters:     50,
			SearchRadiusMeters: 1500,
			TimeLimitSeconds:   timeLimitSeconds,
			WalkingSpeedKmh:    geoutil.WalkingSpeedKmh,
			Workers:            s.NumThreads,
		})
		if err != nil {
			return isochrone.Isochrone{}, err
		}
		ring := isochrone.SynthesizeContour(g, timeLimitSeconds)
		return isochrone.Isochrone{TimeLimitSeconds: timeLimitSeconds, Polygon: orb.Polygon{ring}}, nil
	default:
		bbox := orb.Bound{Min: orb.Point{minLon, minLat}, Max: orb.Point{maxLon, maxLat}}
		ring := isochrone.SynthesizeDisks(pts, bbox, isochrone.DisksConfig{
			TimeLimitSeconds: timeLimitSeconds,
			NumPoints:        6,
			WalkingSpeedKmh:  geoutil.WalkingSpeedKmh,
			RasterRows:       200,
			RasterCols:       200,
		})
		return isochrone.Isochrone{TimeLimitSeconds: timeLimitSeconds, Polygon: orb.Polygon{ring}}, nil
	}
}

// boundingBoxAround pads a box around (lat, lon) whose half-width is three
// times the distance walkable within timeLimitSeconds at the module's
// constant speed. The box is centred on the origin and does not depend on
// where the cloud's points lie.
func boundingBoxAround(lat, lon float64, timeLimitSeconds int64) (minLat, minLon, maxLat, maxLon float64) {
	radiusMeters := geoutil.SecondsToDistance(timeLimitSeconds, geoutil.WalkingSpeedKmh) * 3
	degLat := radiusMeters / 111320.0
	degLon := radiusMeters / (111320.0 * 0.7) // conservative at mid-latitudes
	return lat - degLat, lon - degLon, lat + degLat, lon + degLon
}
