// Package fanout implements the multi-source reachability scan from spec
// §4.D: select the k nearest stops to each origin point, adjust the
// departure time for the initial walk, run RAPTOR from each of them in
// parallel, and merge the per-stop transit arrival times by minimum. The
// last-mile walk from each reached stop is not added here: the grid builder
// and the disks synthesizer add it when they turn the cloud into geometry.
// Grounded on original_source/src/isochrone.rs's
// compute_isochrones (one routing call per adjusted source,
// adjust_departure_at for the initial walk).
package fanout

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/liammartens/isochronego/internal/cloud"
	"github.com/liammartens/isochronego/internal/geoutil"
	"github.com/liammartens/isochronego/internal/raptor"
	"github.com/liammartens/isochronego/internal/timetable"
)

// Origin is a single walking-reachable starting point for the fan-out.
type Origin struct {
	Latitude  float64
	Longitude float64
}

// Config controls a single fan-out scan.
type Config struct {
	NumStartingPoints int
	TimeLimitSeconds  int64
	WalkingSpeedKmh   float64
	MaxTransfers      int
	Workers           int
}

// Run selects the nearest stops to origin, runs RAPTOR from each in
// parallel (bounded by cfg.Workers), and merges the results into a single
// reachability Cloud.
func Run(ctx context.Context, tt *timetable.Timetable, origin Origin, departure geoutil.WallClock, cfg Config) (*cloud.Cloud, error) {
	sources := nearestStops(tt, origin, cfg)

	result := cloud.New()
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	g.SetLimit(workers)

	for _, src := range sources {
		src := src
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			distance := geoutil.Haversine(origin.Latitude, origin.Longitude, src.stop.Latitude, src.stop.Longitude)
			walkSeconds := geoutil.DistanceToSeconds(distance, cfg.WalkingSpeedKmh)
			adjustedDeparture := departure.AddSeconds(walkSeconds)
			remainingBudget := cfg.TimeLimitSeconds - walkSeconds
			if remainingBudget <= 0 {
				return nil
			}

			res, _ := raptor.Run(tt, raptor.Input{
				Mode:               raptor.ModeDepartAt,
				FromStopID:         src.stop.ID,
				DepartureOrArrival: adjustedDeparture,
				MaxTransfers:       cfg.MaxTransfers,
				TimeBudgetSeconds:  remainingBudget,
			})

			mu.Lock()
			defer mu.Unlock()
			result.Merge(tt, departure, res.ArrivalByStop)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

type scoredStop struct {
	stop     timetable.Stop
	distance float64
}

// nearestStops returns the k transfer-eligible stops closest to origin by
// straight-line distance, the cheap proxy for walk time used before the real
// routing call per spec §4.D. Stops that aren't transfer-eligible, or whose
// straight-line walk time already exhausts the fan-out's time budget, are
// discarded before the top-k selection.
func nearestStops(tt *timetable.Timetable, origin Origin, cfg Config) []scoredStop {
	scored := make([]scoredStop, 0, len(tt.Stops))
	for _, s := range tt.Stops {
		if !s.TransferEligible {
			continue
		}
		d := geoutil.Haversine(origin.Latitude, origin.Longitude, s.Latitude, s.Longitude)
		if geoutil.DistanceToSeconds(d, cfg.WalkingSpeedKmh) >= cfg.TimeLimitSeconds {
			continue
		}
		scored = append(scored, scoredStop{stop: s, distance: d})
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].distance < scored[j].distance })
	k := cfg.NumStartingPoints
	if k > 0 && k < len(scored) {
		scored = scored[:k]
	}
	return scored
}
