// Package sweep drives the per-minute scan over a +/- delta departure
// window and reduces the resulting isochrones into the optimal, worst, or
// average map, grounded on
// original_source/src/isochrone.rs::compute_optimal_isochrones /
// compute_worst_isochrones / compute_average_isochrones (map over
// NaiveDateTimeRange, reduce by area). Nested worker-budget propagation
// mirrors original_source/src/utils.rs::compute_remaining_threads exactly,
// panic included: misusing it is a programmer error, not a runtime
// condition callers should recover from.
package sweep

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/liammartens/isochronego/internal/geoutil"
	"github.com/liammartens/isochronego/internal/isochrone"
)

// Reduction selects how per-minute isochrones are aggregated, per spec §4.I.
type Reduction int

const (
	ReductionOptimal Reduction = iota
	ReductionWorst
	ReductionAverage
)

// ComputeFunc computes a single isochrone for one departure instant,
// expressed as seconds since epoch-agnostic day zero (geoutil.WallClock's
// Absolute space), given the worker budget allotted to this one minute.
type ComputeFunc func(ctx context.Context, departureAbsoluteSeconds int64, workers int) (isochrone.Isochrone, error)

// ComputeRemainingWorkers mirrors compute_remaining_threads: given a total
// worker budget and how many are already committed elsewhere, returns how
// many remain, clamped to a minimum of 1 whenever the total budget is
// nonzero, and 0 when it is zero. It panics if usedWorkers exceeds a
// nonzero numWorkers, the same misuse
// guard the original carries, since nested parallel regions that
// overcommit their budget indicate a bug in the caller, not a recoverable
// runtime state.
func ComputeRemainingWorkers(numWorkers, usedWorkers int) int {
	if usedWorkers > numWorkers && numWorkers != 0 {
		panic("sweep: usedWorkers cannot be larger than numWorkers")
	}
	remaining := numWorkers - usedWorkers
	if numWorkers == 0 {
		return 0
	}
	if remaining > 1 {
		return remaining
	}
	return 1
}

// Run sweeps every minute in [departure-deltaSeconds, departure+deltaSeconds],
// computes one isochrone per minute via compute, and reduces the results
// per reduction. The outer worker budget is split between the per-minute
// fan-out (outer) and the per-minute computation itself (inner, via
// ComputeRemainingWorkers), matching spec §5's nested-parallelism model.
func Run(ctx context.Context, departureAbsoluteSeconds, deltaSeconds int64, workers int, reduction Reduction, compute ComputeFunc) (isochrone.Isochrone, error) {
	minutes := geoutil.MinuteRange(departureAbsoluteSeconds-deltaSeconds, departureAbsoluteSeconds+deltaSeconds)
	if len(minutes) == 0 {
		return isochrone.Isochrone{}, nil
	}

	outerWorkers := workers
	if outerWorkers <= 0 {
		outerWorkers = 1
	}
	if outerWorkers > len(minutes) {
		outerWorkers = len(minutes)
	}
	innerWorkers := ComputeRemainingWorkers(workers, outerWorkers)

	results := make([]isochrone.Isochrone, len(minutes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(outerWorkers)

	for i, minuteAbs := range minutes {
		i, minuteAbs := i, minuteAbs
		g.Go(func() error {
			iso, err := compute(gctx, minuteAbs, innerWorkers)
			if err != nil {
				return err
			}
			results[i] = iso
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return isochrone.Isochrone{}, err
	}

	return reduce(results, reduction), nil
}

// reduce folds the per-minute isochrones according to reduction. Minutes
// are already in ascending order, so the first minute to reach a tied
// extreme is the one retained, resolving spec §9's tie-break Open Question
// in favor of the lowest minute (see DESIGN.md).
func reduce(results []isochrone.Isochrone, reduction Reduction) isochrone.Isochrone {
	switch reduction {
	case ReductionWorst:
		best := results[0]
		bestArea := best.Area()
		for _, r := range results[1:] {
			if a := r.Area(); a < bestArea {
				best, bestArea = r, a
			}
		}
		return best
	case ReductionAverage:
		return averageIsochrone(results)
	default: // ReductionOptimal
		best := results[0]
		bestArea := best.Area()
		for _, r := range results[1:] {
			if a := r.Area(); a > bestArea {
				best, bestArea = r, a
			}
		}
		return best
	}
}

// averageIsochrone returns the isochrone among results whose area is
// closest to the mean area, matching the original's grid-averaging path in
// spirit (a single representative polygon rather than an actual polygon
// mean, since polygon averaging is not itself a retrievable library
// operation any more than union is — see DESIGN.md).
func averageIsochrone(results []isochrone.Isochrone) isochrone.Isochrone {
	sum := 0.0
	for _, r := range results {
		sum += r.Area()
	}
	mean := sum / float64(len(results))

	best := results[0]
	bestDiff := abs(best.Area() - mean)
	for _, r := range results[1:] {
		if d := abs(r.Area() - mean); d < bestDiff {
			best, bestDiff = r, d
		}
	}
	return best
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
