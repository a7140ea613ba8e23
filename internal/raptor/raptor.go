// Package raptor implements the round-based earliest-arrival search from
// spec §4.C. The Depart-At/Arrive-By split is grounded on the teacher's
// mod.go/raptor_models.go, but the search runs directly on the concrete
// internal/timetable types rather than on generic getter interfaces; the
// round mechanics — route collection keyed by marked stops, a stop-position
// linear scan down each route, a "catch an earlier trip" scan (forward over
// the time-ordered trips, taking the first catchable one), then transfer
// relaxation — follow original_source/src/routing.rs's classic indexed plan_journey,
// which is what spec §4.C describes step by step. Unlike the Rust original
// this package carries an explicit day offset on every label so a trip
// that rolls past midnight compares correctly (spec §9's Open Question,
// resolved in the prescribed direction; see DESIGN.md).
package raptor

import (
	"github.com/liammartens/isochronego/internal/geoutil"
	"github.com/liammartens/isochronego/internal/timetable"
)

// Mode selects the search direction, mirroring the teacher's RaptorMode.
type Mode int

const (
	ModeDepartAt Mode = iota
	ModeArriveBy
)

// Input configures a single RAPTOR search.
type Input struct {
	Mode               Mode
	FromStopID         timetable.StopID
	ToStopIDs          []timetable.StopID // empty means "one-to-many": compute every reachable stop
	DepartureOrArrival geoutil.WallClock
	MaxTransfers       int
	TimeBudgetSeconds  int64 // horizon for one-to-many mode; 0 means unbounded
}

// Leg is one boarded trip or walking transfer within a Journey.
type Leg struct {
	FromStopID timetable.StopID
	ToStopID   timetable.StopID
	TripID     timetable.TripID // zero value with IsTransfer true means a walking leg
	IsTransfer bool
	Depart     geoutil.WallClock
	Arrive     geoutil.WallClock
}

// Journey is a complete itinerary from FromStopID to ToStopID.
type Journey struct {
	FromStopID timetable.StopID
	ToStopID   timetable.StopID
	Depart     geoutil.WallClock
	Arrive     geoutil.WallClock
	Legs       []Leg
}

// Result is the outcome of a one-to-many search: the earliest arrival at
// every stop reached within the input's budget, keyed by stop id.
type Result struct {
	ArrivalByStop map[timetable.StopID]geoutil.WallClock
}

type label struct {
	arrive geoutil.WallClock
	tripID timetable.TripID // zero means the label was reached by transfer or is the origin
	valid  bool
}

type boardRecord struct {
	fromStopID timetable.StopID
	tripID     timetable.TripID
	board      geoutil.WallClock
}

// Run executes the search described by in against tt.
func Run(tt *timetable.Timetable, in Input) (Result, map[timetable.StopID]*Journey) {
	rounds := in.MaxTransfers + 1
	if rounds < 1 {
		rounds = 1
	}

	best := map[timetable.StopID]label{}
	perRound := make([]map[timetable.StopID]label, rounds+1)
	cameFrom := make([]map[timetable.StopID]boardRecord, rounds+1)
	for k := range perRound {
		perRound[k] = map[timetable.StopID]label{}
		cameFrom[k] = map[timetable.StopID]boardRecord{}
	}

	perRound[0][in.FromStopID] = label{arrive: in.DepartureOrArrival, valid: true}
	best[in.FromStopID] = label{arrive: in.DepartureOrArrival, valid: true}

	marked := map[timetable.StopID]bool{in.FromStopID: true}

	for k := 1; k <= rounds; k++ {
		if len(marked) == 0 {
			break
		}

		routes := collectRoutes(tt, marked, in.Mode)
		newlyMarked := map[timetable.StopID]bool{}

		for routeID, startPos := range routes {
			route := tt.Routes[routeID]
			scanRoute(tt, route, startPos, k, in, perRound, cameFrom, best, newlyMarked)
		}

		scanTransfers(tt, k, in, perRound, cameFrom, best, newlyMarked)

		marked = newlyMarked
	}

	result := Result{ArrivalByStop: map[timetable.StopID]geoutil.WallClock{}}
	for stopID, l := range best {
		if l.valid {
			result.ArrivalByStop[stopID] = l.arrive
		}
	}

	if len(in.ToStopIDs) == 0 {
		return result, nil
	}

	journeys := map[timetable.StopID]*Journey{}
	for _, to := range in.ToStopIDs {
		if l, ok := best[to]; ok && l.valid {
			journeys[to] = reconstruct(tt, in, to, perRound, cameFrom)
		}
	}
	return result, journeys
}

// collectRoutes returns, for each route touched by a marked stop, the
// earliest (in travel direction) local position within that route at which
// a marked stop occurs — the "k_routes" collection of the classic RAPTOR
// round, grounded on original_source's get_round_k_routes.
func collectRoutes(tt *timetable.Timetable, marked map[timetable.StopID]bool, mode Mode) map[timetable.RouteID]int {
	out := map[timetable.RouteID]int{}
	for stopID := range marked {
		for _, routeID := range tt.RoutesByStop[stopID] {
			route := tt.Routes[routeID]
			pos := stopPosition(route, stopID)
			if pos < 0 {
				continue
			}
			if mode == ModeArriveBy {
				pos = len(route.StopIDs) - 1 - pos
			}
			if existing, ok := out[routeID]; !ok || pos < existing {
				out[routeID] = pos
			}
		}
	}
	return out
}

func stopPosition(route timetable.Route, stopID timetable.StopID) int {
	for i, s := range route.StopIDs {
		if s == stopID {
			return i
		}
	}
	return -1
}

func orderedStops(route timetable.Route, mode Mode) []timetable.StopID {
	if mode == ModeDepartAt {
		return route.StopIDs
	}
	out := make([]timetable.StopID, len(route.StopIDs))
	for i, s := range route.StopIDs {
		out[len(out)-1-i] = s
	}
	return out
}

func orderedTrips(tt *timetable.Timetable, route timetable.Route, mode Mode) []timetable.Trip {
	trips := make([]timetable.Trip, len(route.TripIDs))
	for i, id := range route.TripIDs {
		trips[i] = tt.Trips[id]
	}
	if mode == ModeArriveBy {
		for i, j := 0, len(trips)-1; i < j; i, j = i+1, j-1 {
			trips[i], trips[j] = trips[j], trips[i]
		}
	}
	return trips
}

// scanRoute walks route forward from startPos (in the search direction),
// boarding the earliest catchable trip and improving labels at every stop
// it passes — the per-route inner loop of plan_journey.
func scanRoute(tt *timetable.Timetable, route timetable.Route, startPos int, k int, in Input,
	perRound []map[timetable.StopID]label, cameFrom []map[timetable.StopID]boardRecord,
	best map[timetable.StopID]label, newlyMarked map[timetable.StopID]bool) {

	stops := orderedStops(route, in.Mode)
	trips := orderedTrips(tt, route, in.Mode)

	boardedTripIdx := -1
	var boardedAt timetable.StopID
	var boardWC geoutil.WallClock

	for pos := startPos; pos < len(stops); pos++ {
		stopID := stops[pos]

		if boardedTripIdx >= 0 {
			arr := stopClockAt(trips[boardedTripIdx], stopID, in.Mode, true)
			if arr.valid {
				candidate := arr.wc
				if withinBudget(in, candidate) && improves(best, newlyMarked, stopID, candidate, in.Mode) {
					boarded := trips[boardedTripIdx].ID
					best[stopID] = label{arrive: candidate, tripID: boarded, valid: true}
					perRound[k][stopID] = label{arrive: candidate, tripID: boarded, valid: true}
					cameFrom[k][stopID] = boardRecord{fromStopID: boardedAt, tripID: boarded, board: boardWC}
					newlyMarked[stopID] = true
				}
			}
		}

		if pos == len(stops)-1 {
			continue
		}

		prevLabel, havePrev := perRound[k-1][stopID]
		if !havePrev {
			continue
		}

		// try to catch an earlier (or any, if not yet boarded) trip at this
		// stop, respecting the minimum connection time from whatever trip (if
		// any) fed the previous-round label, per spec §4.C and §3's
		// exchange-time lookup; through-service pairs resolve to zero there.
		for ti := range trips {
			dep := stopClockAt(trips[ti], stopID, in.Mode, false)
			if !dep.valid {
				continue
			}
			minConn := tt.Exchange.MinimumSeconds(stopID, prevLabel.tripID, trips[ti].ID)
			if in.Mode == ModeDepartAt {
				threshold := prevLabel.arrive.AddSeconds(int64(minConn))
				if dep.wc.Before(threshold) {
					continue
				}
			} else {
				threshold := prevLabel.arrive.AddSeconds(-int64(minConn))
				if dep.wc.After(threshold) {
					continue
				}
			}
			if boardedTripIdx < 0 || betterBoard(trips[ti], trips[boardedTripIdx], stopID, in.Mode) {
				boardedTripIdx = ti
				boardedAt = stopID
				boardWC = prevLabel.arrive
			}
			break // trips are time-ordered, so the first catchable one is the earliest; betterBoard decides whether it beats the trip already boarded
		}
	}
}

type wcResult struct {
	wc    geoutil.WallClock
	valid bool
}

// stopClockAt returns the arrival (wantArrival=true) or departure time of
// trip at stopID, accounting for the search direction, as a WallClock
// carrying the correct day offset relative to the trip's own day zero.
func stopClockAt(trip timetable.Trip, stopID timetable.StopID, mode Mode, wantArrival bool) wcResult {
	resolved := resolveTripClocks(trip)
	for i, st := range trip.StopTimes {
		if st.StopID != stopID {
			continue
		}
		var secs int64
		if mode == ModeDepartAt {
			if wantArrival {
				secs = resolved[i].arrival
			} else {
				secs = resolved[i].departure
			}
		} else {
			if wantArrival {
				secs = resolved[i].departure
			} else {
				secs = resolved[i].arrival
			}
		}
		return wcResult{wc: geoutil.FromAbsolute(secs), valid: true}
	}
	return wcResult{}
}

type resolvedClock struct {
	arrival, departure int64
}

// resolveTripClocks walks a trip's stop times in sequence order, adding a
// day's worth of seconds whenever a raw GTFS time is numerically earlier
// than the stop before it, so a trip that crosses midnight resolves to a
// monotonically increasing absolute time even when its stop_times were
// never pre-encoded above 86400 (spec §3: "later entries may be numerically
// <= earlier entries").
func resolveTripClocks(trip timetable.Trip) []resolvedClock {
	out := make([]resolvedClock, len(trip.StopTimes))
	var offset, prevDeparture int64
	for i, st := range trip.StopTimes {
		arr := st.ArrivalTimeInSeconds + offset
		if i > 0 && arr < prevDeparture {
			offset += 86400
			arr = st.ArrivalTimeInSeconds + offset
		}
		dep := st.DepartureTimeInSeconds + offset
		if dep < arr {
			dep += 86400
		}
		out[i] = resolvedClock{arrival: arr, departure: dep}
		prevDeparture = dep
	}
	return out
}

// withinBudget reports whether candidate falls inside in.TimeBudgetSeconds of
// in.DepartureOrArrival, enforcing result-mode B's horizon pruning ("return
// all stops whose earliest-arrival label is <= tau_max", spec §4.C) directly
// in the scan rather than leaving it to a later cloud-level filter. A zero
// budget means unbounded.
func withinBudget(in Input, candidate geoutil.WallClock) bool {
	if in.TimeBudgetSeconds <= 0 {
		return true
	}
	elapsed := candidate.Absolute() - in.DepartureOrArrival.Absolute()
	if in.Mode == ModeArriveBy {
		elapsed = -elapsed
	}
	return elapsed <= in.TimeBudgetSeconds
}

func improves(best map[timetable.StopID]label, newlyMarked map[timetable.StopID]bool, stopID timetable.StopID, candidate geoutil.WallClock, mode Mode) bool {
	existing, ok := best[stopID]
	if !ok {
		return true
	}
	if mode == ModeDepartAt {
		return candidate.Before(existing.arrive)
	}
	return candidate.After(existing.arrive)
}

// betterBoard prefers the trip that departs closer to (but still catchable
// relative to) the previous arrival — i.e. the earliest catchable departure
// in depart-at mode (the latest one in arrive-by mode). It only compares
// departure times at stopID; catchability is checked by the caller.
func betterBoard(candidate, current timetable.Trip, stopID timetable.StopID, mode Mode) bool {
	cWC := stopClockAt(candidate, stopID, mode, false)
	curWC := stopClockAt(current, stopID, mode, false)
	if !cWC.valid {
		return false
	}
	if !curWC.valid {
		return true
	}
	if mode == ModeDepartAt {
		return cWC.wc.Before(curWC.wc)
	}
	return cWC.wc.After(curWC.wc)
}

// scanTransfers relaxes every walking transfer out of a newly marked stop,
// mirroring original_source's scan_transfers.
func scanTransfers(tt *timetable.Timetable, k int, in Input,
	perRound []map[timetable.StopID]label, cameFrom []map[timetable.StopID]boardRecord,
	best map[timetable.StopID]label, newlyMarked map[timetable.StopID]bool) {

	sourceStops := make([]timetable.StopID, 0, len(newlyMarked))
	for s := range newlyMarked {
		sourceStops = append(sourceStops, s)
	}

	for _, stopID := range sourceStops {
		fromLabel, ok := perRound[k][stopID]
		if !ok {
			continue
		}
		for _, tr := range tt.Transfers[stopID] {
			var candidate geoutil.WallClock
			if in.Mode == ModeDepartAt {
				candidate = fromLabel.arrive.AddSeconds(int64(tr.MinimumTransferTimeInSeconds))
			} else {
				candidate = fromLabel.arrive.AddSeconds(-int64(tr.MinimumTransferTimeInSeconds))
			}

			if withinBudget(in, candidate) && improves(best, newlyMarked, tr.ToStopID, candidate, in.Mode) {
				best[tr.ToStopID] = label{arrive: candidate, valid: true}
				perRound[k][tr.ToStopID] = label{arrive: candidate, valid: true}
				cameFrom[k][tr.ToStopID] = boardRecord{fromStopID: stopID, tripID: 0, board: fromLabel.arrive}
				newlyMarked[tr.ToStopID] = true
			}
		}
	}
}

// reconstruct walks cameFrom backward from to, building the forward-order
// leg list for the journey, mirroring the commented-out backtracking
// section of original_source's plan_journey (the original disabled it; this
// module implements it, since spec §4.C's mode A explicitly requires a
// reconstructed path).
func reconstruct(tt *timetable.Timetable, in Input, to timetable.StopID,
	perRound []map[timetable.StopID]label, cameFrom []map[timetable.StopID]boardRecord) *Journey {

	var legs []Leg
	cur := to

	for k := len(cameFrom) - 1; k >= 1; k-- {
		rec, ok := cameFrom[k][cur]
		if !ok {
			continue
		}
		arrive := perRound[k][cur].arrive
		leg := Leg{
			FromStopID: rec.fromStopID,
			ToStopID:   cur,
			TripID:     rec.tripID,
			IsTransfer: rec.tripID == 0,
			Depart:     rec.board,
			Arrive:     arrive,
		}
		legs = append([]Leg{leg}, legs...)
		cur = rec.fromStopID
		if cur == in.FromStopID {
			break
		}
	}

	j := &Journey{
		FromStopID: in.FromStopID,
		ToStopID:   to,
		Legs:       legs,
	}
	if len(legs) > 0 {
		j.Depart = legs[0].Depart
		j.Arrive = legs[len(legs)-1].Arrive
	}
	return j
}
