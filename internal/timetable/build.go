package timetable

import (
	"fmt"
	"sort"
	"strings"

	"github.com/liammartens/isochronego/internal/ierr"
)

// Timetable is the immutable, router-native projection built once from a
// GTFSSource. All lookups are plain map/slice indexes, matching the
// teacher's "flatten into slices, index by map" style rather than a live
// query surface.
type Timetable struct {
	Stops     map[StopID]Stop
	Trips     map[TripID]Trip
	Routes    map[RouteID]Route
	Transfers map[StopID][]Transfer

	RoutesByStop map[StopID][]RouteID
	Exchange     *ExchangeTimeTable
}

// Build constructs a Timetable from src, grouping trips into FIFO-consistent
// routes and indexing transfers and route memberships by stop. It fails
// with ierr.ErrTimetableIntegrity if two trips claim to run on the same
// stop pattern but are not mutually FIFO (see DESIGN.md's Open Question
// decision: this module fails fast rather than auto-splitting the route,
// since splitting would silently change route identity that callers and
// the router's route-collection step depend on being stable).
func Build(src GTFSSource, exchange *ExchangeTimeTable) (*Timetable, error) {
	tt := &Timetable{
		Stops:        map[StopID]Stop{},
		Trips:        map[TripID]Trip{},
		Routes:       map[RouteID]Route{},
		Transfers:    map[StopID][]Transfer{},
		RoutesByStop: map[StopID][]RouteID{},
		Exchange:     exchange,
	}

	for _, s := range src.Stops() {
		tt.Stops[s.ID] = s
	}
	for _, tr := range src.Transfers() {
		tt.Transfers[tr.FromStopID] = append(tt.Transfers[tr.FromStopID], tr)
	}

	byPattern := map[string][]Trip{}
	for _, t := range src.Trips() {
		sort.Slice(t.StopTimes, func(i, j int) bool {
			return t.StopTimes[i].StopSequence < t.StopTimes[j].StopSequence
		})
		tt.Trips[t.ID] = t
		byPattern[patternKey(t)] = append(byPattern[patternKey(t)], t)
	}

	var routeID RouteID = 1
	for _, trips := range byPattern {
		sort.Slice(trips, func(i, j int) bool {
			return trips[i].StopTimes[0].DepartureTimeInSeconds < trips[j].StopTimes[0].DepartureTimeInSeconds
		})

		if err := verifyFIFO(trips); err != nil {
			return nil, fmt.Errorf("route with pattern %q: %w: %v", patternKey(trips[0]), ierr.ErrTimetableIntegrity, err)
		}

		stopIDs := make([]StopID, len(trips[0].StopTimes))
		for i, st := range trips[0].StopTimes {
			stopIDs[i] = st.StopID
		}
		tripIDs := make([]TripID, len(trips))
		for i, t := range trips {
			tripIDs[i] = t.ID
		}

		route := Route{ID: routeID, StopIDs: stopIDs, TripIDs: tripIDs}
		tt.Routes[routeID] = route
		for _, sid := range stopIDs {
			tt.RoutesByStop[sid] = append(tt.RoutesByStop[sid], routeID)
		}
		routeID++
	}

	return tt, nil
}

func patternKey(t Trip) string {
	parts := make([]string, len(t.StopTimes))
	for i, st := range t.StopTimes {
		parts[i] = fmt.Sprintf("%d", st.StopID)
	}
	return strings.Join(parts, ",")
}

// verifyFIFO checks that trips, already sorted by first-stop departure,
// never overtake one another: for every stop position, an earlier trip must
// arrive no later than a later trip.
func verifyFIFO(trips []Trip) error {
	for pos := range trips[0].StopTimes {
		for i := 1; i < len(trips); i++ {
			prevArr := trips[i-1].StopTimes[pos].ArrivalTimeInSeconds
			curArr := trips[i].StopTimes[pos].ArrivalTimeInSeconds
			if prevArr > curArr {
				return fmt.Errorf("trip %v overtakes trip %v at stop position %d", trips[i-1].ID, trips[i].ID, pos)
			}
		}
	}
	return nil
}
