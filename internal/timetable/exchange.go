package timetable

// ExchangeTimeTable implements the minimum-connection-time fallback chain
// from spec §3: trip-pair override, then stop-admin-pair, then a per-stop
// default, then a global admin-pair default, then a single global default.
// A through-service pair (the two trips are flagged as continuing the same
// physical service) short-circuits to zero regardless of the rest of the
// chain. The teacher has no minimum-connection model at all; this is built
// in its "plain struct with getter-shaped methods" style rather than as a
// generic interface, since there is only ever one concrete implementation.
type ExchangeTimeTable struct {
	defaultSeconds         int
	adminDefaultSeconds    map[[2]string]int
	stopDefaultSeconds     map[StopID]int
	stopAdminPairSeconds   map[stopAdminPairKey]int
	tripPairSeconds        map[tripPairKey]int
	throughServicePairs    map[tripPairKey]bool
	stopAdmin              map[StopID]string
}

type stopAdminPairKey struct {
	stopID    StopID
	fromAdmin string
	toAdmin   string
}

type tripPairKey struct {
	fromTrip TripID
	toTrip   TripID
}

// NewExchangeTimeTable builds an empty table defaulting every lookup to
// defaultSeconds until overrides are added.
func NewExchangeTimeTable(defaultSeconds int) *ExchangeTimeTable {
	return &ExchangeTimeTable{
		defaultSeconds:       defaultSeconds,
		adminDefaultSeconds:  map[[2]string]int{},
		stopDefaultSeconds:   map[StopID]int{},
		stopAdminPairSeconds: map[stopAdminPairKey]int{},
		tripPairSeconds:      map[tripPairKey]int{},
		throughServicePairs:  map[tripPairKey]bool{},
		stopAdmin:            map[StopID]string{},
	}
}

// SetStopAdmin records which administration operates stopID, used to key
// the admin-pair levels of the fallback chain.
func (e *ExchangeTimeTable) SetStopAdmin(stopID StopID, admin string) {
	e.stopAdmin[stopID] = admin
}

// SetStopDefault overrides the minimum connection time at a single stop,
// regardless of the trips involved.
func (e *ExchangeTimeTable) SetStopDefault(stopID StopID, seconds int) {
	e.stopDefaultSeconds[stopID] = seconds
}

// SetAdminPairDefault overrides the minimum connection time between two
// administrations' services.
func (e *ExchangeTimeTable) SetAdminPairDefault(fromAdmin, toAdmin string, seconds int) {
	e.adminDefaultSeconds[[2]string{fromAdmin, toAdmin}] = seconds
}

// SetStopAdminPair overrides the minimum connection time at a specific stop
// between two administrations' services.
func (e *ExchangeTimeTable) SetStopAdminPair(stopID StopID, fromAdmin, toAdmin string, seconds int) {
	e.stopAdminPairSeconds[stopAdminPairKey{stopID, fromAdmin, toAdmin}] = seconds
}

// SetTripPair overrides the minimum connection time between two specific
// trips, the highest-priority level of the chain.
func (e *ExchangeTimeTable) SetTripPair(fromTrip, toTrip TripID, seconds int) {
	e.tripPairSeconds[tripPairKey{fromTrip, toTrip}] = seconds
}

// MarkThroughService flags that arriving on fromTrip and departing on
// toTrip at the same stop is a continuation of one physical service, so the
// connection time is always zero.
func (e *ExchangeTimeTable) MarkThroughService(fromTrip, toTrip TripID) {
	e.throughServicePairs[tripPairKey{fromTrip, toTrip}] = true
}

// MinimumSeconds resolves the minimum connection time in seconds required
// to transfer from fromTrip to toTrip at stopID, walking the fallback chain
// from most specific to least.
func (e *ExchangeTimeTable) MinimumSeconds(stopID StopID, fromTrip, toTrip TripID) int {
	if fromTrip == 0 {
		// no previous trip: boarding at the journey origin or right after a
		// walking transfer never needs a connection buffer.
		return 0
	}

	pair := tripPairKey{fromTrip, toTrip}
	if e.throughServicePairs[pair] {
		return 0
	}
	if s, ok := e.tripPairSeconds[pair]; ok {
		return s
	}

	fromAdmin, toAdmin := e.stopAdmin[stopID], e.stopAdmin[stopID]
	if s, ok := e.stopAdminPairSeconds[stopAdminPairKey{stopID, fromAdmin, toAdmin}]; ok {
		return s
	}
	if s, ok := e.stopDefaultSeconds[stopID]; ok {
		return s
	}
	if s, ok := e.adminDefaultSeconds[[2]string{fromAdmin, toAdmin}]; ok {
		return s
	}
	return e.defaultSeconds
}
