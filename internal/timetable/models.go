package timetable

// Stop is a single boardable location.
type Stop struct {
	ID               StopID
	Name             string
	Latitude         float64
	Longitude        float64
	ParentID         StopID // zero value means no parent station
	HasParent        bool
	TransferEligible bool // whether a fan-out may walk to this stop as a starting point (spec §3)
}

// Trip is a single scheduled vehicle run: an ordered list of stop times.
type Trip struct {
	ID        TripID
	RouteID   RouteID
	Mode      TransportMode
	StopTimes []StopTime
}

// StopTime is one stop visit within a Trip, grounded on the teacher's
// GtfsStopTimeStruct fields.
type StopTime struct {
	StopID                 StopID
	StopSequence           int
	ArrivalTimeInSeconds   int64
	DepartureTimeInSeconds int64
}

// Route groups trips that share an identical, FIFO-consistent stop pattern,
// following spec's Route definition and the teacher's "route" concept
// (expressed there only implicitly via UniqueTripServiceID grouping).
type Route struct {
	ID      RouteID
	StopIDs []StopID // the shared stop pattern, in visiting order
	TripIDs []TripID // trips on this route, sorted by first-stop departure time
}

// Transfer is a minimum-time walking connection between two stops,
// grounded on the teacher's GtfsTransferStruct.
type Transfer struct {
	FromStopID                   StopID
	ToStopID                     StopID
	MinimumTransferTimeInSeconds int
}
