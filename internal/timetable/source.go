package timetable

// GTFSSource is the external collaborator that supplies already-parsed GTFS
// data. Timetable construction depends only on this interface, never on a
// concrete parser, mirroring spec §1's "the GTFS parser is an external
// collaborator" boundary and the teacher's own test, which adapts a
// *gtfsparser.Feed into plain GtfsStopStruct/GtfsTransferStruct slices
// before calling into the router. A real adapter (e.g. one wrapping
// github.com/patrickbr/gtfsparser, as the teacher's tests do) implements
// this interface outside this package.
type GTFSSource interface {
	Stops() []Stop
	Trips() []Trip
	Transfers() []Transfer
}
