// Package timetable is the router-native, immutable view over stops,
// routes, trips, transfers and exchange times. It is built once from a
// GTFSSource collaborator and never mutated afterwards, the same
//"flatten once, query many" shape the teacher's raptor_test.go uses to turn
// a gtfsparser.Feed into plain slices before handing them to the router.
package timetable

// StopID is the concrete stop identifier type. The teacher parameterizes
// over UniqueGtfsIdLike; this module pins that parameter to int32 because
// every GTFSSource in scope (real parsers included) produces integer stop
// ids, and a concrete type lets the rest of the module avoid threading a
// generic parameter through every package.
type StopID = int32

// TripID identifies a single scheduled trip (one vehicle run on one day).
type TripID = int32

// RouteID identifies a FIFO-consistent group of trips sharing a stop
// pattern, matching spec's Route definition.
type RouteID = int32
