// Package ierr defines the sentinel errors shared across the module,
// grounded on the original source's RError enum but expressed in the
// idiomatic Go way: plain sentinels wrapped with fmt.Errorf("...: %w", ...)
// and distinguished at call sites with errors.Is/errors.As instead of a
// match over an enum.
package ierr

import "errors"

var (
	// ErrOutOfRange is returned when a requested time or coordinate falls
	// outside the timetable's validity window or the configured bounding box.
	ErrOutOfRange = errors.New("value out of range")

	// ErrTimetableIntegrity is returned when the timetable view is built
	// from data that violates an invariant it depends on, such as a route
	// whose trips are not mutually FIFO.
	ErrTimetableIntegrity = errors.New("timetable integrity violation")

	// ErrTransientIO is returned by collaborators (cache, excluded-region
	// fetch) for failures a retry might resolve.
	ErrTransientIO = errors.New("transient I/O failure")

	// ErrArithmetic marks a violated numeric precondition. No function in
	// this module returns it; the worker-count invariant in
	// sweep.ComputeRemainingWorkers panics instead.
	ErrArithmetic = errors.New("arithmetic precondition violated")
)
