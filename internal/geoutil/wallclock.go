package geoutil

// WallClock is a time-of-day in seconds since midnight paired with a day
// offset, so that arrivals past midnight compare correctly against a
// departure on day zero. The router carries one of these per label instead
// of comparing raw seconds-since-midnight, which is what goes wrong when a
// trip's last stop_time rolls past 24:00:00 in the GTFS sense.
type WallClock struct {
	Seconds int64 // seconds since midnight of DayOffset, may exceed 86400 for trips that run past midnight
	DayOffset int
}

// Absolute returns a single monotonic value safe to compare across day
// offsets: DayOffset days plus Seconds.
func (w WallClock) Absolute() int64 {
	return int64(w.DayOffset)*86400 + w.Seconds
}

// Before reports whether w happens strictly before o.
func (w WallClock) Before(o WallClock) bool {
	return w.Absolute() < o.Absolute()
}

// After reports whether w happens strictly after o.
func (w WallClock) After(o WallClock) bool {
	return w.Absolute() > o.Absolute()
}

// AddSeconds returns a WallClock advanced by delta seconds, normalizing the
// day offset when the result crosses a midnight boundary.
func (w WallClock) AddSeconds(delta int64) WallClock {
	total := w.Seconds + delta
	dayShift := total / 86400
	rem := total % 86400
	if rem < 0 {
		rem += 86400
		dayShift--
	}
	return WallClock{Seconds: rem, DayOffset: w.DayOffset + int(dayShift)}
}

// FromAbsolute reconstructs a WallClock from an Absolute() value.
func FromAbsolute(abs int64) WallClock {
	day := abs / 86400
	rem := abs % 86400
	if rem < 0 {
		rem += 86400
		day--
	}
	return WallClock{Seconds: rem, DayOffset: int(day)}
}

// GetTimePartition rounds timestamp to the nearest multiple of interval,
// rounding up when upper is true. Grounded on the teacher's partitioning
// helper of the same name, generalized from TimestampInSeconds to int64.
func GetTimePartition(timestamp, interval int64, upper bool) int64 {
	lower := timestamp - (timestamp % interval)
	if !upper || lower == timestamp {
		return lower
	}
	return (lower/interval + 1) * interval
}

// DateRange enumerates every stepSeconds boundary in [from, to] inclusive,
// in ascending order, mirroring the sweep semantics of the original source's
// NaiveDateTimeRange but expressed as a plain slice rather than a stateful
// iterator, since Go callers overwhelmingly just range over the result. A
// non-positive stepSeconds yields nil.
func DateRange(fromAbsoluteSeconds, toAbsoluteSeconds, stepSeconds int64) []int64 {
	if toAbsoluteSeconds < fromAbsoluteSeconds || stepSeconds <= 0 {
		return nil
	}
	n := (toAbsoluteSeconds-fromAbsoluteSeconds)/stepSeconds + 1
	out := make([]int64, 0, n)
	for t := fromAbsoluteSeconds; t <= toAbsoluteSeconds; t += stepSeconds {
		out = append(out, t)
	}
	return out
}

// MinuteRange enumerates every minute boundary in [from, to] inclusive, in
// ascending order — the fixed 60-second-step case of DateRange used by the
// isochrone sweep.
func MinuteRange(fromAbsoluteSeconds, toAbsoluteSeconds int64) []int64 {
	return DateRange(fromAbsoluteSeconds, toAbsoluteSeconds, 60)
}
