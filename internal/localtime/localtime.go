// Package localtime provides naive local time arithmetic for the station's
// configured timezone.
//
// The schedule is heavily based on local-time interpretations of absolute
// timestamps: a broadcast day runs from 07:00 local to 07:00 local even
// when the clocks change partway through. These helpers convert between
// absolute and naive local representations and perform DST-tolerant
// arithmetic. All functions are pure and deterministic for a fixed zone.
package localtime

import "time"

// Naive converts an absolute timestamp to its naive local representation:
// the wall-clock reading in loc with the zone information stripped. The
// result is expressed in UTC so that arithmetic between naive values is
// plain calendar arithmetic, free of DST adjustments.
func Naive(t time.Time, loc *time.Location) time.Time {
	l := t.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), l.Hour(), l.Minute(), l.Second(), l.Nanosecond(), time.UTC)
}

// FromNaive reinterprets a naive local value as an absolute timestamp in
// loc. This is the inverse of Naive.
func FromNaive(naive time.Time, loc *time.Location) time.Time {
	return time.Date(naive.Year(), naive.Month(), naive.Day(), naive.Hour(), naive.Minute(), naive.Second(), naive.Nanosecond(), loc)
}

// Diff returns the local-time difference a - b: the amount of wall-clock
// time between the two moments, which differs from the absolute difference
// when a DST transition lies between them.
func Diff(a, b time.Time, loc *time.Location) time.Duration {
	return Naive(a, loc).Sub(Naive(b, loc))
}

// DSTAdd adds a duration to an absolute timestamp such that the local
// wall-clock time shifts by exactly d, even across a DST boundary. Adding
// 24 hours to noon local always yields noon local the next day, not
// 11:00 or 13:00.
//
// The mechanism is to strip to naive local, add d arithmetically, and
// reattach the local zone.
func DSTAdd(t time.Time, d time.Duration, loc *time.Location) time.Time {
	return FromNaive(Naive(t, loc).Add(d), loc)
}

// MidnightOffset returns the amount of local time elapsed between the most
// recent local midnight and t.
func MidnightOffset(t time.Time, loc *time.Location) time.Duration {
	naive := Naive(t, loc)
	midnight := time.Date(naive.Year(), naive.Month(), naive.Day(), 0, 0, 0, 0, time.UTC)
	return naive.Sub(midnight)
}
