// Package schedule holds the pure time-range logic that every
// scheduling decision in the service is built on.  It performs no I/O;
// callers normalize all dates and clock times to a single reference
// timezone (UTC) before calling in.
package schedule

import (
	"fmt"
	"time"
)

// Range is a prospective or stored booking slot.  Date is the calendar
// day (only year/month/day are significant).  StartMin and EndMin are
// minutes since midnight.  EndMin is nil when no end time was asserted;
// such ranges never conflict with anything; this is the policy for
// legacy sessions that predate end-time tracking.
type Range struct {
	Date     time.Time
	StartMin int
	EndMin   *int
}

// Overlaps reports whether two ranges conflict.  Ranges conflict iff
// they fall on the same calendar day and their half-open intervals
// [start, end) intersect, i.e. start1 < end2 && end1 > start2.  A slot
// ending exactly when another begins does not conflict, so back-to-back
// bookings are legal.  The function is total: it never panics, even for
// a range whose end precedes its start (rejecting those is input
// validation, not this primitive's job).
func Overlaps(a, b Range) bool {
	if a.EndMin == nil || b.EndMin == nil {
		return false
	}
	if !SameDay(a.Date, b.Date) {
		return false
	}
	return a.StartMin < *b.EndMin && *a.EndMin > b.StartMin
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ParseClock converts a "HH:MM" or "HH:MM:SS" clock string to minutes
// since midnight.  Seconds are ignored; the stored TIME columns carry
// whole minutes.
func ParseClock(s string) (int, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		if _, err2 := fmt.Sscanf(s, "%d:%d", &h, &m); err2 != nil {
			return 0, fmt.Errorf("invalid clock %q", s)
		}
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock %q out of range", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight as "HH:MM:SS", the format
// MySQL TIME columns expect.
func FormatClock(min int) string {
	return fmt.Sprintf("%02d:%02d:00", min/60, min%60)
}

// StartInstant combines a calendar day and a start clock into one
// comparable UTC instant.  Used for the "session already started"
// check on leave.
func StartInstant(date time.Time, startMin int) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, startMin/60, startMin%60, 0, 0, time.UTC)
}
