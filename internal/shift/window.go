// Package shift implements the work-shift admission window.
//
// A window is a pair of "HH:mm" wall-clock times. Only the time of day
// matters; the calendar date is ignored and no timezone conversion happens,
// the caller's local clock is authoritative. Windows may span midnight
// (start > end), in which case the window wraps.
package shift

import "time"

// InWindow reports whether now falls inside the [start, end] shift window.
// Both bounds are inclusive.
//
// Same-day window (start <= end): in iff start <= now <= end.
// Overnight window (start > end):  in iff now >= start OR now <= end.
//
// Times are compared as zero-padded "HH:mm" strings, which order
// lexicographically exactly like minutes-of-day.
func InWindow(now time.Time, start, end string) bool {
	cur := now.Format("15:04")
	if start <= end {
		return start <= cur && cur <= end
	}
	return cur >= start || cur <= end
}
