package domain

import "time"

// Interval half-open time interval [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals overlap
// [a,b) and [c,d) overlap iff a < d && c < b; touching boundaries do not overlap
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// HasConflict reports whether the candidate interval overlaps any appointment
// that still blocks its slot. The candidate list is expected to be scoped to a
// single stylist; cancelled and no-show appointments never conflict
func HasConflict(candidate Interval, existing []*Appointment) bool {
	for _, appt := range existing {
		if !appt.BlocksSlot() {
			continue
		}
		if candidate.Overlaps(appt.Interval()) {
			return true
		}
	}
	return false
}
