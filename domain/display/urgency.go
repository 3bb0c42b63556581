package display

import "time"

// UrgencyClass is the coloring bucket of a deadline.
type UrgencyClass string

const (
	Normal  UrgencyClass = "normal"
	DueSoon UrgencyClass = "due-soon"
	Overdue UrgencyClass = "overdue"
)

// EndOfTomorrow returns the last representable instant of the day after now,
// in now's location.
func EndOfTomorrow(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+2, 0, 0, 0, 0, now.Location()).Add(-time.Nanosecond)
}

// Urgency classifies deadline relative to now. A deadline exactly equal to
// now is Normal.
func Urgency(deadline *time.Time, now time.Time) UrgencyClass {
	if deadline == nil {
		return Normal
	}
	switch {
	case deadline.Before(now):
		return Overdue
	case deadline.After(now) && deadline.Before(EndOfTomorrow(now)):
		return DueSoon
	default:
		return Normal
	}
}
