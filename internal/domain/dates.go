package domain

import "time"

// StartOfDay returns midnight of t's calendar date in loc.
// The date is taken from t as is, without converting it to loc first.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// SameDay reports whether a and b carry the same calendar date, each in its own location.
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DayRange returns the [midnight, next midnight) interval of date in loc
func DayRange(date time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = date.Location()
	}
	start := StartOfDay(date, loc)
	return start, start.AddDate(0, 0, 1)
}

// SlotRange returns the interval that holds every slot of date in loc.
// A day opens before 24:00 and stays open for at most 24 hours, so its
// slots end no later than two midnights after date's own.
func SlotRange(date time.Time, loc *time.Location) (time.Time, time.Time) {
	start, _ := DayRange(date, loc)
	return start, start.AddDate(0, 0, 2)
}
