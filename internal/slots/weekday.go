package slots

import "time"

// DayIndex maps a date to the business-hours day index: 0 is Monday, 6 is Sunday.
func DayIndex(date time.Time) int {
	return (int(date.Weekday()) + 6) % 7
}
