package slots

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

// Week holds exactly one hours record per day, indexed by DayIndex.
type Week [domain.DaysInWeek]domain.BusinessHours

// NormalizeWeek turns a sparse list of hours into a full week.
// A missing day is synthesized as closed with "00:00" placeholders and no ID,
// so its identity is (businessID, day). For duplicate days the first record wins.
// Records with a day outside 0..6 are ignored.
func NormalizeWeek(businessID int64, hours []domain.BusinessHours) Week {
	var week Week
	var seen [domain.DaysInWeek]bool

	for _, h := range hours {
		if !domain.ValidDayOfWeek(h.DayOfWeek) || seen[h.DayOfWeek] {
			continue
		}
		seen[h.DayOfWeek] = true
		week[h.DayOfWeek] = h
	}

	for day := range week {
		if seen[day] {
			continue
		}
		week[day] = domain.BusinessHours{
			BusinessID: businessID,
			DayOfWeek:  day,
			StartTime:  domain.ClosedDayPlaceholder,
			EndTime:    domain.ClosedDayPlaceholder,
			IsClosed:   true,
		}
	}

	return week
}

// Days returns the week as a slice in day order.
func (w Week) Days() []domain.BusinessHours {
	days := make([]domain.BusinessHours, len(w))
	copy(days, w[:])
	return days
}
