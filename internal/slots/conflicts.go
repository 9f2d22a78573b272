package slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Overlaps reports whether two half-open intervals [aStart, aEnd) and [bStart, bEnd) intersect.
// Intervals that only touch at an endpoint do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// FilterConflicts drops candidates that overlap an active appointment.
// Appointments are compared by absolute time, so one that starts on another
// calendar date still blocks the slots it covers after midnight.
// The order of candidates is kept.
func FilterConflicts(candidates []Slot, appointments []*domain.Appointment) []Slot {
	result := make([]Slot, 0, len(candidates))
	if len(candidates) == 0 {
		return result
	}

	relevant := relevantAppointments(span(candidates), appointments)
	for _, c := range candidates {
		if !conflicts(c, relevant) {
			result = append(result, c)
		}
	}
	return result
}

type interval struct {
	start, end time.Time
}

// span returns the interval from the earliest candidate start to the latest candidate end.
func span(candidates []Slot) interval {
	w := interval{start: candidates[0].Start, end: candidates[0].End}
	for _, c := range candidates[1:] {
		if c.Start.Before(w.start) {
			w.start = c.Start
		}
		if c.End.After(w.end) {
			w.end = c.End
		}
	}
	return w
}

func relevantAppointments(w interval, appointments []*domain.Appointment) []*domain.Appointment {
	relevant := make([]*domain.Appointment, 0, len(appointments))
	for _, a := range appointments {
		if a == nil || !a.IsActive() {
			continue
		}
		if !Overlaps(w.start, w.end, a.StartTime, a.EndTime) {
			continue
		}
		relevant = append(relevant, a)
	}
	return relevant
}

func conflicts(c Slot, appointments []*domain.Appointment) bool {
	for _, a := range appointments {
		if Overlaps(c.Start, c.End, a.StartTime, a.EndTime) {
			return true
		}
	}
	return false
}
