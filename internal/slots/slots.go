package slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Input is everything needed to compute the bookable slots of one business day.
type Input struct {
	BusinessID      int64
	Hours           []domain.BusinessHours
	Appointments    []*domain.Appointment
	Date            time.Time
	DurationMinutes int
	StepMinutes     int
	Location        *time.Location // nil means Date's location
}

// Result is the ordered list of free slots for the date.
type Result struct {
	Date     time.Time
	DayIndex int
	Hours    domain.BusinessHours
	Slots    []Slot
}

// Labels returns the "HH:MM" labels of the slots in order.
func (r Result) Labels() []string {
	labels := make([]string, len(r.Slots))
	for i, s := range r.Slots {
		labels[i] = s.Label
	}
	return labels
}

// Compute normalizes the week, generates the day's candidates and removes
// those taken by existing appointments. It has no side effects, so equal
// inputs always give equal results. On ErrMalformedHours the result carries
// the day's hours and no slots.
func Compute(in Input) (Result, error) {
	loc := in.Location
	if loc == nil {
		loc = in.Date.Location()
	}
	y, m, d := in.Date.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, loc)

	week := NormalizeWeek(in.BusinessID, in.Hours)
	dayIndex := DayIndex(date)
	day := week[dayIndex]

	result := Result{
		Date:     date,
		DayIndex: dayIndex,
		Hours:    day,
		Slots:    []Slot{},
	}

	candidates, err := Generate(day, date, in.DurationMinutes, in.StepMinutes)
	if err != nil {
		return result, err
	}

	result.Slots = FilterConflicts(candidates, in.Appointments)
	return result, nil
}

// Pick runs Compute and returns the free slot labelled label.
// When the label is not free it tells a taken slot from a time that is not on the grid.
func Pick(in Input, label string) (Slot, error) {
	result, err := Compute(in)
	if err != nil {
		return Slot{}, err
	}
	if result.Hours.IsClosed {
		return Slot{}, ErrDayClosed
	}

	if slot, ok := Find(result.Slots, label); ok {
		return slot, nil
	}

	candidates, err := Generate(result.Hours, result.Date, in.DurationMinutes, in.StepMinutes)
	if err != nil {
		return Slot{}, err
	}
	if _, ok := Find(candidates, label); ok {
		return Slot{}, ErrSlotTaken
	}
	return Slot{}, ErrNotOnGrid
}
