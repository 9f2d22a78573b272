package slots

import (
	"fmt"
	"iter"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// DefaultStepMinutes is the distance between consecutive slot starts.
const DefaultStepMinutes = domain.SlotStepMinutes

// Window is an open interval of a day in minutes from that day's midnight.
// Close may exceed 1440 when the business works past midnight.
type Window struct {
	Open  int
	Close int
}

// Slot is a bookable start time on the target date.
type Slot struct {
	Offset int // minutes from the target date's midnight, may exceed 1440
	Label  string
	Start  time.Time
	End    time.Time
}

// OpenWindow parses the opening interval of a day.
// ok is false for a closed day. A closing time at or before the opening time
// means the business closes on the next day, so equal times mean open around the clock.
func OpenWindow(day domain.BusinessHours) (Window, bool, error) {
	if day.IsClosed {
		return Window{}, false, nil
	}

	open, err := types.ParseMinutes(day.StartTime)
	if err != nil {
		return Window{}, false, fmt.Errorf("%w: day %d start: %v", ErrMalformedHours, day.DayOfWeek, err)
	}
	closing, err := types.ParseMinutes(day.EndTime)
	if err != nil {
		return Window{}, false, fmt.Errorf("%w: day %d end: %v", ErrMalformedHours, day.DayOfWeek, err)
	}

	if closing <= open {
		closing += domain.MinutesPerDay
	}

	return Window{Open: open, Close: closing}, true, nil
}

// Walk yields slot start offsets from the opening time in step increments
// while the whole duration fits before closing. Each call to the returned
// sequence starts over.
func Walk(w Window, duration, step int) iter.Seq[int] {
	if step <= 0 {
		step = DefaultStepMinutes
	}
	return func(yield func(int) bool) {
		if duration <= 0 {
			return
		}
		for offset := w.Open; offset+duration <= w.Close; offset += step {
			if !yield(offset) {
				return
			}
		}
	}
}

// Generate lists every candidate slot of one day for a service of the given duration.
// A closed day or a non-positive duration yields no slots and no error.
// Unparseable hours yield ErrMalformedHours.
// Start times that do not exist on the local clock, such as those inside a
// spring-forward gap, are skipped. An ambiguous fall-back time takes the
// offset chosen by time.Date.
func Generate(day domain.BusinessHours, date time.Time, duration, step int) ([]Slot, error) {
	if duration <= 0 {
		return []Slot{}, nil
	}

	window, ok, err := OpenWindow(day)
	if err != nil {
		return []Slot{}, err
	}
	if !ok {
		return []Slot{}, nil
	}

	y, m, d := date.Date()
	loc := date.Location()

	result := make([]Slot, 0)
	for offset := range Walk(window, duration, step) {
		start := time.Date(y, m, d, 0, offset, 0, 0, loc)
		if !onWallClock(start, offset) {
			continue
		}
		result = append(result, Slot{
			Offset: offset,
			Label:  types.FromMinutes(offset).String(),
			Start:  start,
			End:    start.Add(time.Duration(duration) * time.Minute),
		})
	}

	return result, nil
}

// onWallClock reports whether t shows the clock time of offset,
// i.e. time.Date did not move it across a zone transition.
func onWallClock(t time.Time, offset int) bool {
	return t.Hour()*60+t.Minute() == offset%domain.MinutesPerDay
}
