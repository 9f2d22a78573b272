package slots

import "errors"

var (
	// ErrMalformedHours is returned when a day's opening or closing time cannot be parsed
	ErrMalformedHours = errors.New("slots: malformed business hours")

	// ErrDayClosed is returned by Pick when the business does not work on the date
	ErrDayClosed = errors.New("slots: business is closed on this date")

	// ErrSlotTaken is returned by Pick when the start is on the grid but overlaps an appointment
	ErrSlotTaken = errors.New("slots: slot is taken")

	// ErrNotOnGrid is returned by Pick when no candidate starts at the requested label
	ErrNotOnGrid = errors.New("slots: no slot starts at this time")
)
