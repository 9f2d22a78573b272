package slots

import "time"

// StartingFrom keeps the slots that start at or after earliest.
func StartingFrom(s []Slot, earliest time.Time) []Slot {
	result := make([]Slot, 0, len(s))
	for _, slot := range s {
		if !slot.Start.Before(earliest) {
			result = append(result, slot)
		}
	}
	return result
}

// Find returns the slot whose label equals label.
func Find(s []Slot, label string) (Slot, bool) {
	for _, slot := range s {
		if slot.Label == label {
			return slot, true
		}
	}
	return Slot{}, false
}
