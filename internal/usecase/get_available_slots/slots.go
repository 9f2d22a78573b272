package get_available_slots

import (
	"github.com/m04kA/SMC-AppointmentService/internal/slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// toResponseSlots конвертирует слоты ядра в модель ответа
func toResponseSlots(free []slots.Slot) []Slot {
	result := make([]Slot, len(free))
	for i, s := range free {
		result[i] = Slot{
			StartTime: types.TimeString(s.Label),
			StartAt:   s.Start,
			EndAt:     s.End,
		}
	}
	return result
}
