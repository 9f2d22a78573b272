package reschedule_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("reschedule_appointment: appointment not found")

	// ErrAccessDenied возвращается, когда запись переносит не её клиент
	ErrAccessDenied = errors.New("reschedule_appointment: access denied")

	// ErrCannotReschedule возвращается для завершённых и отменённых записей
	ErrCannotReschedule = errors.New("reschedule_appointment: appointment cannot be rescheduled")

	// ErrInvalidDate возвращается, когда новая дата в прошлом
	ErrInvalidDate = errors.New("reschedule_appointment: invalid appointment date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("reschedule_appointment: date is too far in the future")

	// ErrBusinessClosed возвращается, когда бизнес закрыт в указанную дату
	ErrBusinessClosed = errors.New("reschedule_appointment: business is closed on this date")

	// ErrSlotNotAvailable возвращается, когда выбранный слот уже занят
	ErrSlotNotAvailable = errors.New("reschedule_appointment: slot is not available")

	// ErrInvalidTimeSlot возвращается, когда время не совпадает ни с одним слотом дня
	ErrInvalidTimeSlot = errors.New("reschedule_appointment: invalid time slot")

	// ErrTooLateToBook возвращается, когда перенос нарушает minBookingNoticeMinutes
	ErrTooLateToBook = errors.New("reschedule_appointment: too late to book this slot")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_appointment: internal error")
)

var knownErrors = []error{
	ErrAppointmentNotFound,
	ErrAccessDenied,
	ErrCannotReschedule,
	ErrInvalidDate,
	ErrDateTooFarInFuture,
	ErrBusinessClosed,
	ErrSlotNotAvailable,
	ErrInvalidTimeSlot,
	ErrTooLateToBook,
	ErrInternal,
}

func isKnown(err error) bool {
	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}
