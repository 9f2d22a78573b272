package reschedule_appointment

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// validateRequest валидирует входные данные запроса и нормализует время начала
func validateRequest(req *Request) (types.TimeString, error) {
	if req.UserID <= 0 {
		return "", fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.AppointmentID <= 0 {
		return "", fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return "", fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.StartTime.IsZero() {
		return "", fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	start, err := types.NewTimeStringFromString(req.StartTime.String())
	if err != nil {
		return "", fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	return start, nil
}

// validateDate проверяет дату по политике записи.
// date и now должны быть в одном часовом поясе.
func validateDate(date, now time.Time, policy *domain.BookingPolicy) error {
	err := policy.CheckDate(date, now)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrDateInPast):
		return ErrInvalidDate
	case errors.Is(err, domain.ErrBeyondBookingHorizon):
		return fmt.Errorf("%w: %v", ErrDateTooFarInFuture, err)
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

// pickSlot пересчитывает слоты дня и возвращает свободный слот с меткой start.
// Сегодня слот не может начинаться раньше now + minNotice.
func pickSlot(in slots.Input, start types.TimeString, now time.Time, policy *domain.BookingPolicy) (slots.Slot, error) {
	slot, err := slots.Pick(in, start.String())
	switch {
	case err == nil:
	case errors.Is(err, slots.ErrDayClosed):
		return slots.Slot{}, ErrBusinessClosed
	case errors.Is(err, slots.ErrSlotTaken):
		return slots.Slot{}, ErrSlotNotAvailable
	case errors.Is(err, slots.ErrNotOnGrid), errors.Is(err, slots.ErrMalformedHours):
		return slots.Slot{}, fmt.Errorf("%w: %v", ErrInvalidTimeSlot, err)
	default:
		return slots.Slot{}, fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
	}

	if domain.SameDay(in.Date, now) && slot.Start.Before(policy.EarliestStart(now)) {
		return slots.Slot{}, fmt.Errorf("%w: must book at least %d minutes in advance",
			ErrTooLateToBook, policy.MinBookingNoticeMinutes)
	}
	return slot, nil
}
