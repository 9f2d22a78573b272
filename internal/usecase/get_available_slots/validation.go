package get_available_slots

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
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
