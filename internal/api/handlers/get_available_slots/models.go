package get_available_slots

import (
	"errors"
	"strings"
	"time"

	"github.com/tj/go-naturaldate"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
)

var errUnrecognizedDate = errors.New("unrecognized date")

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string          `json:"date"`
	BusinessID      int64           `json:"businessId"`
	ServiceID       int64           `json:"serviceId"`
	DurationMinutes int             `json:"durationMinutes"`
	Slots           []AvailableSlot `json:"slots"`
	Degraded        bool            `json:"degraded,omitempty"`
	Diagnostic      *string         `json:"diagnostic,omitempty"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime string `json:"startTime"` // "HH:MM" в часовом поясе бизнеса
	StartAt   string `json:"startAt"`   // RFC3339
	EndAt     string `json:"endAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime: slot.StartTime.String(),
			StartAt:   slot.StartAt.Format(time.RFC3339),
			EndAt:     slot.EndAt.Format(time.RFC3339),
		}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		BusinessID:      resp.BusinessID,
		ServiceID:       resp.ServiceID,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
		Degraded:        resp.Degraded,
		Diagnostic:      resp.Diagnostic,
	}
}

// ParseDate принимает YYYY-MM-DD или фразу вроде "tomorrow", "next friday".
// Фразы разрешаются относительно now в будущее.
func ParseDate(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if date, err := time.ParseInLocation(domain.DateFormat, raw, now.Location()); err == nil {
		return date, nil
	}

	date, err := naturaldate.Parse(raw, now, naturaldate.WithDirection(naturaldate.Future))
	if err != nil {
		return time.Time{}, err
	}
	// Нераспознанная фраза возвращает опорное время без изменений
	if date.Equal(now) && !isNowPhrase(raw) {
		return time.Time{}, errUnrecognizedDate
	}
	return date.In(now.Location()), nil
}

func isNowPhrase(raw string) bool {
	switch strings.ToLower(raw) {
	case "today", "now":
		return true
	}
	return false
}

// ToUseCaseRequest создает запрос use case из параметров запроса
func ToUseCaseRequest(userID, businessID, serviceID int64, date time.Time) *getAvailableSlots.Request {
	return &getAvailableSlots.Request{
		UserID:     userID,
		BusinessID: businessID,
		ServiceID:  serviceID,
		Date:       date,
	}
}
