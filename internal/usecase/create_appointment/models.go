package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	UserID     int64            // ID клиента
	BusinessID int64            // ID бизнеса
	ServiceID  int64            // ID услуги
	Date       time.Time        // Календарная дата записи
	StartTime  types.TimeString // Время начала слота (например, "10:00")
	Notes      *string          // Дополнительные заметки (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64
	UserID          int64
	BusinessID      int64
	ServiceID       int64
	Date            time.Time        // Дата, на которую выбирался слот
	StartTime       types.TimeString // Метка слота
	StartAt         time.Time        // Абсолютное время начала
	EndAt           time.Time        // Абсолютное время окончания
	DurationMinutes int
	Status          string

	// Денормализованные данные
	ServiceName  string
	ServicePrice *float64
	Notes        *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func newResponse(a *domain.Appointment, date time.Time, label types.TimeString) *Response {
	return &Response{
		ID:              a.ID,
		UserID:          a.UserID,
		BusinessID:      a.BusinessID,
		ServiceID:       a.ServiceID,
		Date:            date,
		StartTime:       label,
		StartAt:         a.StartTime,
		EndAt:           a.EndTime,
		DurationMinutes: a.DurationMinutes(),
		Status:          string(a.Status),
		ServiceName:     a.ServiceName,
		ServicePrice:    a.ServicePrice,
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
