package reschedule_appointment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Request модель запроса на перенос записи
type Request struct {
	UserID        int64            // ID клиента, которому принадлежит запись
	AppointmentID int64            // ID записи
	Date          time.Time        // Новая календарная дата
	StartTime     types.TimeString // Новое время начала слота
}

// Response модель ответа с перенесённой записью
type Response struct {
	ID              int64
	BusinessID      int64
	ServiceID       int64
	UserID          int64
	Date            time.Time
	StartTime       types.TimeString
	StartAt         time.Time
	EndAt           time.Time
	PreviousStartAt time.Time // Время начала до переноса
	DurationMinutes int
	Status          string
	ServiceName     string
	ServicePrice    *float64
	Notes           *string
	UpdatedAt       time.Time
}

func newResponse(a *domain.Appointment, previousStart, date time.Time, label types.TimeString) *Response {
	return &Response{
		ID:              a.ID,
		BusinessID:      a.BusinessID,
		ServiceID:       a.ServiceID,
		UserID:          a.UserID,
		Date:            date,
		StartTime:       label,
		StartAt:         a.StartTime,
		EndAt:           a.EndTime,
		PreviousStartAt: previousStart,
		DurationMinutes: a.DurationMinutes(),
		Status:          string(a.Status),
		ServiceName:     a.ServiceName,
		ServicePrice:    a.ServicePrice,
		Notes:           a.Notes,
		UpdatedAt:       a.UpdatedAt,
	}
}
