package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Appointment event types published through the outbox
const (
	EventAppointmentCreated       = "appointment.created"
	EventAppointmentRescheduled   = "appointment.rescheduled"
	EventAppointmentCancelled     = "appointment.cancelled"
	EventAppointmentStatusChanged = "appointment.status_changed"
)

// OutboxEvent is an event stored in the same transaction as the state change
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   string
	AggregateID string
	Payload     []byte
	CreatedAt   time.Time
	PublishedAt *time.Time
}

// AppointmentEventPayload is the JSON body of appointment events
type AppointmentEventPayload struct {
	AppointmentID int64     `json:"appointmentId"`
	BusinessID    int64     `json:"businessId"`
	ServiceID     int64     `json:"serviceId"`
	UserID        int64     `json:"userId"`
	Status        string    `json:"status"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// NewAppointmentEvent builds an outbox record for an appointment state change
func NewAppointmentEvent(eventType string, a *Appointment, occurredAt time.Time) (*OutboxEvent, error) {
	payload, err := json.Marshal(AppointmentEventPayload{
		AppointmentID: a.ID,
		BusinessID:    a.BusinessID,
		ServiceID:     a.ServiceID,
		UserID:        a.UserID,
		Status:        string(a.Status),
		StartTime:     a.StartTime,
		EndTime:       a.EndTime,
		OccurredAt:    occurredAt,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	return &OutboxEvent{
		EventType:   eventType,
		AggregateID: strconv.FormatInt(a.ID, 10),
		Payload:     payload,
	}, nil
}
