package domain

import "time"

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// allowedTransitions lists the statuses reachable from each status
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// Appointment is a customer booking of a business service over an absolute time interval
type Appointment struct {
	ID         int64
	BusinessID int64
	ServiceID  int64
	UserID     int64
	StartTime  time.Time
	EndTime    time.Time
	Status     AppointmentStatus

	// Denormalized data for history
	ServiceName  string
	ServicePrice *float64
	Notes        *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ParseAppointmentStatus validates a raw status value
func ParseAppointmentStatus(raw string) (AppointmentStatus, bool) {
	s := AppointmentStatus(raw)
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return s, true
	default:
		return "", false
	}
}

// IsActive returns true unless the appointment has been cancelled.
// Only active appointments block slots.
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// CanTransitionTo reports whether the status machine allows moving to next
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	for _, s := range allowedTransitions[a.Status] {
		if s == next {
			return true
		}
	}
	return false
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.CanTransitionTo(StatusCancelled)
}

// CanBeRescheduled returns true for pending and confirmed appointments
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// DurationMinutes returns the length of the appointment interval
func (a *Appointment) DurationMinutes() int {
	return int(a.EndTime.Sub(a.StartTime) / time.Minute)
}

// AppointmentsFilter filters appointments of a business
type AppointmentsFilter struct {
	BusinessID       int64              // Required
	ServiceID        *int64             // Optional
	From             *time.Time         // Inclusive lower bound on start time
	To               *time.Time         // Exclusive upper bound on start time
	Status           *AppointmentStatus // Optional
	IncludeCancelled bool
	ExcludeID        *int64 // Skips one appointment, used when rescheduling
	ForUpdate        bool   // Lock selected rows when running inside a transaction
	Overlapping      bool   // [From, To) selects appointments intersecting it instead of starting in it
}
