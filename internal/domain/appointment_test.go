package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppointment_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from AppointmentStatus
		to   AppointmentStatus
		want bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusConfirmed, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			a := &Appointment{Status: tt.from}
			assert.Equal(t, tt.want, a.CanTransitionTo(tt.to))
		})
	}
}

func TestAppointment_IsActive(t *testing.T) {
	assert.True(t, (&Appointment{Status: StatusPending}).IsActive())
	assert.True(t, (&Appointment{Status: StatusCompleted}).IsActive())
	assert.False(t, (&Appointment{Status: StatusCancelled}).IsActive())
}

func TestAppointment_DurationMinutes(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	a := &Appointment{StartTime: start, EndTime: start.Add(45 * time.Minute)}
	assert.Equal(t, 45, a.DurationMinutes())
}

func TestParseAppointmentStatus(t *testing.T) {
	s, ok := ParseAppointmentStatus("confirmed")
	assert.True(t, ok)
	assert.Equal(t, StatusConfirmed, s)

	_, ok = ParseAppointmentStatus("no_show")
	assert.False(t, ok)
}

func TestDayRange(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	start, end := DayRange(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), loc)

	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, loc), end)
}

func TestSlotRange(t *testing.T) {
	start, end := SlotRange(time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC), time.UTC)

	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), end)
}

func TestBusinessHours_Key(t *testing.T) {
	assert.Equal(t, "12-6", BusinessHours{BusinessID: 12, DayOfWeek: 6}.Key())
}
