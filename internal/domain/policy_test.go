package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookingPolicy_CheckDate(t *testing.T) {
	now := time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)
	day := func(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC) }

	limited := &BookingPolicy{AdvanceBookingDays: 7}
	unlimited := &BookingPolicy{}

	assert.ErrorIs(t, limited.CheckDate(day(9), now), ErrDateInPast)
	assert.NoError(t, limited.CheckDate(day(10), now), "today is bookable until midnight")
	assert.NoError(t, limited.CheckDate(day(17), now), "the last day of the horizon is included")
	assert.ErrorIs(t, limited.CheckDate(day(18), now), ErrBeyondBookingHorizon)
	assert.NoError(t, unlimited.CheckDate(day(31).AddDate(1, 0, 0), now))
}

func TestBookingPolicy_EarliestStart(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 15, 0, 0, time.UTC)

	p := DefaultBookingPolicy(1)

	assert.Equal(t, now.Add(time.Hour), p.EarliestStart(now))
	assert.Equal(t, now, (&BookingPolicy{}).EarliestStart(now))
}

func TestSameDay(t *testing.T) {
	assert.True(t, SameDay(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)))
	assert.False(t, SameDay(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)))
}
