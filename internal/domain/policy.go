package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrDateInPast means the requested calendar date is before today
	ErrDateInPast = errors.New("date is in the past")

	// ErrBeyondBookingHorizon means the date is further ahead than AdvanceBookingDays allows
	ErrBeyondBookingHorizon = errors.New("date is beyond the booking horizon")
)

// BookingPolicy limits how far ahead and how late appointments can be booked.
// Supports hierarchical configuration:
// 1. Service-specific (business_id, service_id)
// 2. Business-wide (business_id, NULL)
type BookingPolicy struct {
	ID                      int64
	BusinessID              int64
	ServiceID               *int64 // NULL = policy for all services
	AdvanceBookingDays      int    // 0 = unlimited
	MinBookingNoticeMinutes int
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// DefaultBookingPolicy is used when a business has no stored policy
func DefaultBookingPolicy(businessID int64) *BookingPolicy {
	return &BookingPolicy{
		BusinessID:              businessID,
		AdvanceBookingDays:      DefaultAdvanceBookingDays,
		MinBookingNoticeMinutes: DefaultMinBookingNoticeMinutes,
	}
}

// IsBusinessWide returns true if this policy applies to all services
func (p *BookingPolicy) IsBusinessWide() bool {
	return p.ServiceID == nil
}

// IsDefault returns true if the policy was not loaded from storage
func (p *BookingPolicy) IsDefault() bool {
	return p.ID == 0
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (p *BookingPolicy) HasAdvanceBookingLimit() bool {
	return p.AdvanceBookingDays > 0
}

// CheckDate reports whether date can be booked at now.
// Only calendar dates are compared; date and now must share a location.
func (p *BookingPolicy) CheckDate(date, now time.Time) error {
	loc := now.Location()
	day, today := StartOfDay(date, loc), StartOfDay(now, loc)

	if day.Before(today) {
		return ErrDateInPast
	}
	if p.HasAdvanceBookingLimit() && day.After(today.AddDate(0, 0, p.AdvanceBookingDays)) {
		return fmt.Errorf("%w: at most %d days ahead", ErrBeyondBookingHorizon, p.AdvanceBookingDays)
	}
	return nil
}

// EarliestStart is the first moment a slot may start when booking at now
func (p *BookingPolicy) EarliestStart(now time.Time) time.Time {
	return now.Add(time.Duration(p.MinBookingNoticeMinutes) * time.Minute)
}
