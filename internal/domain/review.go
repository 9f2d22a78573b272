package domain

import "time"

// Review is a customer rating left for a completed appointment
type Review struct {
	ID            int64
	AppointmentID int64
	BusinessID    int64
	UserID        int64
	Rating        int
	Comment       *string
	CreatedAt     time.Time
}

// RatingSummary aggregates reviews of a business
type RatingSummary struct {
	BusinessID    int64
	AverageRating float64
	ReviewsCount  int
}
