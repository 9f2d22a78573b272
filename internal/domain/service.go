package domain

import "time"

// Service is a bookable offering of a business with a fixed duration
type Service struct {
	ID              int64
	BusinessID      int64
	Name            string
	Description     *string
	DurationMinutes int
	Price           *float64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
