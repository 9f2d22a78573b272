package domain

import (
	"fmt"
	"time"
)

// Business is a bookable business owned by a single user
type Business struct {
	ID          int64
	OwnerID     int64
	Name        string
	Description *string
	Address     *string
	Phone       *string
	ImageURL    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOwner returns true if userID owns the business
func (b *Business) IsOwner(userID int64) bool {
	return b.OwnerID == userID
}

// BusinessHours is the opening interval of a business for one weekday.
// DayOfWeek is 0 for Monday through 6 for Sunday.
// StartTime and EndTime are raw "HH:MM" or "HH.MM" strings as stored.
type BusinessHours struct {
	ID         int64
	BusinessID int64
	DayOfWeek  int
	StartTime  string
	EndTime    string
	IsClosed   bool
}

// Key identifies the record by business and day, stable for synthesized days
func (h BusinessHours) Key() string {
	return fmt.Sprintf("%d-%d", h.BusinessID, h.DayOfWeek)
}

// ValidDayOfWeek reports whether day is in 0..6
func ValidDayOfWeek(day int) bool {
	return day >= 0 && day < DaysInWeek
}

// BusinessListFilter paging and search for the business catalogue
type BusinessListFilter struct {
	Query    *string
	OwnerID  *int64
	Page     int
	PageSize int
}

// Offset returns the SQL offset for the page (pages start at 1)
func (f BusinessListFilter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}
