package domain

// Scheduling constants
const (
	DaysInWeek           = 7
	SlotStepMinutes      = 30
	ClosedDayPlaceholder = "00:00"
	MinutesPerDay        = 24 * 60
)

// Default policy values
const (
	DefaultAdvanceBookingDays      = 0  // 0 = unlimited
	DefaultMinBookingNoticeMinutes = 60 // 1 hour
)

// Business validation constants
const (
	MinServiceDurationMinutes   = 5
	MaxServiceDurationMinutes   = 480 // 8 hours
	MinAdvanceBookingDays       = 0
	MaxAdvanceBookingDays       = 365 // 1 year
	MinBookingNoticeMinutes     = 0
	MaxBookingNoticeMinutes     = 10080 // 1 week
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxBusinessNameLength       = 200
	MaxServiceNameLength        = 200
	MinRating                   = 1
	MaxRating                   = 5
	MaxReviewCommentLength      = 1000
	DefaultPageSize             = 20
	MaxPageSize                 = 100
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
