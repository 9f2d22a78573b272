package domain

import "time"

// FundingCounter accumulates verified payment notifications under a name
type FundingCounter struct {
	Name          string
	Currency      string
	TotalAmount   int64 // minor units
	Contributions int64
	UpdatedAt     time.Time
}

// PaymentEvent is a verified provider notification applied at most once
type PaymentEvent struct {
	Provider    string
	EventID     string
	EventType   string
	CounterName string
	Amount      int64
	Currency    string
	OccurredAt  time.Time
}
