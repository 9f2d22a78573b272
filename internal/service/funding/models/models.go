package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// CounterResponse ответ с состоянием счётчика сборов
type CounterResponse struct {
	Name          string    `json:"name"`
	Currency      string    `json:"currency"`
	TotalAmount   int64     `json:"totalAmount"` // в минимальных единицах валюты
	Contributions int64     `json:"contributions"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ApplyPaymentResponse результат применения платежа
type ApplyPaymentResponse struct {
	Counter   *CounterResponse `json:"counter,omitempty"`
	Duplicate bool             `json:"duplicate"` // уведомление уже было применено ранее
}

// FromDomainCounter конвертирует domain модель в DTO
func FromDomainCounter(c *domain.FundingCounter) *CounterResponse {
	if c == nil {
		return nil
	}
	return &CounterResponse{
		Name:          c.Name,
		Currency:      c.Currency,
		TotalAmount:   c.TotalAmount,
		Contributions: c.Contributions,
		UpdatedAt:     c.UpdatedAt,
	}
}
