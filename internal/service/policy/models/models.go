package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// GetPolicyRequest запрос действующей политики (с учётом иерархии)
type GetPolicyRequest struct {
	BusinessID int64
	ServiceID  *int64 // nil - политика бизнеса
}

// UpsertPolicyRequest запрос на создание или изменение политики
type UpsertPolicyRequest struct {
	UserID                  int64  `json:"-"`
	BusinessID              int64  `json:"-"`
	ServiceID               *int64 `json:"serviceId,omitempty"`   // NULL = для всех услуг
	AdvanceBookingDays      int    `json:"advanceBookingDays"`      // 0 = без ограничений
	MinBookingNoticeMinutes int    `json:"minBookingNoticeMinutes"` // Минимальное время до записи
}

// PolicyResponse ответ с данными политики
type PolicyResponse struct {
	ID                      int64      `json:"id,omitempty"`
	BusinessID              int64      `json:"businessId"`
	ServiceID               *int64     `json:"serviceId,omitempty"`
	AdvanceBookingDays      int        `json:"advanceBookingDays"`
	MinBookingNoticeMinutes int        `json:"minBookingNoticeMinutes"`
	IsDefault               bool       `json:"isDefault"`
	CreatedAt               *time.Time `json:"createdAt,omitempty"`
	UpdatedAt               *time.Time `json:"updatedAt,omitempty"`
}

// FromDomainPolicy конвертирует domain модель в DTO
func FromDomainPolicy(p *domain.BookingPolicy) *PolicyResponse {
	if p == nil {
		return nil
	}

	resp := &PolicyResponse{
		ID:                      p.ID,
		BusinessID:              p.BusinessID,
		ServiceID:               p.ServiceID,
		AdvanceBookingDays:      p.AdvanceBookingDays,
		MinBookingNoticeMinutes: p.MinBookingNoticeMinutes,
		IsDefault:               p.IsDefault(),
	}
	if !p.IsDefault() {
		resp.CreatedAt = &p.CreatedAt
		resp.UpdatedAt = &p.UpdatedAt
	}
	return resp
}

// ToDomainPolicy конвертирует запрос в domain модель
func (r *UpsertPolicyRequest) ToDomainPolicy() *domain.BookingPolicy {
	return &domain.BookingPolicy{
		BusinessID:              r.BusinessID,
		ServiceID:               r.ServiceID,
		AdvanceBookingDays:      r.AdvanceBookingDays,
		MinBookingNoticeMinutes: r.MinBookingNoticeMinutes,
	}
}
