package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Request модели

// CreateBusinessRequest запрос на создание бизнеса
type CreateBusinessRequest struct {
	OwnerID     int64   `json:"-"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Address     *string `json:"address,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
}

// ListBusinessesRequest запрос страницы каталога
type ListBusinessesRequest struct {
	Page     int
	PageSize int
	Query    *string
}

// DayHours расписание одного дня недели (0 - понедельник)
type DayHours struct {
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime"` // "09:00" или "09.00"
	EndTime   string `json:"endTime"`
	IsClosed  bool   `json:"isClosed"`
}

// UpdateHoursRequest запрос на замену недельного расписания
type UpdateHoursRequest struct {
	UserID     int64      `json:"-"`
	BusinessID int64      `json:"-"`
	Hours      []DayHours `json:"hours"`
}

// Response модели

// BusinessResponse ответ с данными бизнеса и его расписанием на неделю
type BusinessResponse struct {
	ID          int64      `json:"id"`
	OwnerID     int64      `json:"ownerId"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Address     *string    `json:"address,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	ImageURL    *string    `json:"imageUrl,omitempty"`
	Hours       []DayHours `json:"hours,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// BusinessListResponse страница каталога
type BusinessListResponse struct {
	Businesses []BusinessResponse `json:"businesses"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	Total      int                `json:"total"`
}

// HoursResponse расписание бизнеса, всегда 7 дней
type HoursResponse struct {
	BusinessID int64      `json:"businessId"`
	Hours      []DayHours `json:"hours"`
}

// Методы конвертации

// FromDomainBusiness конвертирует domain модель в DTO
func FromDomainBusiness(b *domain.Business, hours []domain.BusinessHours) *BusinessResponse {
	if b == nil {
		return nil
	}

	return &BusinessResponse{
		ID:          b.ID,
		OwnerID:     b.OwnerID,
		Name:        b.Name,
		Description: b.Description,
		Address:     b.Address,
		Phone:       b.Phone,
		ImageURL:    b.ImageURL,
		Hours:       FromDomainHours(hours),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// FromDomainHours конвертирует записи расписания в DTO
func FromDomainHours(hours []domain.BusinessHours) []DayHours {
	if hours == nil {
		return nil
	}
	result := make([]DayHours, len(hours))
	for i, h := range hours {
		result[i] = DayHours{
			DayOfWeek: h.DayOfWeek,
			StartTime: h.StartTime,
			EndTime:   h.EndTime,
			IsClosed:  h.IsClosed,
		}
	}
	return result
}

// ToDomainBusiness конвертирует запрос в domain модель
func (r *CreateBusinessRequest) ToDomainBusiness() *domain.Business {
	return &domain.Business{
		OwnerID:     r.OwnerID,
		Name:        r.Name,
		Description: r.Description,
		Address:     r.Address,
		Phone:       r.Phone,
		ImageURL:    r.ImageURL,
	}
}

// ToDomainHours конвертирует запрос в записи расписания
func (r *UpdateHoursRequest) ToDomainHours() []domain.BusinessHours {
	hours := make([]domain.BusinessHours, len(r.Hours))
	for i, h := range r.Hours {
		hours[i] = domain.BusinessHours{
			BusinessID: r.BusinessID,
			DayOfWeek:  h.DayOfWeek,
			StartTime:  h.StartTime,
			EndTime:    h.EndTime,
			IsClosed:   h.IsClosed,
		}
		if h.IsClosed && h.StartTime == "" && h.EndTime == "" {
			hours[i].StartTime = domain.ClosedDayPlaceholder
			hours[i].EndTime = domain.ClosedDayPlaceholder
		}
	}
	return hours
}
