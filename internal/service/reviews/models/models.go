package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// CreateReviewRequest запрос на создание отзыва
type CreateReviewRequest struct {
	UserID        int64   `json:"-"`
	AppointmentID int64   `json:"-"`
	Rating        int     `json:"rating"`
	Comment       *string `json:"comment,omitempty"`
}

// ListReviewsRequest запрос на получение отзывов бизнеса
type ListReviewsRequest struct {
	BusinessID int64
	Page       int
	PageSize   int
}

// ReviewResponse ответ с данными отзыва
type ReviewResponse struct {
	ID            int64     `json:"id"`
	AppointmentID int64     `json:"appointmentId"`
	BusinessID    int64     `json:"businessId"`
	UserID        int64     `json:"userId"`
	Rating        int       `json:"rating"`
	Comment       *string   `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ReviewListResponse ответ со списком отзывов и средней оценкой
type ReviewListResponse struct {
	Reviews       []ReviewResponse `json:"reviews"`
	AverageRating float64          `json:"averageRating"`
	ReviewsCount  int              `json:"reviewsCount"`
	Page          int              `json:"page"`
	PageSize      int              `json:"pageSize"`
}

// FromDomainReview конвертирует domain модель в DTO
func FromDomainReview(r *domain.Review) *ReviewResponse {
	if r == nil {
		return nil
	}
	return &ReviewResponse{
		ID:            r.ID,
		AppointmentID: r.AppointmentID,
		BusinessID:    r.BusinessID,
		UserID:        r.UserID,
		Rating:        r.Rating,
		Comment:       r.Comment,
		CreatedAt:     r.CreatedAt,
	}
}

// FromDomainReviewList собирает ответ со списком отзывов
func FromDomainReviewList(reviews []*domain.Review, summary *domain.RatingSummary, page, pageSize int) *ReviewListResponse {
	resp := &ReviewListResponse{
		Reviews:  make([]ReviewResponse, 0, len(reviews)),
		Page:     page,
		PageSize: pageSize,
	}
	for _, r := range reviews {
		if item := FromDomainReview(r); item != nil {
			resp.Reviews = append(resp.Reviews, *item)
		}
	}
	if summary != nil {
		resp.AverageRating = summary.AverageRating
		resp.ReviewsCount = summary.ReviewsCount
	}
	return resp
}
