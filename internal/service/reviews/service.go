package reviews

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	businessRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/business"
	reviewRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/review"
	"github.com/m04kA/SMC-AppointmentService/internal/service/reviews/models"
)

// Service сервис отзывов
type Service struct {
	reviewRepo      ReviewRepository
	appointmentRepo AppointmentRepository
	businessRepo    BusinessRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса отзывов
func NewService(
	reviewRepo ReviewRepository,
	appointmentRepo AppointmentRepository,
	businessRepo BusinessRepository,
	logger Logger,
) *Service {
	return &Service{
		reviewRepo:      reviewRepo,
		appointmentRepo: appointmentRepo,
		businessRepo:    businessRepo,
		logger:          logger,
	}
}

// Create создает отзыв на завершённую запись
// Отзыв оставляет только клиент записи, один раз
func (s *Service) Create(ctx context.Context, req *models.CreateReviewRequest) (*models.ReviewResponse, error) {
	s.logger.Info("Create: creating review for appointment id=%d by user=%d", req.AppointmentID, req.UserID)

	comment, err := validateReview(req.Rating, req.Comment)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	appt, err := s.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Create: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("Create: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: Create - failed to get appointment: %v", ErrInternal, err)
	}

	if appt.UserID != req.UserID {
		s.logger.Warn("Create: user=%d is not the customer of appointment id=%d", req.UserID, req.AppointmentID)
		return nil, ErrAccessDenied
	}

	if appt.Status != domain.StatusCompleted {
		s.logger.Warn("Create: appointment id=%d has status=%s", req.AppointmentID, appt.Status)
		return nil, ErrAppointmentNotCompleted
	}

	created, err := s.reviewRepo.Create(ctx, &domain.Review{
		AppointmentID: appt.ID,
		BusinessID:    appt.BusinessID,
		UserID:        req.UserID,
		Rating:        req.Rating,
		Comment:       comment,
	})
	if err != nil {
		if errors.Is(err, reviewRepo.ErrDuplicateReview) {
			s.logger.Warn("Create: review for appointment id=%d already exists", req.AppointmentID)
			return nil, ErrReviewAlreadyExists
		}
		s.logger.Error("Create: repository error for appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created review id=%d", created.ID)
	return models.FromDomainReview(created), nil
}

// ListByBusiness возвращает страницу отзывов бизнеса и среднюю оценку
func (s *Service) ListByBusiness(ctx context.Context, req *models.ListReviewsRequest) (*models.ReviewListResponse, error) {
	page, pageSize := req.Page, req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}
	if pageSize > domain.MaxPageSize {
		pageSize = domain.MaxPageSize
	}

	s.logger.Info("ListByBusiness: fetching reviews for business=%d, page=%d, pageSize=%d", req.BusinessID, page, pageSize)

	if _, err := s.businessRepo.GetByID(ctx, req.BusinessID); err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("ListByBusiness: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("ListByBusiness: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: ListByBusiness - failed to get business: %v", ErrInternal, err)
	}

	items, err := s.reviewRepo.ListByBusiness(ctx, req.BusinessID, pageSize, (page-1)*pageSize)
	if err != nil {
		s.logger.Error("ListByBusiness: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: ListByBusiness - repository error: %v", ErrInternal, err)
	}

	summary, err := s.reviewRepo.GetSummary(ctx, req.BusinessID)
	if err != nil {
		s.logger.Error("ListByBusiness: failed to get summary for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: ListByBusiness - summary: %v", ErrInternal, err)
	}
	summary.AverageRating = math.Round(summary.AverageRating*100) / 100

	s.logger.Info("ListByBusiness: fetched %d reviews for business=%d", len(items), req.BusinessID)
	return models.FromDomainReviewList(items, summary, page, pageSize), nil
}

// validateReview проверяет оценку и комментарий, возвращает обрезанный комментарий
func validateReview(rating int, comment *string) (*string, error) {
	if rating < domain.MinRating || rating > domain.MaxRating {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidInput, domain.MinRating, domain.MaxRating)
	}

	if comment == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*comment)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) > domain.MaxReviewCommentLength {
		return nil, fmt.Errorf("%w: comment must not exceed %d characters", ErrInvalidInput, domain.MaxReviewCommentLength)
	}
	return &trimmed, nil
}
