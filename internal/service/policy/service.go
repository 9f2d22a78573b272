package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	businessRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/business"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	policyRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/policy"
	"github.com/m04kA/SMC-AppointmentService/internal/service/policy/models"
)

// Service сервис политик бронирования
type Service struct {
	policyRepo   PolicyRepository
	businessRepo BusinessRepository
	serviceRepo  ServiceRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса политик
func NewService(
	policyRepo PolicyRepository,
	businessRepo BusinessRepository,
	serviceRepo ServiceRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		policyRepo:   policyRepo,
		businessRepo: businessRepo,
		serviceRepo:  serviceRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetWithHierarchy возвращает действующую политику
// Приоритет: услуга > бизнес > значения по умолчанию
func (s *Service) GetWithHierarchy(ctx context.Context, req *models.GetPolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("GetWithHierarchy: fetching policy for business=%d, service=%v", req.BusinessID, req.ServiceID)

	if _, err := s.getBusiness(ctx, req.BusinessID); err != nil {
		return nil, err
	}

	p, err := s.policyRepo.GetWithHierarchy(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if !errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Error("GetWithHierarchy: repository error for business=%d: %v", req.BusinessID, err)
			return nil, fmt.Errorf("%w: GetWithHierarchy - repository error: %v", ErrInternal, err)
		}
		s.logger.Info("GetWithHierarchy: no policy for business=%d, using defaults", req.BusinessID)
		p = domain.DefaultBookingPolicy(req.BusinessID)
	}

	return models.FromDomainPolicy(p), nil
}

// ListByBusiness возвращает все сохранённые политики бизнеса. Доступно только владельцу.
func (s *Service) ListByBusiness(ctx context.Context, businessID, userID int64) ([]*models.PolicyResponse, error) {
	if err := s.checkOwner(ctx, businessID, userID); err != nil {
		return nil, err
	}

	policies, err := s.policyRepo.GetAllByBusiness(ctx, businessID)
	if err != nil {
		s.logger.Error("ListByBusiness: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: ListByBusiness - repository error: %v", ErrInternal, err)
	}

	resp := make([]*models.PolicyResponse, 0, len(policies))
	for _, p := range policies {
		resp = append(resp, models.FromDomainPolicy(p))
	}
	return resp, nil
}

// Upsert создает политику уровня (бизнес, услуга) или обновляет существующую.
// Доступно только владельцу бизнеса.
func (s *Service) Upsert(ctx context.Context, req *models.UpsertPolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("Upsert: saving policy for business=%d, service=%v by user=%d", req.BusinessID, req.ServiceID, req.UserID)

	if err := validatePolicy(req.AdvanceBookingDays, req.MinBookingNoticeMinutes); err != nil {
		s.logger.Warn("Upsert: validation failed: %v", err)
		return nil, err
	}

	if err := s.checkOwner(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	if req.ServiceID != nil {
		if _, err := s.serviceRepo.GetByID(ctx, req.BusinessID, *req.ServiceID); err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				s.logger.Warn("Upsert: service id=%d not found in business=%d", *req.ServiceID, req.BusinessID)
				return nil, ErrServiceNotFound
			}
			s.logger.Error("Upsert: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
	}

	var saved *domain.BookingPolicy
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		existing, err := s.policyRepo.GetByBusinessAndService(ctx, req.BusinessID, req.ServiceID)
		switch {
		case err == nil:
			saved, err = s.policyRepo.Update(ctx, existing.ID, req.ToDomainPolicy())
			return err
		case errors.Is(err, policyRepo.ErrPolicyNotFound):
			saved, err = s.policyRepo.Create(ctx, req.ToDomainPolicy())
			return err
		default:
			return err
		}
	})
	if err != nil {
		s.logger.Error("Upsert: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: successfully saved policy id=%d", saved.ID)
	return models.FromDomainPolicy(saved), nil
}

func (s *Service) getBusiness(ctx context.Context, id int64) (*domain.Business, error) {
	business, err := s.businessRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("business id=%d not found", id)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("failed to get business id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}
	return business, nil
}

func (s *Service) checkOwner(ctx context.Context, businessID, userID int64) error {
	business, err := s.getBusiness(ctx, businessID)
	if err != nil {
		return err
	}
	if !business.IsOwner(userID) {
		s.logger.Warn("checkOwner: user=%d is not owner of business=%d", userID, businessID)
		return ErrAccessDenied
	}
	return nil
}

// validatePolicy проверяет диапазоны значений политики
func validatePolicy(advanceBookingDays, minBookingNoticeMinutes int) error {
	if advanceBookingDays < domain.MinAdvanceBookingDays || advanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}
	if minBookingNoticeMinutes < domain.MinBookingNoticeMinutes || minBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: minBookingNoticeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBookingNoticeMinutes, domain.MaxBookingNoticeMinutes)
	}
	return nil
}
