package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	businessRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/business"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/service/catalog/models"
)

// Service сервис услуг бизнеса
type Service struct {
	serviceRepo  ServiceRepository
	businessRepo BusinessRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса услуг
func NewService(serviceRepo ServiceRepository, businessRepo BusinessRepository, logger Logger) *Service {
	return &Service{
		serviceRepo:  serviceRepo,
		businessRepo: businessRepo,
		logger:       logger,
	}
}

// ListByBusiness возвращает услуги бизнеса.
// Владелец видит и неактивные услуги, остальные только активные.
func (s *Service) ListByBusiness(ctx context.Context, businessID int64, userID *int64) (*models.ServiceListResponse, error) {
	business, err := s.getBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}

	activeOnly := userID == nil || !business.IsOwner(*userID)

	services, err := s.serviceRepo.ListByBusiness(ctx, businessID, activeOnly)
	if err != nil {
		s.logger.Error("ListByBusiness: repository error for business id=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: ListByBusiness - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainServiceList(services), nil
}

// GetByID получает услугу бизнеса
func (s *Service) GetByID(ctx context.Context, businessID, serviceID int64) (*models.ServiceResponse, error) {
	svc, err := s.serviceRepo.GetByID(ctx, businessID, serviceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("GetByID: repository error for service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainService(svc), nil
}

// Create создает услугу. Доступно только владельцу бизнеса.
func (s *Service) Create(ctx context.Context, req *models.CreateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Create: creating service %q for business=%d by user=%d", req.Name, req.BusinessID, req.UserID)

	if err := s.checkOwner(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	svc := req.ToDomainService()
	svc.Name = strings.TrimSpace(svc.Name)
	if err := validateService(svc); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	created, err := s.serviceRepo.Create(ctx, svc)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrDuplicateService) {
			return nil, ErrServiceAlreadyExists
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created service id=%d", created.ID)
	return models.FromDomainService(created), nil
}

// Update изменяет услугу. Доступно только владельцу бизнеса.
func (s *Service) Update(ctx context.Context, req *models.UpdateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("Update: updating service id=%d of business=%d by user=%d", req.ServiceID, req.BusinessID, req.UserID)

	if err := s.checkOwner(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	svc, err := s.serviceRepo.GetByID(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("Update: repository error for service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	req.ApplyTo(svc)
	svc.Name = strings.TrimSpace(svc.Name)
	if err := validateService(svc); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	updated, err := s.serviceRepo.Update(ctx, svc)
	if err != nil {
		switch {
		case errors.Is(err, catalogRepo.ErrServiceNotFound):
			return nil, ErrServiceNotFound
		case errors.Is(err, catalogRepo.ErrDuplicateService):
			return nil, ErrServiceAlreadyExists
		}
		s.logger.Error("Update: repository error for service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainService(updated), nil
}

// Deactivate скрывает услугу из каталога. Доступно только владельцу бизнеса.
func (s *Service) Deactivate(ctx context.Context, businessID, serviceID, userID int64) error {
	s.logger.Info("Deactivate: deactivating service id=%d of business=%d by user=%d", serviceID, businessID, userID)

	if err := s.checkOwner(ctx, businessID, userID); err != nil {
		return err
	}

	if err := s.serviceRepo.Deactivate(ctx, businessID, serviceID); err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			return ErrServiceNotFound
		}
		s.logger.Error("Deactivate: repository error for service id=%d: %v", serviceID, err)
		return fmt.Errorf("%w: Deactivate - repository error: %v", ErrInternal, err)
	}

	return nil
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

func validateService(svc *domain.Service) error {
	if svc.Name == "" || len([]rune(svc.Name)) > domain.MaxServiceNameLength {
		return fmt.Errorf("%w: name must be 1..%d characters", ErrInvalidInput, domain.MaxServiceNameLength)
	}
	if svc.DurationMinutes < domain.MinServiceDurationMinutes || svc.DurationMinutes > domain.MaxServiceDurationMinutes {
		return fmt.Errorf("%w: durationMinutes must be %d..%d", ErrInvalidInput,
			domain.MinServiceDurationMinutes, domain.MaxServiceDurationMinutes)
	}
	if svc.Price != nil && *svc.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	return nil
}
