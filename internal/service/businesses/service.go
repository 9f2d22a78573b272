package businesses

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	businessRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/business"
	"github.com/m04kA/SMC-AppointmentService/internal/service/businesses/models"
	"github.com/m04kA/SMC-AppointmentService/internal/slots"
)

// Service сервис каталога бизнесов и их расписания
type Service struct {
	businessRepo BusinessRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса бизнесов
func NewService(businessRepo BusinessRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		businessRepo: businessRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// Create создает бизнес, владельцем становится вызывающий пользователь
func (s *Service) Create(ctx context.Context, req *models.CreateBusinessRequest) (*models.BusinessResponse, error) {
	s.logger.Info("Create: creating business name=%q by user=%d", req.Name, req.OwnerID)

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || len([]rune(req.Name)) > domain.MaxBusinessNameLength {
		s.logger.Warn("Create: invalid name length for user=%d", req.OwnerID)
		return nil, fmt.Errorf("%w: name must be 1..%d characters", ErrInvalidInput, domain.MaxBusinessNameLength)
	}

	created, err := s.businessRepo.Create(ctx, req.ToDomainBusiness())
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	week := slots.NormalizeWeek(created.ID, nil)

	s.logger.Info("Create: successfully created business id=%d", created.ID)
	return models.FromDomainBusiness(created, week.Days()), nil
}

// GetByID получает бизнес вместе с нормализованным расписанием на неделю
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BusinessResponse, error) {
	s.logger.Info("GetByID: fetching business id=%d", id)

	business, err := s.getBusiness(ctx, id)
	if err != nil {
		return nil, err
	}

	hours, err := s.businessRepo.GetHours(ctx, id)
	if err != nil {
		s.logger.Error("GetByID: failed to get hours for business id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - hours repository error: %v", ErrInternal, err)
	}

	week := slots.NormalizeWeek(id, hours)
	return models.FromDomainBusiness(business, week.Days()), nil
}

// List возвращает страницу каталога
func (s *Service) List(ctx context.Context, req *models.ListBusinessesRequest) (*models.BusinessListResponse, error) {
	filter := domain.BusinessListFilter{
		Query:    req.Query,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = domain.DefaultPageSize
	}
	if filter.PageSize > domain.MaxPageSize {
		filter.PageSize = domain.MaxPageSize
	}

	s.logger.Info("List: fetching businesses page=%d size=%d", filter.Page, filter.PageSize)

	items, err := s.businessRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	total, err := s.businessRepo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("List: count error: %v", err)
		return nil, fmt.Errorf("%w: List - count error: %v", ErrInternal, err)
	}

	resp := &models.BusinessListResponse{
		Businesses: make([]models.BusinessResponse, 0, len(items)),
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		Total:      total,
	}
	for _, b := range items {
		resp.Businesses = append(resp.Businesses, *models.FromDomainBusiness(b, nil))
	}

	return resp, nil
}

// GetHours возвращает расписание ровно на 7 дней.
// Отсутствующие дни возвращаются закрытыми.
func (s *Service) GetHours(ctx context.Context, businessID int64) (*models.HoursResponse, error) {
	if _, err := s.getBusiness(ctx, businessID); err != nil {
		return nil, err
	}

	hours, err := s.businessRepo.GetHours(ctx, businessID)
	if err != nil {
		s.logger.Error("GetHours: repository error for business id=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetHours - repository error: %v", ErrInternal, err)
	}

	week := slots.NormalizeWeek(businessID, hours)
	return &models.HoursResponse{BusinessID: businessID, Hours: models.FromDomainHours(week.Days())}, nil
}

// UpdateHours заменяет расписание бизнеса. Доступно только владельцу.
// Дни без записи в запросе становятся закрытыми.
func (s *Service) UpdateHours(ctx context.Context, req *models.UpdateHoursRequest) (*models.HoursResponse, error) {
	s.logger.Info("UpdateHours: updating hours of business id=%d by user=%d", req.BusinessID, req.UserID)

	business, err := s.getBusiness(ctx, req.BusinessID)
	if err != nil {
		return nil, err
	}
	if !business.IsOwner(req.UserID) {
		s.logger.Warn("UpdateHours: user=%d is not owner of business=%d", req.UserID, req.BusinessID)
		return nil, ErrAccessDenied
	}

	hours := req.ToDomainHours()
	if err := validateHours(hours); err != nil {
		s.logger.Warn("UpdateHours: validation failed for business id=%d: %v", req.BusinessID, err)
		return nil, err
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		return s.businessRepo.ReplaceHours(ctx, req.BusinessID, hours)
	})
	if err != nil {
		s.logger.Error("UpdateHours: repository error for business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: UpdateHours - repository error: %v", ErrInternal, err)
	}

	week := slots.NormalizeWeek(req.BusinessID, hours)

	s.logger.Info("UpdateHours: successfully updated hours of business id=%d", req.BusinessID)
	return &models.HoursResponse{BusinessID: req.BusinessID, Hours: models.FromDomainHours(week.Days())}, nil
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

// validateHours проверяет номера дней, отсутствие повторов и формат времени открытых дней
func validateHours(hours []domain.BusinessHours) error {
	seen := make(map[int]bool, len(hours))
	for _, h := range hours {
		if !domain.ValidDayOfWeek(h.DayOfWeek) {
			return fmt.Errorf("%w: dayOfWeek must be 0..6, got %d", ErrInvalidInput, h.DayOfWeek)
		}
		if seen[h.DayOfWeek] {
			return fmt.Errorf("%w: duplicate dayOfWeek %d", ErrInvalidInput, h.DayOfWeek)
		}
		seen[h.DayOfWeek] = true

		if _, _, err := slots.OpenWindow(h); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	return nil
}
