package appointments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/infra/calendar"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	businessRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/business"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// CalendarUIDDomain домен в UID событий экспортируемого календаря
const CalendarUIDDomain = "appointments.smc.local"

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	businessRepo    BusinessRepository
	outboxRepo      OutboxRepository
	txManager       TransactionManager
	location        *time.Location
	logger          Logger
	now             func() time.Time
}

// NewService создает новый экземпляр сервиса записей
// location - часовой пояс, в котором интерпретируются даты фильтров
func NewService(
	appointmentRepo AppointmentRepository,
	businessRepo BusinessRepository,
	outboxRepo OutboxRepository,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		appointmentRepo: appointmentRepo,
		businessRepo:    businessRepo,
		outboxRepo:      outboxRepo,
		txManager:       txManager,
		location:        location,
		logger:          logger,
		now:             time.Now,
	}
}

// GetByID получает запись по ID
// Запись видит её клиент или владелец бизнеса
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%d", id, userID)

	appt, err := s.getAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkUserAccess(ctx, appt, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to appointment id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched appointment id=%d", id)
	return models.FromDomainAppointment(appt, s.location), nil
}

// GetUserAppointments получает историю записей пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserAppointments(ctx context.Context, req *models.GetUserAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetUserAppointments: fetching appointments for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.AppointmentStatus
	if req.Status != nil {
		status, err := models.ToDomainAppointmentStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserAppointments: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	appointments, err := s.appointmentRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserAppointments: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserAppointments: successfully fetched %d appointments for user=%d", len(appointments), req.UserID)
	return models.FromDomainAppointmentList(appointments, s.location), nil
}

// GetBusinessAppointments получает записи бизнеса с фильтрацией
// по услуге, периоду и статусу. Доступно только владельцу бизнеса.
func (s *Service) GetBusinessAppointments(ctx context.Context, req *models.GetBusinessAppointmentsRequest) (*models.AppointmentListResponse, error) {
	logMsg := fmt.Sprintf("GetBusinessAppointments: fetching appointments for business=%d, user=%d", req.BusinessID, req.UserID)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	s.logger.Info(logMsg)

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		s.logger.Warn("GetBusinessAppointments: end date before start date for business=%d", req.BusinessID)
		return nil, ErrInvalidTimeRange
	}

	if err := s.checkOwner(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter(s.location)
	if err != nil {
		s.logger.Warn("GetBusinessAppointments: invalid filter for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetBusinessAppointments: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: GetBusinessAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBusinessAppointments: successfully fetched %d appointments for business=%d", len(appointments), req.BusinessID)
	return models.FromDomainAppointmentList(appointments, s.location), nil
}

// Cancel отменяет запись
// Отменить может клиент или владелец бизнеса. Событие appointment.cancelled
// сохраняется в той же транзакции.
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%d", id, req.UserID)

	reason := normalizeReason(req.CancellationReason)
	if reason != nil && len(*reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason must not exceed %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	var cancelled *domain.Appointment
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		appt, err := s.getAppointment(ctx, id)
		if err != nil {
			return err
		}

		if err := s.checkUserAccess(ctx, appt, req.UserID); err != nil {
			s.logger.Warn("Cancel: access denied for user=%d to cancel appointment id=%d", req.UserID, id)
			return err
		}

		if !appt.CanBeCancelled() {
			s.logger.Warn("Cancel: appointment id=%d cannot be cancelled, status=%s", id, appt.Status)
			return ErrCannotCancel
		}

		if err := s.appointmentRepo.Cancel(ctx, id, reason); err != nil {
			return s.mapRepoError("Cancel", id, err)
		}

		now := s.now()
		appt.Status = domain.StatusCancelled
		appt.CancellationReason = reason
		appt.CancelledAt = &now
		appt.UpdatedAt = now

		if err := s.recordEvent(ctx, domain.EventAppointmentCancelled, appt, now); err != nil {
			return err
		}

		cancelled = appt
		return nil
	})
	if err != nil {
		return nil, s.wrapTxError("Cancel", err)
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", id)
	return models.FromDomainAppointment(cancelled, s.location), nil
}

// UpdateStatus обновляет статус записи по правилам машины состояний
// Доступно только владельцу бизнеса
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by user=%d", id, req.Status, req.UserID)

	newStatus, err := models.ToDomainAppointmentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, id)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	var updated *domain.Appointment
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		appt, err := s.getAppointment(ctx, id)
		if err != nil {
			return err
		}

		if err := s.checkOwner(ctx, appt.BusinessID, req.UserID); err != nil {
			return err
		}

		if !appt.CanTransitionTo(newStatus) {
			s.logger.Warn("UpdateStatus: transition %s -> %s not allowed for appointment id=%d", appt.Status, newStatus, id)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, newStatus)
		}

		// Отмена идёт через общий путь, чтобы заполнить cancelled_at
		if newStatus == domain.StatusCancelled {
			err = s.appointmentRepo.Cancel(ctx, id, nil)
		} else {
			err = s.appointmentRepo.UpdateStatus(ctx, id, newStatus)
		}
		if err != nil {
			return s.mapRepoError("UpdateStatus", id, err)
		}

		now := s.now()
		appt.Status = newStatus
		appt.UpdatedAt = now
		if newStatus == domain.StatusCancelled {
			appt.CancelledAt = &now
		}

		if err := s.recordEvent(ctx, domain.EventAppointmentStatusChanged, appt, now); err != nil {
			return err
		}

		updated = appt
		return nil
	})
	if err != nil {
		return nil, s.wrapTxError("UpdateStatus", err)
	}

	s.logger.Info("UpdateStatus: successfully updated appointment id=%d to status=%s", id, newStatus)
	return models.FromDomainAppointment(updated, s.location), nil
}

// ExportUserCalendar записывает все записи пользователя в формате iCalendar
func (s *Service) ExportUserCalendar(ctx context.Context, userID int64, w io.Writer) error {
	s.logger.Info("ExportUserCalendar: exporting appointments for user=%d", userID)

	appointments, err := s.appointmentRepo.GetByUserID(ctx, userID, nil)
	if err != nil {
		s.logger.Error("ExportUserCalendar: repository error for user=%d: %v", userID, err)
		return fmt.Errorf("%w: ExportUserCalendar - repository error: %v", ErrInternal, err)
	}

	err = calendar.Encode(w, appointments, calendar.Options{
		Name:      "My appointments",
		UIDDomain: CalendarUIDDomain,
		Now:       s.now(),
	})
	if err != nil {
		s.logger.Error("ExportUserCalendar: failed to encode calendar for user=%d: %v", userID, err)
		return fmt.Errorf("%w: ExportUserCalendar - encode: %v", ErrInternal, err)
	}

	s.logger.Info("ExportUserCalendar: exported %d appointments for user=%d", len(appointments), userID)
	return nil
}

// Вспомогательные методы

func (s *Service) getAppointment(ctx context.Context, id int64) (*domain.Appointment, error) {
	appt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}
	return appt, nil
}

// checkUserAccess проверяет, что пользователь - клиент записи или владелец бизнеса
func (s *Service) checkUserAccess(ctx context.Context, appt *domain.Appointment, userID int64) error {
	if appt.UserID == userID {
		return nil
	}

	if err := s.checkOwner(ctx, appt.BusinessID, userID); err != nil {
		if errors.Is(err, ErrInternal) {
			return err
		}
		return ErrAccessDenied
	}

	return nil
}

// checkOwner проверяет, что пользователь - владелец бизнеса
func (s *Service) checkOwner(ctx context.Context, businessID, userID int64) error {
	business, err := s.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("checkOwner: business id=%d not found", businessID)
			return ErrBusinessNotFound
		}
		s.logger.Error("checkOwner: failed to get business id=%d: %v", businessID, err)
		return fmt.Errorf("%w: checkOwner - failed to get business: %v", ErrInternal, err)
	}

	if !business.IsOwner(userID) {
		s.logger.Warn("checkOwner: user=%d is not owner of business=%d", userID, businessID)
		return ErrAccessDenied
	}
	return nil
}

func (s *Service) recordEvent(ctx context.Context, eventType string, appt *domain.Appointment, now time.Time) error {
	evt, err := domain.NewAppointmentEvent(eventType, appt, now)
	if err != nil {
		return fmt.Errorf("%w: build event: %v", ErrInternal, err)
	}
	if err := s.outboxRepo.Insert(ctx, evt); err != nil {
		s.logger.Error("recordEvent: failed to store %s for appointment id=%d: %v", eventType, appt.ID, err)
		return fmt.Errorf("%w: store event: %v", ErrInternal, err)
	}
	return nil
}

func (s *Service) mapRepoError(op string, id int64, err error) error {
	if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
		s.logger.Warn("%s: appointment id=%d not found during update", op, id)
		return ErrAppointmentNotFound
	}
	s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

// wrapTxError пропускает ошибки сервиса, остальные (begin/commit) заворачивает в ErrInternal
func (s *Service) wrapTxError(op string, err error) error {
	if isKnown(err) {
		return err
	}
	s.logger.Error("%s: transaction error: %v", op, err)
	return fmt.Errorf("%w: %s - transaction: %v", ErrInternal, op, err)
}

func normalizeReason(reason *string) *string {
	if reason == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*reason)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
