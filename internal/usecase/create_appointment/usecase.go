package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	businessRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/business"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	policyRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/policy"
	"github.com/m04kA/SMC-AppointmentService/internal/slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/pgerrors"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/tracing"
)

// UseCase use case для создания записи
type UseCase struct {
	businessRepo    BusinessRepository
	serviceRepo     ServiceRepository
	appointmentRepo AppointmentRepository
	policyRepo      PolicyRepository
	outboxRepo      OutboxRepository
	txManager       TransactionManager
	metrics         Metrics
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	businessRepo BusinessRepository,
	serviceRepo ServiceRepository,
	appointmentRepo AppointmentRepository,
	policyRepo PolicyRepository,
	outboxRepo OutboxRepository,
	txManager TransactionManager,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		businessRepo:    businessRepo,
		serviceRepo:     serviceRepo,
		appointmentRepo: appointmentRepo,
		policyRepo:      policyRepo,
		outboxRepo:      outboxRepo,
		txManager:       txManager,
		metrics:         metrics,
		location:        location,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
// Использует сериализуемую транзакцию, чтобы два клиента не заняли один слот
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := tracing.Tracer("usecase.create_appointment").Start(ctx, "CreateAppointment",
		trace.WithAttributes(
			attribute.Int64("business.id", req.BusinessID),
			attribute.Int64("service.id", req.ServiceID),
		))
	defer span.End()

	uc.logger.Info("CreateAppointment: user=%d, business=%d, service=%d, date=%s, time=%s",
		req.UserID, req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	start, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Текущее время и дата в часовом поясе бизнеса
	now := uc.timeProvider.Now().In(uc.location)
	date := domain.StartOfDay(req.Date, uc.location)

	// 3. Получаем бизнес
	if _, err := uc.businessRepo.GetByID(ctx, req.BusinessID); err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("CreateAppointment: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 4. Получаем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("CreateAppointment: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	var result *domain.Appointment

	// 5. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Получаем политику с учетом иерархии
		policy, err := uc.policyRepo.GetWithHierarchy(txCtx, req.BusinessID, ptr.Ptr(req.ServiceID))
		if err != nil && !errors.Is(err, policyRepo.ErrPolicyNotFound) {
			uc.logger.Error("CreateAppointment: failed to get policy: %v", err)
			return fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
		}
		if policy == nil {
			policy = domain.DefaultBookingPolicy(req.BusinessID)
		}

		// 5.2. Валидация даты с учетом политики
		if err := validateDate(date, now, policy); err != nil {
			uc.logger.Warn("CreateAppointment: date validation failed: %v", err)
			return err
		}

		// 5.3. Получаем часы работы
		hours, err := uc.businessRepo.GetHours(txCtx, req.BusinessID)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get hours: %v", err)
			return fmt.Errorf("%w: failed to get hours: %v", ErrInternal, err)
		}

		// 5.4. Получаем записи, пересекающие слоты дня (включая слоты после полуночи), с блокировкой (FOR UPDATE)
		from, to := domain.SlotRange(date, uc.location)
		appointments, err := uc.appointmentRepo.GetByBusinessWithFilter(txCtx, domain.AppointmentsFilter{
			BusinessID:  req.BusinessID,
			From:        &from,
			To:          &to,
			ForUpdate:   true,
			Overlapping: true,
		})
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 5.5. Проверяем, что выбранный слот свободен
		slot, err := pickSlot(slots.Input{
			BusinessID:      req.BusinessID,
			Hours:           hours,
			Appointments:    appointments,
			Date:            date,
			DurationMinutes: service.DurationMinutes,
			StepMinutes:     slots.DefaultStepMinutes,
			Location:        uc.location,
		}, start, now, policy)
		if err != nil {
			uc.logger.Warn("CreateAppointment: slot %s on %s rejected: %v", start, date.Format(domain.DateFormat), err)
			return err
		}

		// 5.6. Создаем запись с денормализацией данных услуги
		created, err := uc.appointmentRepo.Create(txCtx, &domain.Appointment{
			BusinessID:   req.BusinessID,
			ServiceID:    req.ServiceID,
			UserID:       req.UserID,
			StartTime:    slot.Start,
			EndTime:      slot.End,
			Status:       domain.StatusPending,
			ServiceName:  service.Name,
			ServicePrice: service.Price,
			Notes:        req.Notes,
		})
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		// 5.7. Событие сохраняется в той же транзакции
		evt, err := domain.NewAppointmentEvent(domain.EventAppointmentCreated, created, now)
		if err != nil {
			return fmt.Errorf("%w: failed to build event: %v", ErrInternal, err)
		}
		if err := uc.outboxRepo.Insert(txCtx, evt); err != nil {
			uc.logger.Error("CreateAppointment: failed to store event: %v", err)
			return fmt.Errorf("%w: failed to store event: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, uc.mapTxError(err)
	}

	uc.metrics.IncAppointmentsCreated(req.BusinessID)
	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	return newResponse(result, date, start), nil
}

// mapTxError переводит ошибки транзакции в ошибки use case.
// Исчерпанные повторы сериализации означают, что слот заняли параллельно.
func (uc *UseCase) mapTxError(err error) error {
	if isKnown(err) {
		return err
	}
	if pgerrors.IsSerializationFailure(err) {
		uc.logger.Warn("CreateAppointment: serialization conflict: %v", err)
		return ErrSlotNotAvailable
	}
	uc.logger.Error("CreateAppointment: transaction failed: %v", err)
	return fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
}
