package get_available_slots

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
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/tracing"
)

// UseCase use case для получения доступных слотов для записи
type UseCase struct {
	businessRepo    BusinessRepository
	serviceRepo     ServiceRepository
	appointmentRepo AppointmentRepository
	policyRepo      PolicyRepository
	metrics         Metrics
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
// location - часовой пояс, в котором заданы часы работы бизнесов
func NewUseCase(
	businessRepo BusinessRepository,
	serviceRepo ServiceRepository,
	appointmentRepo AppointmentRepository,
	policyRepo PolicyRepository,
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
		metrics:         metrics,
		location:        location,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := tracing.Tracer("usecase.get_available_slots").Start(ctx, "GetAvailableSlots",
		trace.WithAttributes(
			attribute.Int64("business.id", req.BusinessID),
			attribute.Int64("service.id", req.ServiceID),
		))
	defer span.End()

	uc.logger.Info("GetAvailableSlots: user=%d, business=%d, service=%d, date=%s",
		req.UserID, req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Текущее время и дата запроса в часовом поясе бизнеса
	now := uc.timeProvider.Now().In(uc.location)
	date := domain.StartOfDay(req.Date, uc.location)

	// 3. Получаем бизнес
	if _, err := uc.businessRepo.GetByID(ctx, req.BusinessID); err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("GetAvailableSlots: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 4. Получаем услугу (отключённая услуга недоступна для записи)
	service, err := uc.serviceRepo.GetByID(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.IsActive {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 5. Получаем политику с учетом иерархии
	policy, err := uc.policyRepo.GetWithHierarchy(ctx, req.BusinessID, ptr.Ptr(req.ServiceID))
	if err != nil && !errors.Is(err, policyRepo.ErrPolicyNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to get policy: %v", err)
		return nil, fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
	}
	if policy == nil {
		policy = domain.DefaultBookingPolicy(req.BusinessID)
		uc.logger.Info("GetAvailableSlots: using default policy for business=%d, service=%d", req.BusinessID, req.ServiceID)
	} else {
		uc.logger.Info("GetAvailableSlots: using policy id=%d", policy.ID)
	}

	// 6. Валидация даты с учетом политики
	if err := validateDate(date, now, policy); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	resp := &Response{
		Date:            date,
		BusinessID:      req.BusinessID,
		ServiceID:       req.ServiceID,
		DurationMinutes: service.DurationMinutes,
		Slots:           []Slot{},
	}

	// 7. Получаем часы работы. При ошибке отдаём пустой список, а не ошибку.
	hours, err := uc.businessRepo.GetHours(ctx, req.BusinessID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get hours for business=%d: %v", req.BusinessID, err)
		return uc.degraded(resp, "business hours are temporarily unavailable"), nil
	}

	// 8. Получаем записи, пересекающие слоты этого дня
	from, to := domain.SlotRange(date, uc.location)
	appointments, err := uc.appointmentRepo.GetByBusinessWithFilter(ctx, domain.AppointmentsFilter{
		BusinessID:  req.BusinessID,
		From:        &from,
		To:          &to,
		Overlapping: true,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments for business=%d: %v", req.BusinessID, err)
		return uc.degraded(resp, "appointments are temporarily unavailable"), nil
	}

	// 9. Считаем свободные слоты
	result, err := slots.Compute(slots.Input{
		BusinessID:      req.BusinessID,
		Hours:           hours,
		Appointments:    appointments,
		Date:            date,
		DurationMinutes: service.DurationMinutes,
		StepMinutes:     slots.DefaultStepMinutes,
		Location:        uc.location,
	})
	if err != nil {
		if errors.Is(err, slots.ErrMalformedHours) {
			uc.logger.Error("GetAvailableSlots: malformed hours for business=%d: %v", req.BusinessID, err)
			resp.Diagnostic = ptr.Ptr(fmt.Sprintf("business hours for day %d are malformed", result.DayIndex))
			uc.metrics.ObserveSlotComputation(req.BusinessID, OutcomeMalformedHours, 0)
			return resp, nil
		}
		uc.logger.Error("GetAvailableSlots: failed to compute slots: %v", err)
		return nil, fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
	}

	if result.Hours.IsClosed {
		uc.logger.Info("GetAvailableSlots: business is closed on %s", date.Format(domain.DateFormat))
		uc.metrics.ObserveSlotComputation(req.BusinessID, OutcomeClosed, 0)
		return resp, nil
	}

	// 10. Сегодня отбрасываем слоты раньше минимального времени до записи
	free := result.Slots
	if domain.SameDay(date, now) {
		free = slots.StartingFrom(free, policy.EarliestStart(now))
	}

	resp.Slots = toResponseSlots(free)
	uc.metrics.ObserveSlotComputation(req.BusinessID, OutcomeOK, len(resp.Slots))
	span.SetAttributes(attribute.Int("slots.count", len(resp.Slots)))

	uc.logger.Info("GetAvailableSlots: generated %d slots for business=%d, service=%d, date=%s",
		len(resp.Slots), req.BusinessID, req.ServiceID, date.Format(domain.DateFormat))

	return resp, nil
}

// degraded помечает ответ как неполный
func (uc *UseCase) degraded(resp *Response, reason string) *Response {
	resp.Degraded = true
	resp.Diagnostic = ptr.Ptr(reason)
	resp.Slots = []Slot{}
	uc.metrics.ObserveSlotComputation(resp.BusinessID, OutcomeDegraded, 0)
	return resp
}
