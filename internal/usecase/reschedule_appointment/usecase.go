package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	policyRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/policy"
	"github.com/m04kA/SMC-AppointmentService/internal/slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/pgerrors"
)

// UseCase use case для переноса записи на другое время
type UseCase struct {
	appointmentRepo AppointmentRepository
	businessRepo    BusinessRepository
	policyRepo      PolicyRepository
	outboxRepo      OutboxRepository
	txManager       TransactionManager
	location        *time.Location
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	businessRepo BusinessRepository,
	policyRepo PolicyRepository,
	outboxRepo OutboxRepository,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		businessRepo:    businessRepo,
		policyRepo:      policyRepo,
		outboxRepo:      outboxRepo,
		txManager:       txManager,
		location:        location,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute переносит активную запись клиента на новую дату и время.
// Проверка конфликтов не учитывает саму переносимую запись.
// После переноса запись снова ожидает подтверждения (pending).
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleAppointment: appointment=%d, user=%d, date=%s, time=%s",
		req.AppointmentID, req.UserID, req.Date.Format(domain.DateFormat), req.StartTime)

	start, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("RescheduleAppointment: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now().In(uc.location)
	date := domain.StartOfDay(req.Date, uc.location)

	var (
		result        *domain.Appointment
		previousStart time.Time
	)

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Получаем запись
		appt, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("RescheduleAppointment: appointment id=%d not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("RescheduleAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		// 2. Переносить может только клиент
		if appt.UserID != req.UserID {
			uc.logger.Warn("RescheduleAppointment: user=%d is not the customer of appointment id=%d", req.UserID, appt.ID)
			return ErrAccessDenied
		}

		if !appt.CanBeRescheduled() {
			uc.logger.Warn("RescheduleAppointment: appointment id=%d has status=%s", appt.ID, appt.Status)
			return ErrCannotReschedule
		}

		// 3. Политика и дата
		policy, err := uc.policyRepo.GetWithHierarchy(txCtx, appt.BusinessID, &appt.ServiceID)
		if err != nil && !errors.Is(err, policyRepo.ErrPolicyNotFound) {
			uc.logger.Error("RescheduleAppointment: failed to get policy: %v", err)
			return fmt.Errorf("%w: failed to get policy: %v", ErrInternal, err)
		}
		if policy == nil {
			policy = domain.DefaultBookingPolicy(appt.BusinessID)
		}

		if err := validateDate(date, now, policy); err != nil {
			uc.logger.Warn("RescheduleAppointment: date validation failed: %v", err)
			return err
		}

		// 4. Часы работы и записи нового дня, кроме переносимой
		hours, err := uc.businessRepo.GetHours(txCtx, appt.BusinessID)
		if err != nil {
			uc.logger.Error("RescheduleAppointment: failed to get hours: %v", err)
			return fmt.Errorf("%w: failed to get hours: %v", ErrInternal, err)
		}

		from, to := domain.SlotRange(date, uc.location)
		appointments, err := uc.appointmentRepo.GetByBusinessWithFilter(txCtx, domain.AppointmentsFilter{
			BusinessID:  appt.BusinessID,
			From:        &from,
			To:          &to,
			ExcludeID:   &appt.ID,
			ForUpdate:   true,
			Overlapping: true,
		})
		if err != nil {
			uc.logger.Error("RescheduleAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 5. Длительность сохраняется такой же, как при создании
		slot, err := pickSlot(slots.Input{
			BusinessID:      appt.BusinessID,
			Hours:           hours,
			Appointments:    appointments,
			Date:            date,
			DurationMinutes: appt.DurationMinutes(),
			StepMinutes:     slots.DefaultStepMinutes,
			Location:        uc.location,
		}, start, now, policy)
		if err != nil {
			uc.logger.Warn("RescheduleAppointment: slot %s on %s rejected: %v", start, date.Format(domain.DateFormat), err)
			return err
		}

		if err := uc.appointmentRepo.Reschedule(txCtx, appt.ID, slot.Start, slot.End); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			uc.logger.Error("RescheduleAppointment: failed to update appointment id=%d: %v", appt.ID, err)
			return fmt.Errorf("%w: failed to update appointment: %v", ErrInternal, err)
		}

		previousStart = appt.StartTime
		appt.StartTime = slot.Start
		appt.EndTime = slot.End
		appt.Status = domain.StatusPending
		appt.UpdatedAt = now

		evt, err := domain.NewAppointmentEvent(domain.EventAppointmentRescheduled, appt, now)
		if err != nil {
			return fmt.Errorf("%w: failed to build event: %v", ErrInternal, err)
		}
		if err := uc.outboxRepo.Insert(txCtx, evt); err != nil {
			uc.logger.Error("RescheduleAppointment: failed to store event: %v", err)
			return fmt.Errorf("%w: failed to store event: %v", ErrInternal, err)
		}

		result = appt
		return nil
	})

	if err != nil {
		return nil, uc.mapTxError(err)
	}

	uc.logger.Info("RescheduleAppointment: moved appointment id=%d from %s to %s",
		result.ID, previousStart.Format(time.RFC3339), result.StartTime.Format(time.RFC3339))

	return newResponse(result, previousStart, date, start), nil
}

// mapTxError переводит ошибки транзакции в ошибки use case
func (uc *UseCase) mapTxError(err error) error {
	if isKnown(err) {
		return err
	}
	if pgerrors.IsSerializationFailure(err) {
		uc.logger.Warn("RescheduleAppointment: serialization conflict: %v", err)
		return ErrSlotNotAvailable
	}
	uc.logger.Error("RescheduleAppointment: transaction failed: %v", err)
	return fmt.Errorf("%w: transaction failed: %v", ErrInternal, err)
}
