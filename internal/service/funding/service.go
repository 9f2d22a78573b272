package funding

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	fundingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/funding"
	"github.com/m04kA/SMC-AppointmentService/internal/service/funding/models"
)

// errDuplicate откатывает транзакцию при повторном уведомлении
var errDuplicate = errors.New("duplicate payment event")

// Service сервис счётчиков сборов
type Service struct {
	fundingRepo FundingRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса сборов
func NewService(fundingRepo FundingRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		fundingRepo: fundingRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// ApplyPayment применяет проверенное уведомление о платеже.
// Уведомление с уже известным (provider, event_id) не меняет счётчик
// и возвращается с Duplicate=true.
func (s *Service) ApplyPayment(ctx context.Context, evt *domain.PaymentEvent) (*models.ApplyPaymentResponse, error) {
	s.logger.Info("ApplyPayment: applying %s event id=%s to counter=%s, amount=%d %s",
		evt.Provider, evt.EventID, evt.CounterName, evt.Amount, evt.Currency)

	if evt.EventID == "" || evt.CounterName == "" || evt.Amount <= 0 || evt.Currency == "" {
		s.logger.Warn("ApplyPayment: invalid event id=%q", evt.EventID)
		return nil, ErrInvalidInput
	}

	var counter *domain.FundingCounter
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		existing, err := s.fundingRepo.Get(ctx, evt.CounterName)
		switch {
		case err == nil:
			if !strings.EqualFold(existing.Currency, evt.Currency) {
				return fmt.Errorf("%w: counter %s is in %s, payment in %s",
					ErrCurrencyMismatch, evt.CounterName, existing.Currency, evt.Currency)
			}
		case !errors.Is(err, fundingRepo.ErrCounterNotFound):
			return err
		}

		if err := s.fundingRepo.InsertPaymentEvent(ctx, *evt); err != nil {
			if errors.Is(err, fundingRepo.ErrDuplicateEvent) {
				counter = existing
				return errDuplicate
			}
			return err
		}

		counter, err = s.fundingRepo.IncrementCounter(ctx, evt.CounterName, evt.Currency, evt.Amount)
		return err
	})

	switch {
	case err == nil:
		s.logger.Info("ApplyPayment: counter=%s total=%d after event id=%s", counter.Name, counter.TotalAmount, evt.EventID)
		return &models.ApplyPaymentResponse{Counter: models.FromDomainCounter(counter)}, nil
	case errors.Is(err, errDuplicate):
		s.logger.Info("ApplyPayment: event id=%s already applied, skipping", evt.EventID)
		return &models.ApplyPaymentResponse{Counter: models.FromDomainCounter(counter), Duplicate: true}, nil
	case errors.Is(err, ErrCurrencyMismatch):
		s.logger.Warn("ApplyPayment: %v", err)
		return nil, err
	default:
		s.logger.Error("ApplyPayment: failed to apply event id=%s: %v", evt.EventID, err)
		return nil, fmt.Errorf("%w: ApplyPayment - repository error: %v", ErrInternal, err)
	}
}

// Get возвращает счётчик по имени
func (s *Service) Get(ctx context.Context, name string) (*models.CounterResponse, error) {
	s.logger.Info("Get: fetching funding counter=%s", name)

	counter, err := s.fundingRepo.Get(ctx, name)
	if err != nil {
		if errors.Is(err, fundingRepo.ErrCounterNotFound) {
			s.logger.Warn("Get: counter=%s not found", name)
			return nil, ErrCounterNotFound
		}
		s.logger.Error("Get: repository error for counter=%s: %v", name, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainCounter(counter), nil
}
