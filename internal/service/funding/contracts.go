package funding

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// FundingRepository интерфейс репозитория сборов
type FundingRepository interface {
	InsertPaymentEvent(ctx context.Context, evt domain.PaymentEvent) error
	IncrementCounter(ctx context.Context, name, currency string, amount int64) (*domain.FundingCounter, error)
	Get(ctx context.Context, name string) (*domain.FundingCounter, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
