package businesses

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	Create(ctx context.Context, b *domain.Business) (*domain.Business, error)
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
	List(ctx context.Context, filter domain.BusinessListFilter) ([]*domain.Business, error)
	Count(ctx context.Context, filter domain.BusinessListFilter) (int, error)
	GetHours(ctx context.Context, businessID int64) ([]domain.BusinessHours, error)
	ReplaceHours(ctx context.Context, businessID int64, hours []domain.BusinessHours) error
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
