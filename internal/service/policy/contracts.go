package policy

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// PolicyRepository интерфейс репозитория политик бронирования
type PolicyRepository interface {
	Create(ctx context.Context, p *domain.BookingPolicy) (*domain.BookingPolicy, error)
	GetByBusinessAndService(ctx context.Context, businessID int64, serviceID *int64) (*domain.BookingPolicy, error)
	GetWithHierarchy(ctx context.Context, businessID int64, serviceID *int64) (*domain.BookingPolicy, error)
	GetAllByBusiness(ctx context.Context, businessID int64) ([]*domain.BookingPolicy, error)
	Update(ctx context.Context, id int64, p *domain.BookingPolicy) (*domain.BookingPolicy, error)
}

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, businessID, id int64) (*domain.Service, error)
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
