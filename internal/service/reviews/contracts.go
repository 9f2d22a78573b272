package reviews

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ReviewRepository интерфейс репозитория отзывов
type ReviewRepository interface {
	Create(ctx context.Context, rev *domain.Review) (*domain.Review, error)
	ListByBusiness(ctx context.Context, businessID int64, limit, offset int) ([]*domain.Review, error)
	GetSummary(ctx context.Context, businessID int64) (*domain.RatingSummary, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
}

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
