package get_funding

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/service/funding/models"
)

type FundingService interface {
	Get(ctx context.Context, name string) (*models.CounterResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
