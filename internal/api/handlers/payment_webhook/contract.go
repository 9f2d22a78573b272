package payment_webhook

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/funding/models"
)

// Verifier проверяет подпись уведомления и извлекает платеж
type Verifier interface {
	Verify(body []byte, signature string) (*domain.PaymentEvent, error)
}

type FundingService interface {
	ApplyPayment(ctx context.Context, evt *domain.PaymentEvent) (*models.ApplyPaymentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
