package payment_webhook

import (
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/payments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/funding"
)

// SignatureHeader заголовок с подписью уведомления
const SignatureHeader = "Stripe-Signature"

const (
	msgBodyTooLarge       = "тело запроса слишком большое"
	msgInvalidSignature   = "некорректная подпись"
	msgInvalidPayload     = "некорректное уведомление"
	msgNotConfigured      = "прием платежей не настроен"
	msgCurrencyMismatch   = "валюта платежа не совпадает с валютой сбора"
	statusIgnored         = "ignored"
	statusApplied         = "applied"
	statusAlreadyReceived = "duplicate"
)

// WebhookResponse ответ провайдеру
type WebhookResponse struct {
	Status string `json:"status"`
}

type Handler struct {
	verifier Verifier
	service  FundingService
	logger   Logger
}

func NewHandler(verifier Verifier, service FundingService, logger Logger) *Handler {
	return &Handler{
		verifier: verifier,
		service:  service,
		logger:   logger,
	}
}

// Handle POST /api/v1/webhooks/payments
// Аутентификация только по подписи. Повторная доставка того же события отвечает 200.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, handlers.MaxBodyBytes))
	if err != nil {
		h.logger.Warn("POST /webhooks/payments - Failed to read body: %v", err)
		handlers.RespondError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
		return
	}

	evt, err := h.verifier.Verify(body, r.Header.Get(SignatureHeader))
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrUnsupportedEvent):
			// Провайдер не должен повторять доставку
			h.logger.Info("POST /webhooks/payments - Event ignored: %v", err)
			handlers.RespondJSON(w, http.StatusOK, WebhookResponse{Status: statusIgnored})

		case errors.Is(err, payments.ErrInvalidSignature):
			h.logger.Warn("POST /webhooks/payments - Invalid signature: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSignature)

		case errors.Is(err, payments.ErrInvalidPayload):
			h.logger.Warn("POST /webhooks/payments - Invalid payload: %v", err)
			handlers.RespondBadRequest(w, msgInvalidPayload)

		case errors.Is(err, payments.ErrNotConfigured):
			h.logger.Error("POST /webhooks/payments - Webhook secret is not configured")
			handlers.RespondError(w, http.StatusServiceUnavailable, msgNotConfigured)

		default:
			h.logger.Error("POST /webhooks/payments - Failed to verify event: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	result, err := h.service.ApplyPayment(r.Context(), evt)
	if err != nil {
		switch {
		case errors.Is(err, funding.ErrCurrencyMismatch):
			h.logger.Warn("POST /webhooks/payments - Currency mismatch: event_id=%s, counter=%s, currency=%s",
				evt.EventID, evt.CounterName, evt.Currency)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgCurrencyMismatch)

		case errors.Is(err, funding.ErrInvalidInput):
			h.logger.Warn("POST /webhooks/payments - Invalid payment: event_id=%s, error=%v", evt.EventID, err)
			handlers.RespondBadRequest(w, msgInvalidPayload)

		default:
			h.logger.Error("POST /webhooks/payments - Failed to apply payment: event_id=%s, error=%v", evt.EventID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	status := statusApplied
	if result.Duplicate {
		status = statusAlreadyReceived
	}

	h.logger.Info("POST /webhooks/payments - Payment processed: event_id=%s, counter=%s, amount=%d, status=%s",
		evt.EventID, evt.CounterName, evt.Amount, status)
	handlers.RespondJSON(w, http.StatusOK, WebhookResponse{Status: status})
}
