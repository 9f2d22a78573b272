package payments

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Verifier проверяет подпись уведомлений Stripe и извлекает из них поступление
type Verifier struct {
	secret         string
	tolerance      time.Duration
	defaultCounter string
}

// NewVerifier создает новый экземпляр верификатора
func NewVerifier(secret string, tolerance time.Duration, defaultCounter string) *Verifier {
	if tolerance <= 0 {
		tolerance = webhook.DefaultTolerance
	}
	return &Verifier{
		secret:         strings.TrimSpace(secret),
		tolerance:      tolerance,
		defaultCounter: defaultCounter,
	}
}

// Verify проверяет подпись заголовка Stripe-Signature и возвращает поступление.
// Для событий, не связанных с оплатой, возвращает ErrUnsupportedEvent вместе с
// идентификатором и типом события, чтобы вызывающий мог подтвердить получение.
func (v *Verifier) Verify(body []byte, signature string) (*domain.PaymentEvent, error) {
	if v.secret == "" {
		return nil, ErrNotConfigured
	}

	evt, err := webhook.ConstructEventWithOptions(body, signature, v.secret, webhook.ConstructEventOptions{
		Tolerance:                v.tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	payment := &domain.PaymentEvent{
		Provider:    ProviderStripe,
		EventID:     evt.ID,
		EventType:   string(evt.Type),
		CounterName: v.defaultCounter,
		OccurredAt:  time.Unix(evt.Created, 0).UTC(),
	}

	var (
		amount   int64
		currency stripe.Currency
		metadata map[string]string
	)

	switch payment.EventType {
	case EventPaymentIntentSucceeded:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(evt.Data.Raw, &intent); err != nil {
			return nil, fmt.Errorf("%w: payment intent: %v", ErrInvalidPayload, err)
		}
		amount, currency, metadata = intent.AmountReceived, intent.Currency, intent.Metadata
		if amount == 0 {
			amount = intent.Amount
		}
	case EventCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(evt.Data.Raw, &session); err != nil {
			return nil, fmt.Errorf("%w: checkout session: %v", ErrInvalidPayload, err)
		}
		amount, currency, metadata = session.AmountTotal, session.Currency, session.Metadata
	default:
		return payment, ErrUnsupportedEvent
	}

	if amount <= 0 {
		return nil, fmt.Errorf("%w: non-positive amount %d", ErrInvalidPayload, amount)
	}

	payment.Amount = amount
	payment.Currency = strings.ToUpper(string(currency))
	if name := strings.TrimSpace(metadata[MetadataCounterKey]); name != "" {
		payment.CounterName = name
	}

	return payment, nil
}
