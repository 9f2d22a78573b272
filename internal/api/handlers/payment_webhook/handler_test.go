package payment_webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/payments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/funding"
	"github.com/m04kA/SMC-AppointmentService/internal/service/funding/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

const secret = "whsec_handler"

type fundingMock struct {
	mock.Mock
}

func (m *fundingMock) ApplyPayment(ctx context.Context, evt *domain.PaymentEvent) (*models.ApplyPaymentResponse, error) {
	args := m.Called(ctx, evt)
	resp, _ := args.Get(0).(*models.ApplyPaymentResponse)
	return resp, args.Error(1)
}

func paymentIntent(eventID string) string {
	return fmt.Sprintf(`{"id":%q,"object":"event","type":"payment_intent.succeeded","created":1741600000,`+
		`"data":{"object":{"id":"pi_1","object":"payment_intent","amount":1500,"amount_received":1500,"currency":"eur","metadata":{"counter":"roof"}}}}`, eventID)
}

func deliver(svc FundingService, body, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payments", strings.NewReader(body))
	req.Header.Set(SignatureHeader, signature)
	rec := httptest.NewRecorder()
	NewHandler(payments.NewVerifier(secret, 5*time.Minute, "general"), svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func sign(body string) string {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(body),
		Secret:    secret,
		Timestamp: time.Now(),
		Scheme:    "v1",
	}).Header
}

func status(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body WebhookResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Status
}

func TestHandle_AppliesPayment(t *testing.T) {
	svc := &fundingMock{}
	svc.On("ApplyPayment", mock.Anything, mock.MatchedBy(func(evt *domain.PaymentEvent) bool {
		return evt.EventID == "evt_1" && evt.CounterName == "roof" && evt.Amount == 1500
	})).Return(&models.ApplyPaymentResponse{Counter: &models.CounterResponse{Name: "roof", TotalAmount: 1500}}, nil)

	body := paymentIntent("evt_1")
	rec := deliver(svc, body, sign(body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, statusApplied, status(t, rec))
	svc.AssertExpectations(t)
}

func TestHandle_DuplicateDeliveryIsOK(t *testing.T) {
	svc := &fundingMock{}
	svc.On("ApplyPayment", mock.Anything, mock.Anything).Return(&models.ApplyPaymentResponse{Duplicate: true}, nil)

	body := paymentIntent("evt_2")
	rec := deliver(svc, body, sign(body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, statusAlreadyReceived, status(t, rec))
}

func TestHandle_RejectsBadSignature(t *testing.T) {
	svc := &fundingMock{}

	body := paymentIntent("evt_3")
	rec := deliver(svc, body, "t=1,v1=deadbeef")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "ApplyPayment", mock.Anything, mock.Anything)
}

func TestHandle_IgnoresUnsupportedEvents(t *testing.T) {
	svc := &fundingMock{}

	body := `{"id":"evt_4","object":"event","type":"customer.created","created":1741600000,"data":{"object":{"id":"cus_1","object":"customer"}}}`
	rec := deliver(svc, body, sign(body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, statusIgnored, status(t, rec))
	svc.AssertNotCalled(t, "ApplyPayment", mock.Anything, mock.Anything)
}

func TestHandle_CurrencyMismatch(t *testing.T) {
	svc := &fundingMock{}
	svc.On("ApplyPayment", mock.Anything, mock.Anything).Return(nil, funding.ErrCurrencyMismatch)

	body := paymentIntent("evt_5")
	rec := deliver(svc, body, sign(body))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
