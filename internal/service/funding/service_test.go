package funding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	fundingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/funding"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type mockFunding struct{ mock.Mock }

func (m *mockFunding) InsertPaymentEvent(ctx context.Context, evt domain.PaymentEvent) error {
	return m.Called(ctx, evt).Error(0)
}

func (m *mockFunding) IncrementCounter(ctx context.Context, name, currency string, amount int64) (*domain.FundingCounter, error) {
	args := m.Called(ctx, name, currency, amount)
	c, _ := args.Get(0).(*domain.FundingCounter)
	return c, args.Error(1)
}

func (m *mockFunding) Get(ctx context.Context, name string) (*domain.FundingCounter, error) {
	args := m.Called(ctx, name)
	c, _ := args.Get(0).(*domain.FundingCounter)
	return c, args.Error(1)
}

type passThroughTx struct{}

func (passThroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func paymentEvent() *domain.PaymentEvent {
	return &domain.PaymentEvent{
		Provider:    "stripe",
		EventID:     "evt_1",
		EventType:   "payment_intent.succeeded",
		CounterName: "community",
		Amount:      1500,
		Currency:    "EUR",
		OccurredAt:  time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestApplyPayment_FirstContributionCreatesCounter(t *testing.T) {
	repo := &mockFunding{}
	evt := paymentEvent()
	repo.On("Get", mock.Anything, "community").Return(nil, fundingRepo.ErrCounterNotFound)
	repo.On("InsertPaymentEvent", mock.Anything, *evt).Return(nil)
	repo.On("IncrementCounter", mock.Anything, "community", "EUR", int64(1500)).
		Return(&domain.FundingCounter{Name: "community", Currency: "EUR", TotalAmount: 1500, Contributions: 1}, nil)

	resp, err := NewService(repo, passThroughTx{}, logger.NewNop()).ApplyPayment(context.Background(), evt)

	require.NoError(t, err)
	assert.False(t, resp.Duplicate)
	assert.Equal(t, int64(1500), resp.Counter.TotalAmount)
	repo.AssertExpectations(t)
}

func TestApplyPayment_DuplicateIsIdempotent(t *testing.T) {
	repo := &mockFunding{}
	evt := paymentEvent()
	current := &domain.FundingCounter{Name: "community", Currency: "EUR", TotalAmount: 1500, Contributions: 1}
	repo.On("Get", mock.Anything, "community").Return(current, nil)
	repo.On("InsertPaymentEvent", mock.Anything, *evt).Return(fundingRepo.ErrDuplicateEvent)

	resp, err := NewService(repo, passThroughTx{}, logger.NewNop()).ApplyPayment(context.Background(), evt)

	require.NoError(t, err)
	assert.True(t, resp.Duplicate)
	assert.Equal(t, int64(1500), resp.Counter.TotalAmount)
	repo.AssertNotCalled(t, "IncrementCounter", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyPayment_CurrencyMismatch(t *testing.T) {
	repo := &mockFunding{}
	repo.On("Get", mock.Anything, "community").Return(&domain.FundingCounter{Name: "community", Currency: "USD"}, nil)

	_, err := NewService(repo, passThroughTx{}, logger.NewNop()).ApplyPayment(context.Background(), paymentEvent())

	assert.ErrorIs(t, err, ErrCurrencyMismatch)
	repo.AssertNotCalled(t, "InsertPaymentEvent", mock.Anything, mock.Anything)
}

func TestApplyPayment_InvalidInput(t *testing.T) {
	evt := paymentEvent()
	evt.Amount = 0

	_, err := NewService(&mockFunding{}, passThroughTx{}, logger.NewNop()).ApplyPayment(context.Background(), evt)

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestApplyPayment_RepositoryFailure(t *testing.T) {
	repo := &mockFunding{}
	evt := paymentEvent()
	repo.On("Get", mock.Anything, "community").Return(nil, fundingRepo.ErrCounterNotFound)
	repo.On("InsertPaymentEvent", mock.Anything, *evt).Return(errors.New("connection reset"))

	_, err := NewService(repo, passThroughTx{}, logger.NewNop()).ApplyPayment(context.Background(), evt)

	assert.ErrorIs(t, err, ErrInternal)
}

func TestGet(t *testing.T) {
	repo := &mockFunding{}
	repo.On("Get", mock.Anything, "community").Return(&domain.FundingCounter{Name: "community", TotalAmount: 42}, nil)
	repo.On("Get", mock.Anything, "missing").Return(nil, fundingRepo.ErrCounterNotFound)
	svc := NewService(repo, passThroughTx{}, logger.NewNop())

	resp, err := svc.Get(context.Background(), "community")
	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.TotalAmount)

	_, err = svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrCounterNotFound)
}
