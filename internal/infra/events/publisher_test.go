package events

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type passThroughTx struct{}

func (passThroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockRepo struct{ mock.Mock }

func (m *mockRepo) FetchUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	args := m.Called(ctx, limit)
	events, _ := args.Get(0).([]*domain.OutboxEvent)
	return events, args.Error(1)
}

func (m *mockRepo) MarkPublished(ctx context.Context, ids []int64) error {
	return m.Called(ctx, ids).Error(0)
}

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

type countingMetrics struct{ published map[string]int }

func (m *countingMetrics) IncOutboxPublished(eventType string) {
	if m.published == nil {
		m.published = map[string]int{}
	}
	m.published[eventType]++
}

func newTestPublisher(repo OutboxRepository, w MessageWriter, m Metrics) *Publisher {
	return NewPublisher(passThroughTx{}, repo, w, m, logger.NewNop(), Config{BatchSize: 10})
}

func TestPublishBatch_WritesAndMarks(t *testing.T) {
	repo := &mockRepo{}
	repo.On("FetchUnpublished", mock.Anything, 10).Return([]*domain.OutboxEvent{
		{ID: 1, EventID: "e-1", EventType: domain.EventAppointmentCreated, AggregateID: "42", Payload: []byte(`{"a":1}`)},
		{ID: 2, EventID: "e-2", EventType: domain.EventAppointmentCancelled, AggregateID: "42", Payload: []byte(`{"a":2}`)},
	}, nil)
	repo.On("MarkPublished", mock.Anything, []int64{1, 2}).Return(nil)

	w := &fakeWriter{}
	m := &countingMetrics{}

	n, err := newTestPublisher(repo, w, m).PublishBatch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, w.msgs, 2)
	assert.Equal(t, domain.EventAppointmentCreated, w.msgs[0].Topic)
	assert.Equal(t, []byte("42"), w.msgs[0].Key)
	assert.Equal(t, "e-1", HeaderValue(w.msgs[0].Headers, HeaderEventID))
	assert.Equal(t, domain.EventAppointmentCreated, HeaderValue(w.msgs[0].Headers, HeaderEventType))
	assert.Equal(t, 1, m.published[domain.EventAppointmentCancelled])
	repo.AssertExpectations(t)
}

func TestPublishBatch_Empty(t *testing.T) {
	repo := &mockRepo{}
	repo.On("FetchUnpublished", mock.Anything, 10).Return([]*domain.OutboxEvent{}, nil)

	w := &fakeWriter{}
	n, err := newTestPublisher(repo, w, &countingMetrics{}).PublishBatch(context.Background())

	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, w.msgs)
	repo.AssertNotCalled(t, "MarkPublished", mock.Anything, mock.Anything)
}

func TestPublishBatch_WriteFailureLeavesEventsUnpublished(t *testing.T) {
	repo := &mockRepo{}
	repo.On("FetchUnpublished", mock.Anything, 10).Return([]*domain.OutboxEvent{
		{ID: 7, EventID: "e-7", EventType: domain.EventAppointmentCreated, AggregateID: "1"},
	}, nil)

	w := &fakeWriter{err: errors.New("broker down")}
	_, err := newTestPublisher(repo, w, &countingMetrics{}).PublishBatch(context.Background())

	assert.ErrorIs(t, err, ErrWriteMessages)
	repo.AssertNotCalled(t, "MarkPublished", mock.Anything, mock.Anything)
}

func TestPublishBatch_FetchFailure(t *testing.T) {
	repo := &mockRepo{}
	repo.On("FetchUnpublished", mock.Anything, 10).Return(nil, errors.New("db down"))

	_, err := newTestPublisher(repo, &fakeWriter{}, &countingMetrics{}).PublishBatch(context.Background())

	assert.ErrorIs(t, err, ErrFetchEvents)
}

func TestRun_StopsOnCancelAndClosesWriter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := &fakeWriter{}
	newTestPublisher(&mockRepo{}, w, &countingMetrics{}).Run(ctx)

	assert.True(t, w.closed)
}

func TestSplitBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, SplitBrokers(" a:9092, ,b:9092 "))
	assert.Nil(t, SplitBrokers(""))
}

func TestHeaderCarrier_SetOverwrites(t *testing.T) {
	c := &headerCarrier{}
	c.Set("traceparent", "one")
	c.Set("traceparent", "two")

	assert.Equal(t, "two", c.Get("traceparent"))
	assert.Equal(t, []string{"traceparent"}, c.Keys())
}
