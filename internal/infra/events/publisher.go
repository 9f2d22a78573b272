package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultBatchSize    = 50
)

var (
	// ErrFetchEvents ошибка чтения исходящих событий
	ErrFetchEvents = errors.New("events.publisher: failed to fetch outbox events")

	// ErrWriteMessages ошибка записи сообщений в Kafka
	ErrWriteMessages = errors.New("events.publisher: failed to write messages")

	// ErrMarkPublished ошибка отметки событий опубликованными
	ErrMarkPublished = errors.New("events.publisher: failed to mark events published")
)

// OutboxRepository хранилище исходящих событий
type OutboxRepository interface {
	FetchUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, ids []int64) error
}

// TransactionManager выполняет функцию в транзакции
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// MessageWriter отправляет сообщения брокеру, *kafka.Writer реализует его
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Metrics метрики публикации
type Metrics interface {
	IncOutboxPublished(eventType string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Config параметры публикатора
type Config struct {
	PollInterval time.Duration
	BatchSize    int
}

// Publisher переносит события из outbox в Kafka. Топик равен типу события,
// ключ равен идентификатору записи, поэтому события одной записи упорядочены.
type Publisher struct {
	txManager TransactionManager
	repo      OutboxRepository
	writer    MessageWriter
	metrics   Metrics
	logger    Logger
	pollEvery time.Duration
	batchSize int
}

// NewKafkaWriter создает writer для списка брокеров
func NewKafkaWriter(brokers []string) *kafka.Writer {
	return kafka.NewWriter(kafka.WriterConfig{
		Brokers:  brokers,
		Balancer: &kafka.Hash{},
	})
}

// SplitBrokers разбирает список брокеров через запятую
func SplitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// NewPublisher создает публикатор
func NewPublisher(
	txManager TransactionManager,
	repo OutboxRepository,
	writer MessageWriter,
	metrics Metrics,
	logger Logger,
	cfg Config,
) *Publisher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	return &Publisher{
		txManager: txManager,
		repo:      repo,
		writer:    writer,
		metrics:   metrics,
		logger:    logger,
		pollEvery: cfg.PollInterval,
		batchSize: cfg.BatchSize,
	}
}

// Run публикует пачки событий по таймеру до отмены контекста
func (p *Publisher) Run(ctx context.Context) {
	defer func() {
		if err := p.writer.Close(); err != nil {
			p.logger.Warn("Failed to close kafka writer: %v", err)
		}
	}()

	ticker := time.NewTicker(p.pollEvery)
	defer ticker.Stop()

	p.logger.Info("Outbox publisher started (interval=%s, batch=%d)", p.pollEvery, p.batchSize)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Outbox publisher stopped")
			return
		case <-ticker.C:
			if _, err := p.PublishBatch(ctx); err != nil {
				p.logger.Error("Outbox publish failed: %v", err)
			}
		}
	}
}

// PublishBatch публикует одну пачку событий и возвращает их количество.
// События отмечаются опубликованными только после успешной записи в Kafka,
// при ошибке транзакция откатывается и пачка будет отправлена повторно.
func (p *Publisher) PublishBatch(ctx context.Context) (int, error) {
	published := 0

	err := p.txManager.Do(ctx, func(ctx context.Context) error {
		records, err := p.repo.FetchUnpublished(ctx, p.batchSize)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrFetchEvents, err)
		}
		if len(records) == 0 {
			return nil
		}

		msgs := make([]kafka.Message, 0, len(records))
		ids := make([]int64, 0, len(records))
		for _, r := range records {
			msgs = append(msgs, toMessage(ctx, r))
			ids = append(ids, r.ID)
		}

		if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteMessages, err)
		}

		if err := p.repo.MarkPublished(ctx, ids); err != nil {
			return fmt.Errorf("%w: %v", ErrMarkPublished, err)
		}

		for _, r := range records {
			p.metrics.IncOutboxPublished(r.EventType)
		}
		published = len(records)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return published, nil
}

func toMessage(ctx context.Context, evt *domain.OutboxEvent) kafka.Message {
	headers := []kafka.Header{
		{Key: HeaderEventID, Value: []byte(evt.EventID)},
		{Key: HeaderEventType, Value: []byte(evt.EventType)},
	}
	return kafka.Message{
		Topic:   evt.EventType,
		Key:     []byte(evt.AggregateID),
		Value:   evt.Payload,
		Headers: injectTraceHeaders(ctx, headers),
	}
}
