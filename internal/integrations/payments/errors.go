package payments

import "errors"

var (
	// ErrNotConfigured секрет вебхука не задан
	ErrNotConfigured = errors.New("payments: webhook secret is not configured")

	// ErrInvalidSignature подпись уведомления не прошла проверку
	ErrInvalidSignature = errors.New("payments: invalid webhook signature")

	// ErrInvalidPayload тело события не удалось разобрать
	ErrInvalidPayload = errors.New("payments: invalid event payload")

	// ErrUnsupportedEvent тип события не влияет на сборы
	ErrUnsupportedEvent = errors.New("payments: unsupported event type")
)
