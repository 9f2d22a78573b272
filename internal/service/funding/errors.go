package funding

import "errors"

var (
	// ErrCounterNotFound возвращается, когда счётчик не найден
	ErrCounterNotFound = errors.New("funding counter not found")

	// ErrCurrencyMismatch возвращается, когда валюта платежа отличается от валюты счётчика
	ErrCurrencyMismatch = errors.New("currency does not match counter")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
