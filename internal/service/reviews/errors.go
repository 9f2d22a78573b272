package reviews

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("business not found")

	// ErrAccessDenied возвращается, когда отзыв оставляет не клиент записи
	ErrAccessDenied = errors.New("access denied")

	// ErrAppointmentNotCompleted возвращается, когда запись ещё не завершена
	ErrAppointmentNotCompleted = errors.New("appointment is not completed")

	// ErrReviewAlreadyExists возвращается при повторном отзыве на запись
	ErrReviewAlreadyExists = errors.New("review already exists")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
